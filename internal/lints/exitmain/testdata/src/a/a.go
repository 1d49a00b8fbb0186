package main

import (
	"fmt"
	"os"
	sys "os"
)

type app struct{}

func (app) main() {
	os.Exit(3)
}

func main() {
	defer fmt.Println("bye")

	if len(os.Args) > 1 {
		os.Exit(2) // want `direct call to os.Exit in main`
	}

	go func() {
		os.Exit(1)
	}()

	sys.Exit(0) // want `direct call to os.Exit in main`
}

func helper() {
	os.Exit(1)
}
