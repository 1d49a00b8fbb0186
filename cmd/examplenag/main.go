// Package main - примерный линтер на pkg/driver с проверкой exitmain.
//
// Использование:
//
//	NAG_LINTER_DIR=$(pwd)/cmd/examplenag nag vet ./...
//
// Найденное можно подавить комментарием //nag:allow exitmain.
package main

import (
	"os"

	"github.com/aseptimu/nag/internal/lints"
	"github.com/aseptimu/nag/pkg/driver"
)

func main() {
	os.Exit(driver.Run("nag", lints.Register)) //nag:allow exitmain
}
