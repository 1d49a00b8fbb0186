package warn

func bad() {}

func f() {
	bad()
}
