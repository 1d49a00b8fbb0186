package deny

func bad() {}

func f() {
	bad() // want `bad call \[demo\]`
}
