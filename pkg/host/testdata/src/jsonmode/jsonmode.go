package jsonmode

func bad() {}

func f() {
	bad() // want `^bad call$`
}
