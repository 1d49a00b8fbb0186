package suppressed

func bad() {}

func f() {
	//nag:allow demo
	bad()
}

func g() {
	bad() //nag:allow other,demo
}

func h() {
	bad() // want `bad call \[demo\]`
}

func k() {
	bad() //nag:allow demo
	bad() // want `bad call \[demo\]`
}
