package utils

// Assert panics with v when ok is false. Only for programmer errors.
func Assert(ok bool, v any) {
	if !ok {
		panic(v)
	}
}
