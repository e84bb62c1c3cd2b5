//go:build debug

// Package check holds precondition assertions for the math hot paths.
// They are compiled in only with the debug build tag; release builds
// leave a violated precondition undefined.
package check

import "fmt"

// Enabled reports whether assertions are compiled in.
const Enabled = true

// That panics with the formatted message when cond is false.
func That(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
