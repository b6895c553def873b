package testutil

import "testing"

// Given, When and Then name nested subtests so a failing case reads as a
// scenario in test output.
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}
