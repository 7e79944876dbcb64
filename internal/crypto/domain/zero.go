package domain

// Zero overwrites a byte slice with zeros to clear sensitive data from memory.
//
// Derived keys live only for the duration of a single operation; callers are
// expected to defer Zero on every key buffer as soon as it is created. This is
// best-effort hygiene: it shortens the window in which key material is visible
// in heap dumps, but Go gives no guarantee about copies made by the runtime.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
