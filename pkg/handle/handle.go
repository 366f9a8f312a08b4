// Package handle provides single-owner containers for OS resource values.
//
// A Handle tracks whether the value it holds has been successfully acquired
// and guarantees that the resource's release routine runs at most once per
// acquisition. Acquisition is two-phase: Stage stores a value that an OS call
// has written but whose success is not yet known, and Commit marks it live.
// A staged value that is never committed is never released, so a failed OS
// call cannot be torn down as if it had succeeded.
package handle

// ReleaseFunc tears down a resource value of type T.
type ReleaseFunc[T any] func(T) error

// Handle owns at most one resource value. The zero Handle is not usable;
// construct with New or Own. Handles are not safe for concurrent use and
// must not be copied; pass the pointer.
type Handle[T any] struct {
	_       noCopy
	val     T
	valid   bool
	release ReleaseFunc[T]
}

// New returns an empty handle bound to a release strategy. A nil release
// func is allowed for values that need no teardown.
func New[T any](release ReleaseFunc[T]) *Handle[T] {
	return &Handle[T]{release: release}
}

// Own returns a handle that already owns v.
func Own[T any](v T, release ReleaseFunc[T]) *Handle[T] {
	h := New(release)
	h.val = v
	h.valid = true
	return h
}

// Stage releases any previously committed value, then stores v without
// marking it valid. The returned error comes from releasing the prior value.
func (h *Handle[T]) Stage(v T) error {
	err := h.Release()
	h.val = v
	return err
}

// Commit marks the staged value as owned, to be released later.
func (h *Handle[T]) Commit() {
	h.valid = true
}

// Adopt stages v and commits it in one step, for acquisitions whose success
// is already known.
func (h *Handle[T]) Adopt(v T) error {
	err := h.Stage(v)
	h.Commit()
	return err
}

// IsValid reports whether the handle currently owns a value.
func (h *Handle[T]) IsValid() bool {
	return h.valid
}

// Value returns the held value. For an empty handle it returns the zero T.
func (h *Handle[T]) Value() T {
	return h.val
}

// Move transfers ownership to a fresh handle and leaves the source empty.
func (h *Handle[T]) Move() *Handle[T] {
	dst := &Handle[T]{val: h.val, valid: h.valid, release: h.release}
	var zero T
	h.val = zero
	h.valid = false
	return dst
}

// Release tears down the owned value, if any. It is idempotent: once a value
// has been released, or if none was ever committed, Release is a no-op.
func (h *Handle[T]) Release() error {
	if !h.valid {
		return nil
	}
	h.valid = false
	v := h.val
	var zero T
	h.val = zero
	if h.release == nil {
		return nil
	}
	return h.release(v)
}

// noCopy triggers `go vet`'s copylocks check when a Handle is copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
