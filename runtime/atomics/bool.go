package atomics

import "sync/atomic"

// Bool is an atomic boolean. The zero value is false, and all methods are
// safe for concurrent use without further locking.
type Bool struct {
	value int32
}

// NewBool returns an atomic boolean initialized with value.
func NewBool(value bool) Bool {
	b := Bool{}
	if value {
		b.value = 1
	}
	return b
}

// Get the value of the boolean.
func (b *Bool) Get() bool {
	return atomic.LoadInt32(&b.value) != 0
}

// Set the value of the boolean.
func (b *Bool) Set(value bool) {
	if value {
		atomic.StoreInt32(&b.value, 1)
	} else {
		atomic.StoreInt32(&b.value, 0)
	}
}

// Swap sets the value of the boolean and returns the old value.
func (b *Bool) Swap(value bool) bool {
	var v int32
	if value {
		v = 1
	}
	return atomic.SwapInt32(&b.value, v) != 0
}
