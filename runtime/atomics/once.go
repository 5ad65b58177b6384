package atomics

import "sync"

// Once is similar to sync.Once except that once.Do() returns true, if this
// was the call that invoked f. A method once.Wait() is also added for anyone
// waiting for once.Do() to have been called.
//
// Calling once.Do(nil) will not panic, but act similar to once.Do(func(){}).
type Once struct {
	m    sync.Mutex
	done Bool
	c    chan struct{}
}

// Do will call f() and return true, the first time once.Do() is called.
// All following calls to once.Do() will not call f() and return false.
func (o *Once) Do(f func()) bool {
	// Quickly check if done
	if o.done.Get() {
		return false
	}

	// Lock so that we don't set done twice
	o.m.Lock()
	defer o.m.Unlock()

	if o.done.Get() {
		return false
	}

	// Close channel if anyone is waiting
	defer func() {
		if o.c != nil {
			close(o.c)
		}
	}()

	// Set done regardless of panic
	defer o.done.Set(true)

	if f != nil {
		f()
	}
	return true
}

// IsDone returns true if once.Do() has been called.
func (o *Once) IsDone() bool {
	return o.done.Get()
}

// Wait blocks until once.Do() has been called once. After that once.Wait()
// always returns immediately.
func (o *Once) Wait() {
	if o.done.Get() {
		return
	}

	// Lock so that done doesn't change while we create the channel
	o.m.Lock()
	if o.done.Get() {
		o.m.Unlock()
		return
	}
	if o.c == nil {
		o.c = make(chan struct{})
	}
	o.m.Unlock()

	<-o.c
}
