package viewstate

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Dispatch runs a mutation intent in the background and reports whether it
// succeeded. Failures are logged and never retried; the caller re-issues.
func Dispatch(log *logrus.Logger, action string, fn func() error, onComplete func(bool)) {
	go func() {
		err := fn()
		if err != nil {
			log.WithError(err).WithField("action", action).Error("mutation failed")
		}
		if onComplete != nil {
			onComplete(err == nil)
		}
	}()
}

// Flag is a screen status that is unset until a mutation reports back.
type Flag struct {
	mu    sync.Mutex
	set   bool
	value bool
}

func (f *Flag) Set(value bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set, f.value = true, value
}

// Get returns the reported value and whether anything was reported.
func (f *Flag) Get() (value, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.set
}

func (f *Flag) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set, f.value = false, false
}
