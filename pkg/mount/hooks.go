package mount

import (
	"context"
	"sync"
)

// EventGetMountPoint is the event name passed to observers before a Find scan.
const EventGetMountPoint = "get_mountpoint"

// Bootstrapper prepares the filesystem environment before resolution queries.
// EnsureReady must be idempotent.
type Bootstrapper interface {
	EnsureReady() error
}

// BootstrapFunc adapts a function to the Bootstrapper interface.
// The function is called on every EnsureReady; see Once for run-once semantics.
type BootstrapFunc func() error

// EnsureReady implements Bootstrapper.
func (f BootstrapFunc) EnsureReady() error {
	return f()
}

// onceBootstrapper runs its setup function a single time and remembers the result.
type onceBootstrapper struct {
	once sync.Once
	fn   func() error
	err  error
}

// Once returns a Bootstrapper that calls fn on the first EnsureReady only.
// Later calls return the error of that first run.
func Once(fn func() error) Bootstrapper {
	return &onceBootstrapper{fn: fn}
}

func (o *onceBootstrapper) EnsureReady() error {
	o.once.Do(func() {
		o.err = o.fn()
	})
	return o.err
}

// Observer is notified synchronously before a Find scan.
// The running lookup uses the table as it was before observers were called;
// changes an observer makes only affect later queries.
type Observer interface {
	OnLookup(event, path string)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(event, path string)

// OnLookup implements Observer.
func (f ObserverFunc) OnLookup(event, path string) {
	f(event, path)
}

// Translator resolves a numeric storage id to its string identity.
type Translator interface {
	StorageID(ctx context.Context, numericID int64) (string, error)
}
