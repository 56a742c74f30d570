// Package observer provides the publish/subscribe primitive connecting data
// producers (streaming sources, running algorithms) to their subscribers
// (problems, algorithms, data consumers). Delivery is synchronous and happens
// on the producer's goroutine; a failing subscriber never prevents delivery
// to the remaining ones.
package observer

import (
	"fmt"
	"sync"

	"k8s.io/klog/v2"
)

// Observer receives notifications of type D from an Observable.
type Observer[D any] interface {
	Update(data D)
}

// Observable is the subject side of the notification contract.
type Observable[D any] interface {
	Register(observer Observer[D])
	Deregister(observer Observer[D])

	SetChanged()
	HasChanged() bool
	ClearChanged()

	// NotifyObservers delivers data to every registered observer in
	// registration order, then clears the changed marker.
	NotifyObservers(data D)

	NumberOfRegisteredObservers() int
}

// SubscriberDeliveryError reports a panic raised by an observer's Update
// handler. It is logged by the observable and never propagated to the
// producer.
type SubscriberDeliveryError struct {
	Observable string
	Cause      any
}

func (e *SubscriberDeliveryError) Error() string {
	return fmt.Sprintf("observer of %q panicked during delivery: %v", e.Observable, e.Cause)
}

// DefaultObservable is a plain registration list with synchronous fan-out.
type DefaultObservable[D any] struct {
	name string

	mu        sync.Mutex
	observers []Observer[D]
	changed   bool
}

var _ Observable[int] = (*DefaultObservable[int])(nil)

func NewDefaultObservable[D any](name string) *DefaultObservable[D] {
	return &DefaultObservable[D]{name: name}
}

func (o *DefaultObservable[D]) Name() string {
	return o.name
}

// Register adds the observer to the delivery list. Registering the same
// observer twice is a no-op, so no observer receives a notification more
// than once.
func (o *DefaultObservable[D]) Register(observer Observer[D]) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, existing := range o.observers {
		if existing == observer {
			return
		}
	}
	o.observers = append(o.observers, observer)
}

func (o *DefaultObservable[D]) Deregister(observer Observer[D]) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, existing := range o.observers {
		if existing == observer {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			return
		}
	}
}

func (o *DefaultObservable[D]) SetChanged() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.changed = true
}

func (o *DefaultObservable[D]) HasChanged() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.changed
}

func (o *DefaultObservable[D]) ClearChanged() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.changed = false
}

// NotifyObservers delivers data synchronously, in registration order, on the
// caller's goroutine. A panicking observer is reported and skipped; delivery
// continues with the observers registered after it.
func (o *DefaultObservable[D]) NotifyObservers(data D) {
	o.mu.Lock()
	targets := make([]Observer[D], len(o.observers))
	copy(targets, o.observers)
	o.changed = false
	o.mu.Unlock()

	for _, target := range targets {
		o.deliver(target, data)
	}
}

func (o *DefaultObservable[D]) deliver(target Observer[D], data D) {
	defer func() {
		if r := recover(); r != nil {
			err := &SubscriberDeliveryError{Observable: o.name, Cause: r}
			klog.ErrorS(err, "observer delivery failed", "observable", o.name)
		}
	}()
	target.Update(data)
}

func (o *DefaultObservable[D]) NumberOfRegisteredObservers() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.observers)
}
