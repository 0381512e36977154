package observable

import "sync"

// Value holds a current state value and pushes every change to subscribers.
//
// Each subscriber channel has a buffer of one and always holds the most
// recent value: a slow subscriber skips intermediate states but never sees
// a stale one after catching up.
type Value[T any] struct {
	mu          sync.Mutex
	current     T
	subscribers map[*subscriber[T]]struct{}
}

type subscriber[T any] struct {
	ch chan T
}

// New creates a Value holding initial
func New[T any](initial T) *Value[T] {
	return &Value[T]{
		current:     initial,
		subscribers: make(map[*subscriber[T]]struct{}),
	}
}

// Get returns the current value
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the current value and notifies subscribers
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = next
	v.publish()
}

// Update applies fn to the current value atomically and returns the result
func (v *Value[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = fn(v.current)
	v.publish()
	return v.current
}

// Subscribe returns a channel that receives the current value immediately and
// every later change. The returned func unsubscribes and closes the channel.
func (v *Value[T]) Subscribe() (<-chan T, func()) {
	sub := &subscriber[T]{ch: make(chan T, 1)}

	v.mu.Lock()
	v.subscribers[sub] = struct{}{}
	sub.ch <- v.current
	v.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			delete(v.subscribers, sub)
			close(sub.ch)
		})
	}
}

// SubscriberCount returns the number of active subscribers
func (v *Value[T]) SubscriberCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subscribers)
}

// publish must be called with mu held
func (v *Value[T]) publish() {
	for sub := range v.subscribers {
		// Drop the pending value, if any, so the buffer holds the latest
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- v.current
	}
}
