// Package viewstate keeps the latest result of a live query for one screen
// and runs the screen's mutation intents.
package viewstate

import "chat-sync-app/enum"

// Resource is what a screen renders: nothing yet, a full snapshot, or the
// failure that ended the subscription.
type Resource[T any] struct {
	Status enum.ResourceStatus
	Data   []T
	Err    error
}

func Pending[T any]() Resource[T] {
	return Resource[T]{Status: enum.ResourcePending}
}

func Snapshot[T any](data []T) Resource[T] {
	if data == nil {
		data = []T{}
	}
	return Resource[T]{Status: enum.ResourceSnapshot, Data: data}
}

func Failed[T any](err error) Resource[T] {
	return Resource[T]{Status: enum.ResourceFailed, Err: err}
}

func (r Resource[T]) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
