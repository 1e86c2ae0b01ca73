package listener

import (
	"context"
)

// Snapshot is one delivery of a listener: the full result set of the query
// at that moment, or the error that ended the stream.
type Snapshot[T any] struct {
	Items []T
	Err   error
}

// Query produces the current result set of a listened query.
type Query[T any] func(ctx context.Context) ([]T, error)

// Listen runs query now and again every time topic changes, sending full
// snapshots on the returned channel. The channel holds only the newest
// snapshot, so a slow reader skips intermediate states. A failed query sends
// one error snapshot and ends the stream. Cancelling ctx closes the channel
// and releases the subscription.
func Listen[T any](ctx context.Context, hub *Hub, topic string, query Query[T]) <-chan Snapshot[T] {
	out := make(chan Snapshot[T], 1)
	sub := hub.Subscribe(topic)

	go func() {
		defer close(out)
		defer sub.Close()

		for {
			items, err := query(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				Offer(out, Snapshot[T]{Err: err})
				return
			}
			Offer(out, Snapshot[T]{Items: items})

			select {
			case <-ctx.Done():
				return
			case <-sub.C:
			}
		}
	}()
	return out
}

// Offer replaces whatever unread value is buffered in out with snap. Only a
// single goroutine may send on out, so the second send cannot block.
func Offer[T any](out chan T, snap T) {
	select {
	case out <- snap:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	out <- snap
}

// Map converts every snapshot of in with fn. The returned channel follows the
// same rules as Listen and closes when in closes.
func Map[A, B any](in <-chan Snapshot[A], fn func(A) B) <-chan Snapshot[B] {
	out := make(chan Snapshot[B], 1)
	go func() {
		defer close(out)
		for snap := range in {
			if snap.Err != nil {
				Offer(out, Snapshot[B]{Err: snap.Err})
				continue
			}
			items := make([]B, 0, len(snap.Items))
			for _, item := range snap.Items {
				items = append(items, fn(item))
			}
			Offer(out, Snapshot[B]{Items: items})
		}
	}()
	return out
}
