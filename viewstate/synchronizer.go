package viewstate

import (
	"context"
	"sync"

	"chat-sync-app/listener"

	"github.com/rs/zerolog"
)

// Source opens the live query behind a screen. An error means no
// subscription could be opened at all.
type Source[T any] func(ctx context.Context) (<-chan listener.Snapshot[T], error)

// Synchronizer owns at most one subscription of its Source and mirrors the
// newest delivery into State.
type Synchronizer[T any] struct {
	name   string
	source Source[T]
	log    zerolog.Logger

	mu      sync.Mutex
	state   Resource[T]
	cancel  context.CancelFunc
	done    chan struct{}
	updates chan Resource[T]
}

func NewSynchronizer[T any](name string, source Source[T], log zerolog.Logger) *Synchronizer[T] {
	return &Synchronizer[T]{
		name:    name,
		source:  source,
		log:     log,
		state:   Pending[T](),
		updates: make(chan Resource[T], 1),
	}
}

// Activate opens the subscription. Calling it again while active does
// nothing. The subscription lives until Deactivate or until ctx ends.
func (s *Synchronizer[T]) Activate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.setLocked(Pending[T]())

	snapshots, err := s.source(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("screen", s.name).Msg("subscription refused")
		s.setLocked(Failed[T](err))
		close(s.done)
		return
	}
	s.log.Trace().Str("screen", s.name).Msg("subscription opened")
	go s.forward(ctx, snapshots, s.done)
}

func (s *Synchronizer[T]) forward(ctx context.Context, snapshots <-chan listener.Snapshot[T], done chan struct{}) {
	defer close(done)
	for snap := range snapshots {
		s.mu.Lock()
		// a cancelled generation must not overwrite the reset state
		if ctx.Err() != nil {
			s.mu.Unlock()
			return
		}
		if snap.Err != nil {
			s.log.Error().Err(snap.Err).Str("screen", s.name).Msg("subscription failed")
			s.setLocked(Failed[T](snap.Err))
		} else {
			s.setLocked(Snapshot(snap.Items))
		}
		s.mu.Unlock()
	}
}

// Deactivate cancels the subscription, waits for it to stop and resets the
// state to pending.
func (s *Synchronizer[T]) Deactivate() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	if cancel != nil {
		cancel()
		s.setLocked(Pending[T]())
	}
	s.mu.Unlock()

	if done != nil {
		<-done
		s.log.Trace().Str("screen", s.name).Msg("subscription closed")
	}
}

func (s *Synchronizer[T]) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Synchronizer[T]) State() Resource[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Updates delivers state changes. Only the newest unread state is kept, so
// a slow reader never holds up the subscription.
func (s *Synchronizer[T]) Updates() <-chan Resource[T] {
	return s.updates
}

func (s *Synchronizer[T]) setLocked(r Resource[T]) {
	s.state = r
	listener.Offer(s.updates, r)
}
