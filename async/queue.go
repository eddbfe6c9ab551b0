package async

import (
	"context"
	"errors"
	"iter"
	"sync"
)

// ErrQueueClosed is returned when adding to a closed Queue.
var ErrQueueClosed = errors.New("async: queue closed")

type segment[T any] struct {
	src   <-chan T
	val   T
	close bool
}

// Queue is a replayable multi-producer queue. A single internal goroutine
// drains segments in FIFO order; Close must be called to release it.
type Queue[T any] struct {
	mu      sync.Mutex
	notify  chan struct{} // closed and replaced on every state change
	pending []segment[T]
	log     []T
	closed  bool
	drained chan struct{}
}

// NewQueue creates an open Queue.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{
		notify:  make(chan struct{}),
		drained: make(chan struct{}),
	}

	go q.pump()

	return q
}

// Splice enqueues every element received from src. Elements are emitted
// after everything enqueued before and before anything enqueued later; the
// next segment starts once src is closed.
func (q *Queue[T]) Splice(src <-chan T) error {
	return q.enqueue(segment[T]{src: src})
}

// Push enqueues a single element.
func (q *Queue[T]) Push(v T) error {
	return q.enqueue(segment[T]{val: v})
}

// Close marks the end of the sequence. Readers finish once all enqueued
// segments have been drained.
func (q *Queue[T]) Close() error {
	return q.enqueue(segment[T]{close: true})
}

func (q *Queue[T]) enqueue(s segment[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	if s.close {
		q.closed = true
	}

	q.pending = append(q.pending, s)
	q.broadcastLocked()

	return nil
}

func (q *Queue[T]) broadcastLocked() {
	close(q.notify)
	q.notify = make(chan struct{})
}

func (q *Queue[T]) pump() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			wait := q.notify
			q.mu.Unlock()
			<-wait

			continue
		}

		s := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		switch {
		case s.close:
			close(q.drained)

			q.mu.Lock()
			q.broadcastLocked()
			q.mu.Unlock()

			return
		case s.src != nil:
			for v := range s.src {
				q.append(v)
			}
		default:
			q.append(s.val)
		}
	}
}

func (q *Queue[T]) append(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.log = append(q.log, v)
	q.broadcastLocked()
}

// Done is closed once the queue has been closed and fully drained.
func (q *Queue[T]) Done() <-chan struct{} { return q.drained }

// items returns a snapshot of everything emitted so far.
func (q *Queue[T]) items() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	return append([]T(nil), q.log...)
}

// All returns a reader over the full sequence starting at the first
// element. It blocks for new elements until the queue is drained or ctx is
// done. Each call yields an independent reader.
func (q *Queue[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; ; {
			q.mu.Lock()
			if i < len(q.log) {
				v := q.log[i]
				q.mu.Unlock()

				i++

				if !yield(v) {
					return
				}

				continue
			}

			wait := q.notify
			q.mu.Unlock()

			select {
			case <-q.drained:
				// drained may have fired between the length check and now
				if q.size() == i {
					return
				}
			case <-wait:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (q *Queue[T]) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.log)
}
