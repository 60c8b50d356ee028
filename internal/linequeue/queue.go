// Package linequeue provides the unbounded FIFO that carries engine output
// lines from the output drain to the protocol driver.
package linequeue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arimaakit/aei-sdk-go/internal/aei"
	"github.com/arimaakit/aei-sdk-go/internal/errors"
)

// Queue is an unbounded FIFO of decoded output lines.
//
// The contract is one producer and one consumer: the output drain pushes,
// the protocol driver pops. Push never waits on the consumer; a shuttle
// goroutine absorbs any backlog in memory, so a slow or busy driver can
// never stall the drain. Lines are delivered in push order and none are
// dropped.
type Queue struct {
	in  chan aei.Line
	out chan aei.Line

	length    atomic.Int64
	closeOnce sync.Once
}

// New creates an empty queue and starts its shuttle goroutine.
func New() *Queue {
	q := &Queue{
		in:  make(chan aei.Line),
		out: make(chan aei.Line),
	}

	go q.shuttle()

	return q
}

// shuttle moves lines from in to out, buffering the backlog in between.
// It exits once in is closed and the backlog is drained, closing out.
func (q *Queue) shuttle() {
	var backlog []aei.Line

	in := q.in
	for in != nil || len(backlog) > 0 {
		var (
			out  chan aei.Line
			next aei.Line
		)
		if len(backlog) > 0 {
			out = q.out
			next = backlog[0]
		}

		select {
		case line, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			backlog = append(backlog, line)
		case out <- next:
			backlog = backlog[1:]
			q.length.Add(-1)
		}
	}

	close(q.out)
}

// Push appends a line to the queue. It must only be called by the producer
// and never after Close.
func (q *Queue) Push(line aei.Line) {
	q.length.Add(1)
	q.in <- line
}

// Pop blocks until a line is available, the context is cancelled, or the
// queue is closed and drained.
func (q *Queue) Pop(ctx context.Context) (aei.Line, error) {
	select {
	case line, ok := <-q.out:
		if !ok {
			return aei.Line{}, errors.ErrQueueClosed
		}

		return line, nil
	case <-ctx.Done():
		return aei.Line{}, ctx.Err()
	}
}

// PopTimeout waits up to timeout for a line. It returns ErrQueueTimeout
// when no line arrives in time and ErrQueueClosed once the queue is closed
// and its backlog drained.
func (q *Queue) PopTimeout(timeout time.Duration) (aei.Line, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case line, ok := <-q.out:
		if !ok {
			return aei.Line{}, errors.ErrQueueClosed
		}

		return line, nil
	case <-timer.C:
		return aei.Line{}, errors.ErrQueueTimeout
	}
}

// Len reports the number of lines pushed but not yet popped.
func (q *Queue) Len() int {
	return int(q.length.Load())
}

// Close stops intake. Lines already pushed remain poppable; once the
// backlog drains, pops report ErrQueueClosed. Close is idempotent and
// must be called by the producer.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.in)
	})
}
