package fileop

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sablefm/sable/internal/logging"
	"github.com/sablefm/sable/internal/queue"
)

// Pool drains the dispatch queue with a fixed number of concurrent
// executors. How many is the caller's decision; the pool only guarantees
// that a fatal leaf error becomes exactly one Fail event for its task and
// never stops the other workers.
type Pool struct {
	emitter
	ops     *queue.Queue[Op]
	worker  *Worker
	workers int
	log     zerolog.Logger
}

// NewPool creates a pool of n executors.
func NewPool(ops *queue.Queue[Op], prog chan<- Progress, worker *Worker, n int) *Pool {
	if n <= 0 {
		n = 1
	}
	return &Pool{
		emitter: emitter{prog: prog},
		ops:     ops,
		worker:  worker,
		workers: n,
		log:     logging.GetLogger("pool"),
	}
}

// Run blocks until the queue is closed and drained or ctx is done.
// Operations already popped run to completion regardless of ctx.
func (p *Pool) Run(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			for {
				op, ok := p.ops.Pop(ctx)
				if !ok {
					return nil
				}
				if err := p.worker.Work(op); err != nil {
					p.log.Error().Err(err).Uint64("task", uint64(op.TaskID())).
						Msgf("%T failed", op)
					p.fail(op.TaskID(), "%v", err)
				}
				// Released only after Work returns, so a transient retry
				// pushed mid-Work lands on a queue that cannot terminate
				// underneath it even if Close has already been called.
				p.ops.Done()
			}
		})
	}
	_ = g.Wait()
}
