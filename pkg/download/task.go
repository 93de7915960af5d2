package download

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Task is the handle of a background download.
type Task struct {
	ID          uuid.UUID
	Source      string
	Destination string
	Size        int64
	Compression Compression

	sha1      string
	chunkSize int
	hooks     Hooks

	done chan struct{}
	err  error
}

func newTask(req Request, destination string) *Task {
	return &Task{
		ID:          uuid.New(),
		Source:      req.URL,
		Destination: destination,
		Size:        req.Size,
		Compression: CompressionFor(req.URL, req.Decompress),
		sha1:        req.SHA1,
		chunkSize:   req.ChunkSize,
		hooks:       req.Hooks.withDefaults(),
		done:        make(chan struct{}),
	}
}

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task has finished and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Err returns the task error once it has finished and nil while it is running.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

func (t *Task) finish(err error) {
	t.err = err
	close(t.done)
}

// WaitAll waits for every task and returns the first error. It returns early with
// the context error when ctx is cancelled; the tasks themselves keep running.
func WaitAll(ctx context.Context, tasks ...*Task) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		g.Go(func() error {
			select {
			case <-t.Done():
				return t.Err()
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	return g.Wait()
}
