package loader

import (
	"context"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-pano/common"
)

// Result is the outcome of one ingestion request.
type Result struct {
	// Seq is the request number returned by Submit.
	Seq uint64

	// Path is the file the request loaded.
	Path string

	// Texture is the decoded texture, nil when Err is set.
	Texture *common.ImportedTexture

	// Err is the read or decode failure, if any.
	Err error
}

// ingestor is the implementation of the Ingestor interface.
type ingestor struct {
	mu sync.Mutex

	loader Loader
	pool   worker.DynamicWorkerPool

	workers int

	seq     uint64
	cancel  context.CancelFunc
	rootCtx context.Context
	stop    context.CancelFunc
	closed  bool
}

// Ingestor runs image loads off the calling goroutine on a worker pool.
//
// Each Submit supersedes the previous request: its context is cancelled and its sequence
// number stops being the latest. A superseded request that has not reached a worker yet is
// dropped without a callback. Results are handed to the done callback on a worker goroutine,
// so the caller decides whether a result is still current with IsLatest.
type Ingestor interface {
	// Submit starts loading path and cancels any request still in flight. It never waits
	// for a free worker.
	//
	// Parameters:
	//   - path: the image file to load
	//   - done: called once with the result from a worker goroutine, unless a newer Submit
	//     drops the request before it starts
	//
	// Returns:
	//   - uint64: the sequence number of this request, 0 if the ingestor is closed
	Submit(path string, done func(Result)) uint64

	// Latest returns the sequence number of the most recent Submit.
	//
	// Returns:
	//   - uint64: the latest sequence number, 0 before the first Submit
	Latest() uint64

	// IsLatest reports whether seq belongs to the most recent Submit.
	//
	// Parameters:
	//   - seq: a sequence number returned by Submit
	//
	// Returns:
	//   - bool: true if no newer request has been submitted
	IsLatest(seq uint64) bool

	// Close cancels outstanding requests and stops the worker pool.
	// Submit is a no-op afterwards.
	Close()
}

var _ Ingestor = &ingestor{}

// NewIngestor creates an Ingestor that loads images with l.
//
// Parameters:
//   - l: the loader used for each request
//   - options: functional options to configure the ingestor
//
// Returns:
//   - Ingestor: the newly created ingestor
func NewIngestor(l Loader, options ...IngestorBuilderOption) Ingestor {
	i := &ingestor{
		loader:  l,
		workers: 2,
	}
	for _, option := range options {
		option(i)
	}

	i.rootCtx, i.stop = context.WithCancel(context.Background())
	// Only the newest request ever waits, so one queue slot is enough.
	i.pool = worker.NewDynamicWorkerPool(i.workers, 1, 1*time.Second)
	return i
}

func (i *ingestor) Submit(path string, done func(Result)) uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return 0
	}
	if i.cancel != nil {
		i.cancel()
	}
	i.seq++
	seq := i.seq
	ctx, cancel := context.WithCancel(i.rootCtx)
	i.cancel = cancel

	// The queue is empty after clearing and Submit calls are serialized by mu, so
	// SubmitTask cannot block on a full queue.
	i.pool.ClearTaskQueue()
	i.pool.SubmitTask(worker.Task{
		ID:      int(seq),
		Payload: path,
		Do: func() (any, error) {
			tex, err := i.loader.Load(ctx, path)
			if done != nil {
				done(Result{Seq: seq, Path: path, Texture: tex, Err: err})
			}
			return tex, err
		},
	})
	return seq
}

func (i *ingestor) Latest() uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.seq
}

func (i *ingestor) IsLatest(seq uint64) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return seq != 0 && seq == i.seq
}

func (i *ingestor) Close() {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return
	}
	i.closed = true
	i.stop()
	i.mu.Unlock()

	i.pool.Stop()
}
