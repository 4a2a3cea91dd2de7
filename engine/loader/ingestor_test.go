package loader

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-pano/common"
)

// gatedLoader blocks each Load until its path is released or the context ends.
// With ignoreCancel set only the gate releases it.
type gatedLoader struct {
	gates        map[string]chan struct{}
	started      chan string
	ignoreCancel bool
}

func (g *gatedLoader) ReadDataURL(ctx context.Context, path string) (string, error) {
	return "", nil
}

func (g *gatedLoader) DecodeDataURL(ctx context.Context, url, name string) (*common.ImportedTexture, error) {
	return nil, nil
}

func (g *gatedLoader) Load(ctx context.Context, path string) (*common.ImportedTexture, error) {
	if g.started != nil {
		g.started <- path
	}
	if gate, ok := g.gates[path]; ok {
		if g.ignoreCancel {
			<-gate
		} else {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if path == "bad" {
		return nil, errors.New("decode failed")
	}
	return &common.ImportedTexture{Name: path, Path: path, Width: 1, Height: 1, Pixels: make([]byte, 4)}, nil
}

func (g *gatedLoader) MaxDimension() int { return 0 }

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for ingestion result")
		return Result{}
	}
}

func TestIngestorDeliversResult(t *testing.T) {
	ing := NewIngestor(&gatedLoader{}, WithWorkers(1))
	defer ing.Close()

	results := make(chan Result, 1)
	seq := ing.Submit("a.png", func(r Result) { results <- r })

	r := waitResult(t, results)
	if r.Seq != seq || r.Err != nil || r.Texture == nil || r.Texture.Path != "a.png" {
		t.Fatalf("result = %+v", r)
	}
	if !ing.IsLatest(seq) {
		t.Fatal("only request should be the latest")
	}
}

func TestIngestorReportsFailure(t *testing.T) {
	ing := NewIngestor(&gatedLoader{})
	defer ing.Close()

	results := make(chan Result, 1)
	ing.Submit("bad", func(r Result) { results <- r })
	if r := waitResult(t, results); r.Err == nil || r.Texture != nil {
		t.Fatalf("result = %+v, want failure", r)
	}
}

func TestIngestorSupersedesInFlightRequest(t *testing.T) {
	gl := &gatedLoader{
		gates:   map[string]chan struct{}{"a.png": make(chan struct{})},
		started: make(chan string, 2),
	}
	ing := NewIngestor(gl, WithWorkers(2))
	defer ing.Close()

	results := make(chan Result, 2)
	done := func(r Result) { results <- r }
	first := ing.Submit("a.png", done)
	if p := <-gl.started; p != "a.png" {
		t.Fatalf("started %q, want a.png", p)
	}
	second := ing.Submit("b.png", done)

	if ing.IsLatest(first) || !ing.IsLatest(second) || ing.Latest() != second {
		t.Fatalf("latest = %d, first = %d, second = %d", ing.Latest(), first, second)
	}

	got := map[uint64]Result{}
	for range 2 {
		r := waitResult(t, results)
		got[r.Seq] = r
	}
	if !errors.Is(got[first].Err, context.Canceled) {
		t.Fatalf("superseded request err = %v, want context.Canceled", got[first].Err)
	}
	if got[second].Err != nil || got[second].Texture.Path != "b.png" {
		t.Fatalf("latest request = %+v", got[second])
	}
}

func TestIngestorSubmitDoesNotWaitForBusyWorkers(t *testing.T) {
	gate := make(chan struct{})
	gl := &gatedLoader{
		gates:        map[string]chan struct{}{"stuck.png": gate},
		started:      make(chan string, 64),
		ignoreCancel: true,
	}
	ing := NewIngestor(gl, WithWorkers(1))
	defer ing.Close()

	results := make(chan Result, 64)
	done := func(r Result) { results <- r }
	ing.Submit("stuck.png", done)
	<-gl.started

	submitted := make(chan uint64)
	go func() {
		var last uint64
		for n := range 20 {
			last = ing.Submit(fmt.Sprintf("%d.png", n), done)
		}
		submitted <- last
	}()

	var last uint64
	select {
	case last = <-submitted:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked while the only worker was busy")
	}

	close(gate)
	for {
		r := waitResult(t, results)
		if r.Seq == last {
			if r.Err != nil || r.Texture.Path != "19.png" {
				t.Fatalf("latest result = %+v", r)
			}
			return
		}
		if r.Path != "stuck.png" {
			t.Fatalf("superseded queued request %q still ran", r.Path)
		}
	}
}

func TestIngestorClosed(t *testing.T) {
	ing := NewIngestor(&gatedLoader{})
	ing.Close()
	ing.Close()
	if seq := ing.Submit("a.png", nil); seq != 0 {
		t.Fatalf("Submit after Close = %d, want 0", seq)
	}
	if ing.IsLatest(0) {
		t.Fatal("sequence 0 is never the latest")
	}
}
