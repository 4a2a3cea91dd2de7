package main

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/engine/window"
)

type titleRecorder struct {
	window.Window
	mu    sync.Mutex
	title string
}

func (w *titleRecorder) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.title = title
}

func (w *titleRecorder) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

func TestStatusBarTitle(t *testing.T) {
	win := &titleRecorder{}
	s := newStatusBar(win, "oxy-pano")
	if got := win.Title(); got != "oxy-pano" {
		t.Fatalf("initial title = %q", got)
	}

	s.Show()
	if got := win.Title(); got != "oxy-pano | loading..." {
		t.Fatalf("loading title = %q", got)
	}

	s.Hide()
	s.SetVisible(true)
	if got := win.Title(); got != "oxy-pano | [V] enter VR" {
		t.Fatalf("toggle title = %q", got)
	}

	s.Attach()
	if got := win.Title(); got != "oxy-pano | [V] exit VR" {
		t.Fatalf("presenting title = %q", got)
	}

	s.Detach()
	if got := win.Title(); got != "oxy-pano | [V] enter VR" {
		t.Fatalf("title after exit = %q", got)
	}
}
