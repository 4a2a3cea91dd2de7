package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/engine/window"
	"github.com/sqweek/dialog"
)

// statusBar shows the viewer's UI state in the window title: the loading indicator,
// the VR toggle hint and the exit hint while presenting.
// Its methods may be called from any goroutine; the window applies the title on the main thread.
type statusBar struct {
	mu         sync.Mutex
	win        window.Window
	base       string
	loading    bool
	toggle     bool
	presenting bool
}

func newStatusBar(win window.Window, base string) *statusBar {
	s := &statusBar{win: win, base: base}
	s.refresh()
	return s
}

// Show implements viewer.Indicator.
func (s *statusBar) Show() { s.update(func() { s.loading = true }) }

// Hide implements viewer.Indicator.
func (s *statusBar) Hide() { s.update(func() { s.loading = false }) }

// SetVisible implements viewer.ToggleButton.
func (s *statusBar) SetVisible(visible bool) { s.update(func() { s.toggle = visible }) }

// Attach implements xr.Affordance.
func (s *statusBar) Attach() { s.update(func() { s.presenting = true }) }

// Detach implements xr.Affordance.
func (s *statusBar) Detach() { s.update(func() { s.presenting = false }) }

func (s *statusBar) update(f func()) {
	s.mu.Lock()
	f()
	s.mu.Unlock()
	s.refresh()
}

func (s *statusBar) refresh() {
	s.mu.Lock()
	parts := []string{s.base}
	if s.loading {
		parts = append(parts, "loading...")
	}
	switch {
	case s.presenting:
		parts = append(parts, "[V] exit VR")
	case s.toggle:
		parts = append(parts, "[V] enter VR")
	}
	title := strings.Join(parts, " | ")
	s.mu.Unlock()

	s.win.SetTitle(title)
}

// dialogs shows messages through native dialog boxes.
type dialogs struct {
	title string
}

// Notify implements viewer.Notifier without blocking the caller.
func (d dialogs) Notify(message string) {
	go dialog.Message("%s", message).Title(d.title).Error()
}

// Alert implements xr.Notifier and returns once the box is dismissed.
func (d dialogs) Alert(message string) {
	dialog.Message("%s", message).Title(d.title).Info()
}

// pickImage opens the native file picker. A cancelled picker yields no paths.
func pickImage() ([]string, error) {
	path, err := dialog.File().
		Title("Open panorama").
		Filter("Images", "jpg", "jpeg", "png", "gif", "webp", "bmp", "tif", "tiff").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file picker: %w", err)
	}
	log.Printf("[Viewer] picked %s", path)
	return []string{path}, nil
}
