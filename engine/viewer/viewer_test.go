package viewer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/config"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-pano/engine/xr"
)

// fakeScene uploads the material texture when it is dirty. With reject set, it refuses the
// upload of an image and puts the previously shown texture back on the material.
type fakeScene struct {
	width, height int
	resizes       int
	draws         int
	stereo        bool

	material material.Material
	shown    *common.ImportedTexture
	reject   bool
}

func (s *fakeScene) Resize(width, height int) {
	s.width, s.height = width, height
	s.resizes++
}

func (s *fakeScene) Draw(stereo bool) error {
	s.draws++
	s.stereo = stereo
	if s.material == nil || !s.material.ConsumeDirty() {
		return nil
	}
	if s.reject && s.material.DiffuseTexture() != nil {
		s.material.SetDiffuseTexture(s.shown)
		s.material.ConsumeDirty()
		return fmt.Errorf("%w: exceeds device limit", ErrTextureRejected)
	}
	s.shown = s.material.DiffuseTexture()
	return nil
}

type fakeIndicator struct{ shows, hides int }

func (i *fakeIndicator) Show() { i.shows++ }
func (i *fakeIndicator) Hide() { i.hides++ }

type fakeNotifier struct{ messages []string }

func (n *fakeNotifier) Notify(message string) { n.messages = append(n.messages, message) }
func (n *fakeNotifier) Alert(message string)  { n.messages = append(n.messages, message) }

type fakeAffordance struct{ attached, detached int }

func (a *fakeAffordance) Attach() { a.attached++ }
func (a *fakeAffordance) Detach() { a.detached++ }

type fakeToggle struct{ visible bool }

func (b *fakeToggle) SetVisible(visible bool) { b.visible = visible }

type fakePlatform struct {
	available, supported bool
}

func (p *fakePlatform) Available() bool { return p.available }
func (p *fakePlatform) IsSessionSupported(ctx context.Context, mode xr.SessionMode) (bool, error) {
	return p.supported, nil
}
func (p *fakePlatform) Begin() error { return nil }
func (p *fakePlatform) End() error   { return nil }

// gatedLoader returns a 1x1 texture named after the path once that path's gate opens.
// It ignores cancellation so superseded loads still complete.
type gatedLoader struct {
	gates map[string]chan struct{}
}

func (g *gatedLoader) ReadDataURL(ctx context.Context, path string) (string, error) { return "", nil }
func (g *gatedLoader) DecodeDataURL(ctx context.Context, url, name string) (*common.ImportedTexture, error) {
	return nil, nil
}
func (g *gatedLoader) MaxDimension() int { return 0 }
func (g *gatedLoader) Load(ctx context.Context, path string) (*common.ImportedTexture, error) {
	if gate, ok := g.gates[path]; ok {
		<-gate
	}
	return &common.ImportedTexture{Name: path, Path: path, Width: 1, Height: 1, Pixels: []byte{1, 2, 3, 4}}, nil
}

type harness struct {
	v          Viewer
	scene      *fakeScene
	indicator  *fakeIndicator
	notifier   *fakeNotifier
	alerter    *fakeNotifier
	affordance *fakeAffordance
	toggle     *fakeToggle
}

func newHarness(t *testing.T, options ...ViewerBuilderOption) *harness {
	t.Helper()
	h := &harness{
		scene:      &fakeScene{},
		indicator:  &fakeIndicator{},
		notifier:   &fakeNotifier{},
		alerter:    &fakeNotifier{},
		affordance: &fakeAffordance{},
		toggle:     &fakeToggle{},
	}
	opts := append([]ViewerBuilderOption{
		WithScene(h.scene),
		WithIndicator(h.indicator),
		WithNotifier(h.notifier),
		WithAlerter(h.alerter),
		WithAffordance(h.affordance),
		WithToggleButton(h.toggle),
	}, options...)
	h.v = NewViewer(opts...)
	h.scene.material = h.v.Material()
	t.Cleanup(h.v.Close)
	return h
}

// tickUntil runs the loop until cond holds or the deadline passes.
func (h *harness) tickUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached before deadline")
		}
		h.v.Tick(0.016)
		time.Sleep(time.Millisecond)
	}
}

func writeImage(t *testing.T, name string, c color.RGBA) (string, []byte) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path, img.Pix
}

func TestValidFileBindsTexture(t *testing.T) {
	h := newHarness(t)
	path, want := writeImage(t, "pano.png", color.RGBA{R: 10, G: 20, B: 30, A: 255})

	if h.v.ToggleVisible() || h.toggle.visible {
		t.Fatal("toggle should start hidden under the after_first_load policy")
	}

	h.v.HandleFileSelection([]string{path, "ignored.png"})
	h.tickUntil(t, func() bool { return h.v.Material().DiffuseTexture() != nil })

	tex := h.v.Material().DiffuseTexture()
	if !bytes.Equal(tex.Pixels, want) || tex.Path != path {
		t.Fatal("bound texture does not match the selected file")
	}
	if h.v.Loading() || h.indicator.shows != 1 || h.indicator.hides != 1 {
		t.Fatalf("indicator shows = %d hides = %d, want 1/1", h.indicator.shows, h.indicator.hides)
	}
	if !h.v.ToggleVisible() || !h.toggle.visible {
		t.Fatal("toggle should appear after the first successful load")
	}
	if len(h.notifier.messages) != 0 {
		t.Fatalf("unexpected notifications: %v", h.notifier.messages)
	}
}

func TestCorruptFileKeepsPreviousTexture(t *testing.T) {
	h := newHarness(t)
	good, _ := writeImage(t, "good.png", color.RGBA{R: 255, A: 255})
	h.v.HandleFileSelection([]string{good})
	h.tickUntil(t, func() bool { return h.v.Material().DiffuseTexture() != nil })
	before := h.v.Material().DiffuseTexture()
	version := h.v.Material().Version()

	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	h.v.HandleFileSelection([]string{bad})
	h.tickUntil(t, func() bool { return len(h.notifier.messages) > 0 })
	for range 5 {
		h.v.Tick(0)
	}

	if h.v.Material().DiffuseTexture() != before || h.v.Material().Version() != version {
		t.Fatal("failed load must not change the bound texture")
	}
	if len(h.notifier.messages) != 1 {
		t.Fatalf("notifications = %d, want 1", len(h.notifier.messages))
	}
	if h.v.Loading() {
		t.Fatal("indicator should be hidden after a failure")
	}
}

func TestEmptySelectionIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.v.HandleFileSelection(nil)
	h.v.HandleFileSelection([]string{""})
	h.v.Tick(0)
	if h.v.Loading() || h.indicator.shows != 0 || len(h.notifier.messages) != 0 {
		t.Fatal("empty selection should be a silent no-op")
	}
}

func TestLastSelectionWins(t *testing.T) {
	gate := make(chan struct{})
	gl := &gatedLoader{gates: map[string]chan struct{}{"a.png": gate}}
	h := newHarness(t, WithIngestor(loader.NewIngestor(gl, loader.WithWorkers(2))))

	h.v.HandleFileSelection([]string{"a.png"})
	h.v.HandleFileSelection([]string{"b.png"})
	h.tickUntil(t, func() bool { return h.v.Material().DiffuseTexture() != nil })

	if got := h.v.Material().DiffuseTexture().Path; got != "b.png" {
		t.Fatalf("bound %s, want b.png", got)
	}

	// Let the superseded load finish and give its result time to arrive.
	close(gate)
	for range 50 {
		h.v.Tick(0)
		time.Sleep(time.Millisecond)
	}
	if got := h.v.Material().DiffuseTexture().Path; got != "b.png" {
		t.Fatalf("stale load replaced the texture with %s", got)
	}
	if h.v.Material().Version() != 1 {
		t.Fatalf("texture bound %d times, want 1", h.v.Material().Version())
	}
	if h.indicator.shows != 1 || h.indicator.hides != 1 {
		t.Fatalf("indicator shows = %d hides = %d, want 1/1", h.indicator.shows, h.indicator.hides)
	}
}

func TestResizeUpdatesAspectAndSurface(t *testing.T) {
	h := newHarness(t)
	sizes := [][2]int{{800, 600}, {1920, 1080}, {1, 1}, {300, 1200}}
	for _, sz := range sizes {
		h.v.Resize(sz[0], sz[1])
		h.v.Tick(0)
		want := float32(sz[0]) / float32(sz[1])
		if got := h.v.Camera().Aspect(); got != want {
			t.Errorf("Resize(%d, %d): aspect = %f, want %f", sz[0], sz[1], got, want)
		}
		if h.scene.width != sz[0] || h.scene.height != sz[1] {
			t.Errorf("Resize(%d, %d): surface = %dx%d", sz[0], sz[1], h.scene.width, h.scene.height)
		}
	}

	resizes := h.scene.resizes
	h.v.Resize(0, 0)
	h.v.Resize(-5, 10)
	h.v.Tick(0)
	if h.scene.resizes != resizes {
		t.Fatal("non-positive sizes must be ignored")
	}
	if w, hgt := h.v.Size(); w != 300 || hgt != 1200 {
		t.Fatalf("size = %dx%d, want 300x1200", w, hgt)
	}
}

func TestToggleSupported(t *testing.T) {
	h := newHarness(t,
		WithPlatform(&fakePlatform{available: true, supported: true}),
		WithToggleVisibility(config.ToggleAlways),
	)

	h.v.ToggleVR()
	h.tickUntil(t, func() bool { return h.v.Session().State() == xr.StatePresenting })
	if h.affordance.attached != 1 {
		t.Fatalf("affordance attached %d times, want 1", h.affordance.attached)
	}
	h.v.Tick(0)
	if !h.scene.stereo {
		t.Fatal("presenting session should draw in stereo")
	}

	h.v.ToggleVR()
	h.v.Tick(0)
	if h.v.Session().State() != xr.StateInactive {
		t.Fatal("second toggle should end the session")
	}
	if h.scene.stereo {
		t.Fatal("inactive session should draw mono")
	}
	if h.affordance.attached != 1 || len(h.alerter.messages) != 0 {
		t.Fatalf("attached = %d alerts = %d", h.affordance.attached, len(h.alerter.messages))
	}
}

func TestToggleUnsupported(t *testing.T) {
	h := newHarness(t,
		WithPlatform(&fakePlatform{available: true, supported: false}),
		WithToggleVisibility(config.ToggleAlways),
	)

	h.v.ToggleVR()
	h.tickUntil(t, func() bool { return len(h.alerter.messages) > 0 })
	for range 5 {
		h.v.Tick(0)
	}
	if h.v.Session().State() != xr.StateInactive {
		t.Fatal("unsupported toggle must leave the session inactive")
	}
	if len(h.alerter.messages) != 1 || h.affordance.attached != 0 {
		t.Fatalf("alerts = %d attached = %d, want 1/0", len(h.alerter.messages), h.affordance.attached)
	}
}

func TestToggleHiddenUntilFirstLoad(t *testing.T) {
	h := newHarness(t, WithPlatform(&fakePlatform{available: true, supported: true}))
	h.v.ToggleVR()
	for range 10 {
		h.v.Tick(0)
		time.Sleep(time.Millisecond)
	}
	if h.v.Session().State() != xr.StateInactive || h.v.Session().Pending() {
		t.Fatal("hidden toggle must be ignored")
	}
}

func TestDragRotatesCamera(t *testing.T) {
	h := newHarness(t)
	before := h.v.Camera().ViewMatrix()
	h.v.Drag(100, 0)
	h.v.Tick(0)
	if h.v.Camera().ViewMatrix() == before {
		t.Fatal("drag should change the view")
	}
	h.v.ResetView()
	h.v.Tick(0)
	if h.v.Camera().ViewMatrix() != before {
		t.Fatal("reset should restore the initial view")
	}
	if h.scene.draws != 2 {
		t.Fatalf("draws = %d, want one per tick", h.scene.draws)
	}
}

func TestRejectedUploadKeepsPreviousTexture(t *testing.T) {
	h := newHarness(t)
	good, _ := writeImage(t, "good.png", color.RGBA{G: 255, A: 255})
	h.v.HandleFileSelection([]string{good})
	h.tickUntil(t, func() bool { return h.scene.shown != nil })
	before := h.v.Material().DiffuseTexture()

	h.scene.reject = true
	huge, _ := writeImage(t, "huge.png", color.RGBA{B: 255, A: 255})
	h.v.HandleFileSelection([]string{huge})
	h.tickUntil(t, func() bool { return len(h.notifier.messages) > 0 })
	for range 5 {
		h.v.Tick(0)
	}

	if h.v.Material().DiffuseTexture() != before || h.scene.shown != before {
		t.Fatal("rejected upload must leave the previous texture bound")
	}
	if len(h.notifier.messages) != 1 {
		t.Fatalf("notifications = %d, want 1", len(h.notifier.messages))
	}
	if !h.v.ToggleVisible() {
		t.Fatal("toggle should stay visible while an image is shown")
	}
}

func TestRejectedFirstUploadHidesToggle(t *testing.T) {
	h := newHarness(t)
	h.scene.reject = true
	path, _ := writeImage(t, "huge.png", color.RGBA{R: 255, A: 255})
	h.v.HandleFileSelection([]string{path})
	h.tickUntil(t, func() bool { return len(h.notifier.messages) > 0 })

	if h.v.Material().DiffuseTexture() != nil {
		t.Fatal("material should fall back to the placeholder")
	}
	if h.v.ToggleVisible() || h.toggle.visible {
		t.Fatal("toggle must stay hidden until an image is actually shown")
	}
	if h.v.Loading() {
		t.Fatal("indicator should be hidden after the load completes")
	}
}
