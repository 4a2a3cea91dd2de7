package loader

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNG encodes a w x h image with a distinct color per pixel and returns its path.
func writePNG(t *testing.T, dir string, w, h int) (string, *image.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	path := filepath.Join(dir, "pano.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
	return path, img
}

func TestParseDataURL(t *testing.T) {
	url := EncodeDataURL("image/png", []byte("hello"))
	if url != "data:image/png;base64,aGVsbG8=" {
		t.Fatalf("url = %q", url)
	}
	data, mimeType, err := ParseDataURL(url)
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}
	if string(data) != "hello" || mimeType != "image/png" {
		t.Fatalf("got (%q, %q)", data, mimeType)
	}
}

func TestParseDataURLRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"no scheme", "image/png;base64,aGVsbG8="},
		{"no comma", "data:image/png;base64"},
		{"not base64", "data:text/plain,hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseDataURL(tt.url); !errors.Is(err, ErrUnsupportedDataURL) {
				t.Fatalf("err = %v, want ErrUnsupportedDataURL", err)
			}
		})
	}
	if _, _, err := ParseDataURL("data:image/png;base64,***"); err == nil {
		t.Fatal("expected base64 error")
	}
}

func TestLoadValidPNG(t *testing.T) {
	path, want := writePNG(t, t.TempDir(), 4, 3)
	l := NewLoader(BackendTypeImage)

	tex, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tex.Width != 4 || tex.Height != 3 {
		t.Fatalf("size = %dx%d, want 4x3", tex.Width, tex.Height)
	}
	if !bytes.Equal(tex.Pixels, want.Pix) {
		t.Fatal("decoded pixels differ from the source image")
	}
	if tex.MimeType != "image/png" || tex.Name != "pano.png" || tex.Path != path {
		t.Fatalf("metadata = (%q, %q, %q)", tex.MimeType, tex.Name, tex.Path)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("definitely not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader(BackendTypeImage).Load(context.Background(), path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLoadMissingAndEmpty(t *testing.T) {
	l := NewLoader(BackendTypeImage)
	if _, err := l.Load(context.Background(), ""); !errors.Is(err, ErrNoImage) {
		t.Fatalf("empty path err = %v, want ErrNoImage", err)
	}
	if _, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "nope.png")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err = %v, want os.ErrNotExist", err)
	}

	empty := filepath.Join(t.TempDir(), "empty.png")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Load(context.Background(), empty); !errors.Is(err, ErrNoImage) {
		t.Fatalf("empty file err = %v, want ErrNoImage", err)
	}
}

func TestLoadCancelled(t *testing.T) {
	path, _ := writePNG(t, t.TempDir(), 2, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader(BackendTypeImage).Load(ctx, path); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestLoadDownscalesLargeImages(t *testing.T) {
	path, _ := writePNG(t, t.TempDir(), 6, 3)
	tex, err := NewLoader(BackendTypeImage, WithMaxDimension(4)).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tex.Width != 4 || tex.Height != 2 {
		t.Fatalf("size = %dx%d, want 4x2", tex.Width, tex.Height)
	}
	if len(tex.Pixels) != 4*2*4 {
		t.Fatalf("pixel bytes = %d, want %d", len(tex.Pixels), 4*2*4)
	}
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		w, h, limit  int
		wantW, wantH int
		wantScaled   bool
	}{
		{8192, 4096, 8192, 8192, 4096, false},
		{16384, 8192, 8192, 8192, 4096, true},
		{1000, 4000, 2000, 500, 2000, true},
		{20000, 10, 8192, 8192, 4, true},
		{100, 50, 0, 100, 50, false},
	}
	for _, tt := range tests {
		w, h, scaled := fitDimensions(tt.w, tt.h, tt.limit)
		if w != tt.wantW || h != tt.wantH || scaled != tt.wantScaled {
			t.Errorf("fitDimensions(%d, %d, %d) = (%d, %d, %v), want (%d, %d, %v)",
				tt.w, tt.h, tt.limit, w, h, scaled, tt.wantW, tt.wantH, tt.wantScaled)
		}
	}
}
