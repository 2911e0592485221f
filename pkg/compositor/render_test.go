package compositor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dshills/traitforge/pkg/model"
	"github.com/dshills/traitforge/pkg/telemetry"
)

func solidPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture PNG: %v", err)
	}
	return buf.Bytes()
}

func TestRender_LayerOrderAndRoundTrip(t *testing.T) {
	red := solidPNG(t, 4, 4, color.RGBA{R: 255, A: 255})
	blue := solidPNG(t, 4, 4, color.RGBA{B: 255, A: 255})

	bg := &model.Layer{ID: "bg", Order: 0, Traits: []*model.Trait{
		{ID: "red", Weight: 1, Image: model.ImagePayload{Bytes: red, Width: 4, Height: 4, MIME: "image/png"}},
	}}
	fg := &model.Layer{ID: "fg", Order: 1, Traits: []*model.Trait{
		{ID: "blue", Weight: 1, Image: model.ImagePayload{Bytes: blue, Width: 4, Height: 4, MIME: "image/png"}},
	}}

	assignment := model.Assignment{"bg": "red", "fg": "blue"}

	c := New(4, 4, nil)
	out, err := c.Render([]*model.Layer{bg, fg}, assignment, 4, 4)
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding Render() output: %v", err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 4 {
		t.Fatalf("decoded bounds = %v, want 4x4", decoded.Bounds())
	}

	// The opaque blue foreground must fully occlude the red background.
	r, g, b, a := decoded.At(0, 0).RGBA()
	if r != 0 || g != 0 || b == 0 || a == 0 {
		t.Errorf("At(0,0) = (%d,%d,%d,%d), want opaque blue", r, g, b, a)
	}
}

func TestRender_RecordsDecodeCacheHitsAndMisses(t *testing.T) {
	red := solidPNG(t, 4, 4, color.RGBA{R: 255, A: 255})
	bg := &model.Layer{ID: "bg", Order: 0, Traits: []*model.Trait{
		{ID: "red", Weight: 1, Image: model.ImagePayload{Bytes: red, Width: 4, Height: 4, MIME: "image/png"}},
	}}
	assignment := model.Assignment{"bg": "red"}

	metrics := telemetry.New()
	c := New(4, 4, metrics)

	if _, err := c.Render([]*model.Layer{bg}, assignment, 4, 4); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if got := testutil.ToFloat64(metrics.DecodeCacheMisses); got != 1 {
		t.Errorf("DecodeCacheMisses = %v, want 1 after first render", got)
	}
	if got := testutil.ToFloat64(metrics.DecodeCacheHits); got != 0 {
		t.Errorf("DecodeCacheHits = %v, want 0 after first render", got)
	}

	if _, err := c.Render([]*model.Layer{bg}, assignment, 4, 4); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if got := testutil.ToFloat64(metrics.DecodeCacheMisses); got != 1 {
		t.Errorf("DecodeCacheMisses = %v, want 1 after second render (cached)", got)
	}
	if got := testutil.ToFloat64(metrics.DecodeCacheHits); got != 1 {
		t.Errorf("DecodeCacheHits = %v, want 1 after second render (cached)", got)
	}
}

func TestDecodeCache_EvictsUnderPressure(t *testing.T) {
	c := newDecodeCache(10) // room for ~2 frames of 2x2 (4px) + slack

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	c.put("a", img, 4)
	c.put("b", img, 4)
	c.put("c", img, 4) // forces eviction of the oldest entry

	if len(c.entries) > 2 {
		t.Fatalf("cache holds %d entries, want eviction to keep it within budget", len(c.entries))
	}
	if _, ok := c.get("c"); !ok {
		t.Error("most recently inserted entry was evicted")
	}
}
