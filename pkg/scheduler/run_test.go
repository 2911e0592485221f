package scheduler

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/dshills/traitforge/pkg/compositor"
	"github.com/dshills/traitforge/pkg/ledger"
	"github.com/dshills/traitforge/pkg/request"
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

func twoByTwoRequest(t *testing.T, target uint32) *request.CompiledRequest {
	t.Helper()
	red := solidPNG(t, 4, 4, color.RGBA{R: 255, A: 255})
	blue := solidPNG(t, 4, 4, color.RGBA{B: 255, A: 255})

	seed := uint64(1)
	workerCap := uint32(2)
	req := &request.GenerationRequest{
		OutputSize:  request.OutputSize{Width: 4, Height: 4},
		TargetCount: target,
		Seed:        &seed,
		WorkerCap:   &workerCap,
		Layers: []request.LayerInput{
			{ID: "bg", Order: 0, Traits: []request.TraitInput{
				{ID: "red", Weight: 3, Type: "normal", Image: request.ImageInput{Bytes: red, Width: 4, Height: 4, MIME: "image/png"}},
				{ID: "blue", Weight: 3, Type: "normal", Image: request.ImageInput{Bytes: blue, Width: 4, Height: 4, MIME: "image/png"}},
			}},
			{ID: "fg", Order: 1, Traits: []request.TraitInput{
				{ID: "robot", Weight: 3, Type: "normal", Image: request.ImageInput{Bytes: red, Width: 4, Height: 4, MIME: "image/png"}},
				{ID: "knight", Weight: 3, Type: "normal", Image: request.ImageInput{Bytes: blue, Width: 4, Height: 4, MIME: "image/png"}},
			}},
		},
	}
	compiled, err := request.Compile(req)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	return compiled
}

func TestRun_EmitsAllItemsThenComplete(t *testing.T) {
	compiled := twoByTwoRequest(t, 4)
	led := ledger.New(nil)
	metrics := telemetry.New()
	comp := compositor.New(4, 4, metrics)

	s := New(compiled, led, comp, metrics, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	seen := make(map[uint32]bool)
	var gotComplete bool
	for ev := range s.Run(ctx) {
		switch ev.Kind {
		case EventItemReady:
			if seen[ev.Item.Index] {
				t.Fatalf("duplicate ItemReady for index %d", ev.Item.Index)
			}
			seen[ev.Item.Index] = true
			if len(ev.Item.CompositeBytes) == 0 {
				t.Errorf("item %d has no composite bytes", ev.Item.Index)
			}
		case EventComplete:
			gotComplete = true
			if ev.Complete.Completed != 4 {
				t.Errorf("Complete.Completed = %d, want 4", ev.Complete.Completed)
			}
		case EventError:
			t.Fatalf("unexpected Error event: %v", ev.Err)
		}
	}

	if !gotComplete {
		t.Fatal("stream closed without a Complete event")
	}
	if len(seen) != 4 {
		t.Fatalf("saw %d distinct items, want 4", len(seen))
	}
}

func TestRun_CancellationEmitsCancelled(t *testing.T) {
	compiled := twoByTwoRequest(t, 4)
	led := ledger.New(nil)
	metrics := telemetry.New()
	comp := compositor.New(4, 4, metrics)

	s := New(compiled, led, comp, metrics, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var gotCancelled bool
	for ev := range s.Run(ctx) {
		if ev.Kind == EventCancelled {
			gotCancelled = true
		}
		if ev.Kind == EventComplete {
			t.Fatal("expected Cancelled, got Complete on a pre-cancelled context")
		}
	}
	if !gotCancelled {
		t.Fatal("expected a Cancelled event on a pre-cancelled context")
	}
}
