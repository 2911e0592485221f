package compositor

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	_ "image/jpeg" // registers the jpeg decoder for trait payloads declaring that MIME type

	"github.com/dshills/traitforge/pkg/model"
	"github.com/dshills/traitforge/pkg/telemetry"
)

// Compositor paints assignments into encoded PNG composites, reusing decoded
// trait images through its own LRU cache; a trait evicted from the cache is
// decoded again on its next use.
type Compositor struct {
	cache   *decodeCache
	metrics *telemetry.Metrics
}

// New returns a Compositor whose decode cache holds the default 64
// output_size-sized frames. metrics may be nil, in which case decode-cache
// hits and misses are not recorded.
func New(width, height int, metrics *telemetry.Metrics) *Compositor {
	return NewWithCapacity(int64(defaultCacheFrames)*int64(width)*int64(height), metrics)
}

// NewWithCapacity returns a Compositor whose decode cache is bounded by
// maxPixels total decoded pixels. metrics may be nil.
func NewWithCapacity(maxPixels int64, metrics *telemetry.Metrics) *Compositor {
	return &Compositor{cache: newDecodeCache(maxPixels), metrics: metrics}
}

// Render paints assignment's traits over layers (already in ascending
// Order) into a width x height raster and returns the PNG-encoded bytes.
func (c *Compositor) Render(layers []*model.Layer, assignment model.Assignment, width, height int) ([]byte, error) {
	raster := image.NewRGBA(image.Rect(0, 0, width, height))

	for _, layer := range layers {
		traitID, ok := assignment[layer.ID]
		if !ok {
			continue // empty optional layer
		}
		trait := layer.TraitByID(traitID)
		if trait == nil {
			continue
		}

		decoded, err := c.decode(trait)
		if err != nil {
			return nil, model.NewDecodeFailure(trait.ID, err)
		}
		draw.Draw(raster, raster.Bounds(), decoded, image.Point{}, draw.Over)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, raster); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Compositor) decode(trait *model.Trait) (image.Image, error) {
	if img, ok := c.cache.get(trait.ID); ok {
		if c.metrics != nil {
			c.metrics.DecodeCacheHits.Inc()
		}
		return img, nil
	}
	if c.metrics != nil {
		c.metrics.DecodeCacheMisses.Inc()
	}

	decoded, _, err := image.Decode(bytes.NewReader(trait.Image.Bytes))
	if err != nil {
		return nil, err
	}

	pixels := int64(trait.Image.Width) * int64(trait.Image.Height)
	c.cache.put(trait.ID, decoded, pixels)
	return decoded, nil
}
