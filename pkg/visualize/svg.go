package visualize

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/dshills/traitforge/pkg/request"
)

// Options configures the SVG render.
type Options struct {
	Width      int
	Height     int
	NodeRadius int
	Margin     int
	Title      string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Width:      1000,
		Height:     800,
		NodeRadius: 24,
		Margin:     60,
		Title:      "Constraint Graph",
	}
}

// ExportSVG renders compiled's constraint graph and active strict-pair
// rules to an SVG document.
func ExportSVG(compiled *request.CompiledRequest, opts Options) ([]byte, error) {
	if compiled == nil {
		return nil, fmt.Errorf("visualize: compiled request is nil")
	}
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}
	if opts.NodeRadius <= 0 {
		opts.NodeRadius = 24
	}
	if opts.Margin <= 0 {
		opts.Margin = 60
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	positions := layoutCircle(compiled, opts)

	drawRulerEdges(canvas, compiled, positions)
	drawStrictPairBundles(canvas, compiled, positions)
	drawLayerNodes(canvas, compiled, positions, opts)

	if opts.Title != "" {
		canvas.Text(opts.Margin, opts.Margin/2, opts.Title, "font-size:20px;fill:#f0f0f0;font-family:sans-serif")
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveSVGToFile renders and writes the SVG to path.
func SaveSVGToFile(compiled *request.CompiledRequest, path string, opts Options) error {
	data, err := ExportSVG(compiled, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

type position struct {
	X, Y float64
}

// layoutCircle places each layer, in canonical Order, evenly around a
// circle sized to the canvas.
func layoutCircle(compiled *request.CompiledRequest, opts Options) map[string]position {
	positions := make(map[string]position, len(compiled.Layers))
	if len(compiled.Layers) == 0 {
		return positions
	}

	centerX := float64(opts.Width) / 2
	centerY := float64(opts.Height) / 2
	drawW := float64(opts.Width-2*opts.Margin) / 2
	drawH := float64(opts.Height-2*opts.Margin) / 2
	radius := math.Min(drawW, drawH)

	angleStep := 2 * math.Pi / float64(len(compiled.Layers))
	for i, l := range compiled.Layers {
		angle := float64(i) * angleStep
		positions[string(l.ID)] = position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}
	return positions
}

// drawRulerEdges draws every constraint-graph edge as a directed arrow
// source layer -> target layer.
func drawRulerEdges(canvas *svg.SVG, compiled *request.CompiledRequest, positions map[string]position) {
	if compiled.ConstraintGraph == nil {
		return
	}
	edges := compiled.ConstraintGraph.Edges()
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From.ID != edges[j].From.ID {
			return edges[i].From.ID < edges[j].From.ID
		}
		return edges[i].To.ID < edges[j].To.ID
	})
	for _, e := range edges {
		from, ok1 := positions[e.From.ID]
		to, ok2 := positions[e.To.ID]
		if !ok1 || !ok2 {
			continue
		}
		canvas.Line(int(from.X), int(from.Y), int(to.X), int(to.Y), "stroke:#7fa8d9;stroke-width:2")
		drawArrowHead(canvas, from, to)
	}
}

func drawArrowHead(canvas *svg.SVG, from, to position) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length
	tipX, tipY := to.X-ux*26, to.Y-uy*26
	perpX, perpY := -uy, ux
	x1 := tipX + perpX*6 - ux*10
	y1 := tipY + perpY*6 - uy*10
	x2 := tipX - perpX*6 - ux*10
	y2 := tipY - perpY*6 - uy*10
	canvas.Polygon([]int{int(tipX), int(x1), int(x2)}, []int{int(tipY), int(y1), int(y2)}, "fill:#7fa8d9")
}

// drawStrictPairBundles draws each active LayerCombination as a dashed
// bundle connecting every pair of its member layers.
func drawStrictPairBundles(canvas *svg.SVG, compiled *request.CompiledRequest, positions map[string]position) {
	for _, lc := range compiled.StrictPairRules {
		if !lc.Active {
			continue
		}
		ids := make([]string, len(lc.LayerIDs))
		for i, id := range lc.LayerIDs {
			ids[i] = string(id)
		}
		sort.Strings(ids)
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				p1, ok1 := positions[ids[i]]
				p2, ok2 := positions[ids[j]]
				if !ok1 || !ok2 {
					continue
				}
				canvas.Line(int(p1.X), int(p1.Y), int(p2.X), int(p2.Y), "stroke:#e0a030;stroke-width:1.5;stroke-dasharray:6,4")
			}
		}
	}
}

// drawLayerNodes draws each layer as a labeled circle.
func drawLayerNodes(canvas *svg.SVG, compiled *request.CompiledRequest, positions map[string]position, opts Options) {
	for _, l := range compiled.Layers {
		p, ok := positions[string(l.ID)]
		if !ok {
			continue
		}
		fill := "#4c6ef5"
		if len(l.Traits) == 0 {
			fill = "#555b6e" // empty optional layer contributes no variable
		}
		canvas.Circle(int(p.X), int(p.Y), opts.NodeRadius, fmt.Sprintf("fill:%s;stroke:#f0f0f0;stroke-width:1.5", fill))
		canvas.Text(int(p.X), int(p.Y)+opts.NodeRadius+16, l.Name, "font-size:13px;fill:#f0f0f0;font-family:sans-serif;text-anchor:middle")
	}
}
