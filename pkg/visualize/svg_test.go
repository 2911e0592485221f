package visualize

import (
	"bytes"
	"testing"

	"github.com/dshills/traitforge/pkg/request"
)

func twoLayerRequest(t *testing.T) *request.CompiledRequest {
	t.Helper()
	img := request.ImageInput{Bytes: []byte{1, 2, 3}, Width: 10, Height: 10, MIME: "image/png"}
	req := &request.GenerationRequest{
		OutputSize:  request.OutputSize{Width: 10, Height: 10},
		TargetCount: 1,
		Layers: []request.LayerInput{
			{ID: "bg", Order: 0, Traits: []request.TraitInput{
				{ID: "forest", Weight: 1, Type: "ruler", Image: img, Rules: []request.RulerRuleInput{
					{TargetLayer: "body", Forbidden: []string{"robot"}},
				}},
			}},
			{ID: "body", Order: 1, Traits: []request.TraitInput{
				{ID: "robot", Weight: 1, Type: "normal", Image: img},
			}},
		},
		StrictPairRules: []request.LayerCombinationInput{
			{ID: "bg-body", LayerIDs: []string{"bg", "body"}, Active: true},
		},
	}
	compiled, err := request.Compile(req)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	return compiled
}

func TestExportSVG_ContainsNodesAndEdges(t *testing.T) {
	compiled := twoLayerRequest(t)
	data, err := ExportSVG(compiled, DefaultOptions())
	if err != nil {
		t.Fatalf("ExportSVG() failed: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("output is not an SVG document")
	}
	if !bytes.Contains(data, []byte("stroke-dasharray")) {
		t.Error("expected a dashed strict-pair bundle in the output")
	}
}

func TestExportSVG_NilCompiled(t *testing.T) {
	if _, err := ExportSVG(nil, DefaultOptions()); err == nil {
		t.Error("expected an error for a nil compiled request")
	}
}
