package request

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadRequest reads a YAML-encoded GenerationRequest from path.
// It does not validate or apply defaults; call Compile on the result.
func LoadRequest(path string) (*GenerationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}
	return LoadRequestFromBytes(data)
}

// LoadRequestFromBytes parses a YAML-encoded GenerationRequest from data.
// Useful for test fixtures and programmatic request construction.
func LoadRequestFromBytes(data []byte) (*GenerationRequest, error) {
	var req GenerationRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return &req, nil
}

// ToYAML serializes the request to YAML bytes.
func (r *GenerationRequest) ToYAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// generateSeed derives a seed from the current time, used when a request
// omits Seed entirely.
func generateSeed() uint64 {
	now := time.Now().UnixNano()
	if now < 0 {
		now = -now
	}
	seed := uint64(now)
	if seed == 0 {
		seed = 1
	}
	return seed
}
