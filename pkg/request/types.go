package request

// OutputSize is the declared pixel size every trait image and the final
// composite must match exactly.
type OutputSize struct {
	Width  uint32 `yaml:"width" json:"width"`
	Height uint32 `yaml:"height" json:"height"`
}

// ImageInput is the wire representation of a trait's image payload.
type ImageInput struct {
	Bytes  []byte `yaml:"bytes" json:"bytes"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
	MIME   string `yaml:"mime" json:"mime"`
}

// RulerRuleInput is the wire representation of a model.RulerRule.
type RulerRuleInput struct {
	TargetLayer string   `yaml:"target_layer" json:"target_layer"`
	Allowed     []string `yaml:"allowed,omitempty" json:"allowed,omitempty"`
	Forbidden   []string `yaml:"forbidden,omitempty" json:"forbidden,omitempty"`
}

// TraitInput is the wire representation of a model.Trait.
type TraitInput struct {
	ID     string           `yaml:"id" json:"id"`
	Name   string           `yaml:"name" json:"name"`
	Weight int              `yaml:"weight" json:"weight"`
	Type   string           `yaml:"type" json:"type"` // "normal" | "ruler"
	Image  ImageInput       `yaml:"image" json:"image"`
	Rules  []RulerRuleInput `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// LayerInput is the wire representation of a model.Layer.
type LayerInput struct {
	ID       string       `yaml:"id" json:"id"`
	Name     string       `yaml:"name" json:"name"`
	Order    int          `yaml:"order" json:"order"`
	Optional bool         `yaml:"optional,omitempty" json:"optional,omitempty"`
	Traits   []TraitInput `yaml:"traits,omitempty" json:"traits,omitempty"`
}

// LayerCombinationInput is the wire representation of a strict-pair rule.
type LayerCombinationInput struct {
	ID       string   `yaml:"id" json:"id"`
	LayerIDs []string `yaml:"layer_ids" json:"layer_ids"`
	Active   bool     `yaml:"active" json:"active"`
}

// GenerationRequest is the caller-supplied description of a collection to
// generate. Zero-value optional fields are filled with defaults by Compile.
type GenerationRequest struct {
	Name              string                  `yaml:"name" json:"name"`
	Description       string                  `yaml:"description" json:"description"`
	OutputSize        OutputSize              `yaml:"output_size" json:"output_size"`
	TargetCount       uint32                  `yaml:"target_count" json:"target_count"`
	MetadataStandard  string                  `yaml:"metadata_standard" json:"metadata_standard"`
	Layers            []LayerInput            `yaml:"layers" json:"layers"`
	StrictPairRules   []LayerCombinationInput `yaml:"strict_pair_rules,omitempty" json:"strict_pair_rules,omitempty"`
	Seed              *uint64                 `yaml:"seed,omitempty" json:"seed,omitempty"`
	WorkerCap         *uint32                 `yaml:"worker_cap,omitempty" json:"worker_cap,omitempty"`
	AttemptBudget     *uint32                 `yaml:"attempt_budget,omitempty" json:"attempt_budget,omitempty"`
	MemoryBudgetBytes *uint64                 `yaml:"memory_budget_bytes,omitempty" json:"memory_budget_bytes,omitempty"`
}

const (
	// DefaultWorkerCap bounds the scheduler's worker pool absent an explicit
	// request value.
	DefaultWorkerCap = 4
	// DefaultAttemptBudget is the per-item backtrack-restart budget.
	DefaultAttemptBudget = 64
	// DefaultMemoryBudgetBytes caps composited bytes in flight.
	DefaultMemoryBudgetBytes = 256 * 1024 * 1024
)
