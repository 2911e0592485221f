package model

// Attribute is one entry in a GeneratedItem's metadata attributes list.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// GeneratedItem is one completed composite: a 1-based position in the
// emitted sequence, the assignment that produced it, the encoded PNG
// bytes, and the attributes derived from the assignment.
type GeneratedItem struct {
	Index          uint32
	Assignment     Assignment
	CompositeBytes []byte
	Attributes     []Attribute

	// RarityScore and Rank are populated by the Rarity & Metadata Builder
	// (C6) after every item has been generated; zero until then.
	RarityScore float64
	Rank        int
}

// MetadataStandard selects the shape of the emitted per-item metadata
// record.
type MetadataStandard int

const (
	// StandardERC721 emits the single-token metadata JSON shape.
	StandardERC721 MetadataStandard = iota
	// StandardERC1155 emits the same attribute/image shape; the two
	// standards differ only in how a caller indexes/batches tokens, which
	// is outside the engine's concern.
	StandardERC1155
)

// String returns the string representation of the MetadataStandard.
func (m MetadataStandard) String() string {
	switch m {
	case StandardERC721:
		return "ERC721"
	case StandardERC1155:
		return "ERC1155"
	default:
		return "Unknown"
	}
}
