package rarity

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dshills/traitforge/pkg/model"
)

// MetadataRecord is the per-item metadata record, bit-exact for downstream
// compatibility: field order is name, description, image, edition,
// attributes. RarityScore/Rank ride alongside as side-channel fields, never
// inside Attributes.
type MetadataRecord struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	Edition     uint32            `json:"edition"`
	Attributes  []model.Attribute `json:"attributes"`

	RarityScore float64 `json:"rarity_score"`
	Rank        int     `json:"rank"`
}

// BuildMetadata constructs the metadata record for one item. standard
// selects ERC721 vs ERC1155 shaping; the two standards currently share the
// same record shape, differing only in how a caller indexes/batches
// tokens, which is outside this function's concern.
func BuildMetadata(collection, description string, standard model.MetadataStandard, item *model.GeneratedItem) *MetadataRecord {
	_ = standard
	return &MetadataRecord{
		Name:        fmt.Sprintf("%s #%d", collection, item.Index),
		Description: description,
		Image:       fmt.Sprintf("images/%d.png", item.Index),
		Edition:     item.Index,
		Attributes:  item.Attributes,
		RarityScore: item.RarityScore,
		Rank:        item.Rank,
	}
}

// ExportJSON serializes a metadata record to indented JSON.
func ExportJSON(rec *MetadataRecord) ([]byte, error) {
	return json.MarshalIndent(rec, "", "  ")
}

// ExportJSONCompact serializes a metadata record without indentation.
func ExportJSONCompact(rec *MetadataRecord) ([]byte, error) {
	return json.Marshal(rec)
}

// SaveJSONToFile writes a metadata record's indented JSON to path.
func SaveJSONToFile(rec *MetadataRecord, path string) error {
	data, err := ExportJSON(rec)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
