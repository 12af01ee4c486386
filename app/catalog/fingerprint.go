package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// fingerprintPayload is the projection of a Record that affects remote
// state. SKU is deliberately excluded: it is the lookup key, not content.
// Field order is fixed by the struct, so input ordering cannot change the
// digest.
type fingerprintPayload struct {
	Title           string   `json:"title"`
	Price           string   `json:"price"`
	CompareAtPrice  string   `json:"compare_at_price,omitempty"`
	Inventory       int      `json:"inventory"`
	Status          string   `json:"status"`
	DescriptionHTML string   `json:"description_html"`
	Images          []string `json:"images"`
	Vendor          string   `json:"vendor"`
	ProductType     string   `json:"product_type"`
	Options         []Option `json:"options"`
	Tags            []string `json:"tags"`
}

// Fingerprint computes a deterministic digest over the sync-relevant fields
// of a record. Fingerprints are opaque and only ever compared for equality.
func Fingerprint(rec Record) string {
	payload := fingerprintPayload{
		Title:           rec.Title,
		Price:           rec.Price.String(),
		Inventory:       rec.Inventory,
		Status:          rec.Status,
		DescriptionHTML: rec.DescriptionHTML,
		Images:          rec.Images,
		Vendor:          rec.Vendor,
		ProductType:     rec.ProductType,
		Options:         rec.Options,
		Tags:            rec.Tags,
	}
	if rec.CompareAtPrice != nil {
		// decimal.String trims trailing zeros, so 12.50 and 12.5 digest
		// identically.
		payload.CompareAtPrice = rec.CompareAtPrice.String()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		// The payload contains only strings, ints and slices of those;
		// marshaling cannot fail.
		panic(err)
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
