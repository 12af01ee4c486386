package sync

import (
	"strings"

	"github.com/feedbridge/catalog-sync/app/catalog"
	"github.com/feedbridge/catalog-sync/app/shopify"
)

// buildProductInput assembles the descriptive payload for create and update
// calls. Variant-level fields (SKU, price) are excluded; they travel in a
// separate variant write.
func buildProductInput(rec catalog.Record) shopify.ProductInput {
	input := shopify.ProductInput{
		Title:           rec.Title,
		Status:          strings.ToUpper(rec.Status),
		DescriptionHTML: rec.DescriptionHTML,
		Vendor:          rec.Vendor,
		ProductType:     rec.ProductType,
		Tags:            rec.Tags,
	}

	for _, mf := range rec.Metafields {
		input.Metafields = append(input.Metafields, shopify.MetafieldInput{
			Namespace: mf.Namespace,
			Key:       mf.Key,
			Value:     mf.Value,
			Type:      mf.Type,
		})
	}

	return input
}

func buildMedia(rec catalog.Record) []shopify.MediaInput {
	media := make([]shopify.MediaInput, 0, len(rec.Images))
	for _, src := range rec.Images {
		media = append(media, shopify.MediaInput{
			OriginalSource:   src,
			MediaContentType: "IMAGE",
		})
	}
	return media
}

// buildVariantInput carries the variant-level fields. The compare-at price
// is only sent when it exceeds the price; anything else is feed noise.
func buildVariantInput(rec catalog.Record, includeSKU bool) shopify.VariantInput {
	input := shopify.VariantInput{
		Price: rec.Price.StringFixed(2),
	}
	if includeSKU {
		input.SKU = rec.SKU
	}
	if rec.CompareAtPrice != nil && rec.CompareAtPrice.GreaterThan(rec.Price) {
		input.CompareAtPrice = rec.CompareAtPrice.StringFixed(2)
	}
	return input
}
