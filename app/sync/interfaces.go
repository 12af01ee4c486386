package sync

import (
	"context"

	"github.com/feedbridge/catalog-sync/app/catalog"
	"github.com/feedbridge/catalog-sync/app/shopify"
)

// RemoteAPI is the slice of the platform client the orchestrator drives.
type RemoteAPI interface {
	ResolveSKUs(ctx context.Context, skus []string) (map[string]catalog.RemoteIdentity, error)
	CreateProduct(ctx context.Context, input shopify.ProductInput, media []shopify.MediaInput) (catalog.RemoteIdentity, error)
	UpdateProduct(ctx context.Context, productID string, input shopify.ProductInput) error
	UpdateVariant(ctx context.Context, variantID string, input shopify.VariantInput) error
	ActiveLocations(ctx context.Context) ([]shopify.Location, error)
	InventoryItemID(ctx context.Context, variantID string) (string, error)
	SetInventoryQuantity(ctx context.Context, inventoryItemID, locationID string, quantity int) error
}

var _ RemoteAPI = (*shopify.Client)(nil)
