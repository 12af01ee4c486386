package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/feedbridge/catalog-sync/app/catalog"
)

var _ IdentityRepository = (*SQLIdentityRepository)(nil)

// SQLIdentityRepository persists the SKU to remote-identity mapping.
type SQLIdentityRepository struct {
	db *DB
}

func NewIdentityRepository(db *DB) *SQLIdentityRepository {
	return &SQLIdentityRepository{db: db}
}

// GetMapping returns the stored remote identity for a SKU, or nil when the
// SKU has never been synchronized.
func (r *SQLIdentityRepository) GetMapping(sku string) (*catalog.RemoteIdentity, error) {
	var identity catalog.RemoteIdentity

	err := r.db.QueryRow(`
		SELECT product_id, variant_id FROM sku_map WHERE sku = ?
	`, sku).Scan(&identity.ProductID, &identity.VariantID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping for %s: %w", sku, err)
	}

	return &identity, nil
}

// UpsertMapping stores the remote identity for a SKU, last write wins.
func (r *SQLIdentityRepository) UpsertMapping(sku string, identity catalog.RemoteIdentity, updatedAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO sku_map (sku, product_id, variant_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(sku) DO UPDATE SET
			product_id = excluded.product_id,
			variant_id = excluded.variant_id,
			updated_at = excluded.updated_at
	`, sku, identity.ProductID, identity.VariantID, updatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert mapping for %s: %w", sku, err)
	}

	return nil
}
