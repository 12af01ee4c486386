package state

import (
	"database/sql"
	"fmt"
	"time"
)

var _ FingerprintRepository = (*SQLFingerprintRepository)(nil)

// SQLFingerprintRepository persists the last-synchronized content
// fingerprint per SKU.
type SQLFingerprintRepository struct {
	db *DB
}

func NewFingerprintRepository(db *DB) *SQLFingerprintRepository {
	return &SQLFingerprintRepository{db: db}
}

// GetFingerprint returns the stored fingerprint for a SKU, or the empty
// string when none has been recorded yet.
func (r *SQLFingerprintRepository) GetFingerprint(sku string) (string, error) {
	var fingerprint string

	err := r.db.QueryRow(`
		SELECT hash FROM sku_hash WHERE sku = ?
	`, sku).Scan(&fingerprint)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get fingerprint for %s: %w", sku, err)
	}

	return fingerprint, nil
}

// UpsertFingerprint stores the fingerprint for a SKU, last write wins.
func (r *SQLFingerprintRepository) UpsertFingerprint(sku string, fingerprint string, updatedAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO sku_hash (sku, hash, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(sku) DO UPDATE SET
			hash = excluded.hash,
			updated_at = excluded.updated_at
	`, sku, fingerprint, updatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert fingerprint for %s: %w", sku, err)
	}

	return nil
}
