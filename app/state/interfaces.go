package state

import (
	"time"

	"github.com/feedbridge/catalog-sync/app/catalog"
)

type IdentityRepository interface {
	GetMapping(sku string) (*catalog.RemoteIdentity, error)
	UpsertMapping(sku string, identity catalog.RemoteIdentity, updatedAt time.Time) error
}

type FingerprintRepository interface {
	GetFingerprint(sku string) (string, error)
	UpsertFingerprint(sku string, fingerprint string, updatedAt time.Time) error
}

type RunRepository interface {
	StartRun(id string, mode string, startedAt time.Time) error
	FinishRun(id string, finishedAt time.Time, created, updated, unchanged, skipped, failed int) error
	GetRun(id string) (*Run, error)
}
