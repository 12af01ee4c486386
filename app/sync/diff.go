package sync

import (
	"fmt"

	"github.com/feedbridge/catalog-sync/app/catalog"
	"github.com/feedbridge/catalog-sync/app/state"
)

// CreateItem is a record with no known remote identity.
type CreateItem struct {
	Record      catalog.Record
	Fingerprint string
}

// UpdateItem is a record whose remote identity is known and whose content
// fingerprint differs from the last synchronized one.
type UpdateItem struct {
	Record      catalog.Record
	Identity    catalog.RemoteIdentity
	Fingerprint string
}

// Plan is the outcome of classifying one batch of records.
type Plan struct {
	Create    []CreateItem
	Update    []UpdateItem
	Unchanged int
	Skipped   int
}

// Differ classifies records as create, update, or unchanged by combining
// just-resolved identities, persisted identities, and content fingerprints.
type Differ struct {
	identities   state.IdentityRepository
	fingerprints state.FingerprintRepository
}

func NewDiffer(identities state.IdentityRepository, fingerprints state.FingerprintRepository) *Differ {
	return &Differ{identities: identities, fingerprints: fingerprints}
}

// Classify walks records in feed order. Consulting the persisted mapping in
// addition to the resolved one lets a record created earlier in the same run,
// not yet visible to a fresh remote search, still classify as
// update-eligible in later chunks.
func (d *Differ) Classify(records []catalog.Record, resolved map[string]catalog.RemoteIdentity) (Plan, error) {
	var plan Plan

	for _, rec := range records {
		if rec.SKU == "" {
			plan.Skipped++
			continue
		}

		fingerprint := catalog.Fingerprint(rec)

		identity, ok := resolved[rec.SKU]
		if !ok {
			stored, err := d.identities.GetMapping(rec.SKU)
			if err != nil {
				return Plan{}, fmt.Errorf("failed to look up mapping for %s: %w", rec.SKU, err)
			}
			if stored != nil {
				identity, ok = *stored, true
			}
		}

		if !ok {
			plan.Create = append(plan.Create, CreateItem{Record: rec, Fingerprint: fingerprint})
			continue
		}

		lastFingerprint, err := d.fingerprints.GetFingerprint(rec.SKU)
		if err != nil {
			return Plan{}, fmt.Errorf("failed to look up fingerprint for %s: %w", rec.SKU, err)
		}

		if lastFingerprint == fingerprint {
			plan.Unchanged++
			continue
		}

		plan.Update = append(plan.Update, UpdateItem{
			Record:      rec,
			Identity:    identity,
			Fingerprint: fingerprint,
		})
	}

	return plan, nil
}
