package sync

import (
	"testing"
	"time"

	"github.com/feedbridge/catalog-sync/app/catalog"
)

func TestDiffer_Classify(t *testing.T) {
	identities, fingerprints, _ := testRepos(t)
	differ := NewDiffer(identities, fingerprints)

	known := record("KNOWN", "Known product", "10.00", 3)
	changed := record("CHANGED", "Changed product", "10.00", 3)

	now := time.Now()
	if err := identities.UpsertMapping("KNOWN", catalog.RemoteIdentity{ProductID: "P1", VariantID: "V1"}, now); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := fingerprints.UpsertFingerprint("KNOWN", catalog.Fingerprint(known), now); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := fingerprints.UpsertFingerprint("CHANGED", "stale-digest", now); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	records := []catalog.Record{
		record("NEW", "New product", "5.00", 1),
		known,
		changed,
		record("", "Unsellable", "1.00", 0),
	}
	resolved := map[string]catalog.RemoteIdentity{
		"CHANGED": {ProductID: "P2", VariantID: "V2"},
	}

	plan, err := differ.Classify(records, resolved)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(plan.Create) != 1 || plan.Create[0].Record.SKU != "NEW" {
		t.Errorf("Expected NEW classified as create, got %+v", plan.Create)
	}
	if plan.Unchanged != 1 {
		t.Errorf("Expected KNOWN classified as unchanged, got %d", plan.Unchanged)
	}
	if len(plan.Update) != 1 || plan.Update[0].Record.SKU != "CHANGED" {
		t.Fatalf("Expected CHANGED classified as update, got %+v", plan.Update)
	}
	if plan.Update[0].Identity.ProductID != "P2" {
		t.Errorf("Update must carry the resolved identity, got %+v", plan.Update[0].Identity)
	}
	if plan.Skipped != 1 {
		t.Errorf("Expected the SKU-less record skipped, got %d", plan.Skipped)
	}
}

func TestDiffer_StoredMappingFallback(t *testing.T) {
	identities, fingerprints, _ := testRepos(t)
	differ := NewDiffer(identities, fingerprints)

	rec := record("X1", "Bike", "10.00", 5)
	if err := identities.UpsertMapping("X1", catalog.RemoteIdentity{ProductID: "P1", VariantID: "V1"}, time.Now()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Remote discovery comes back empty; the persisted mapping still makes
	// the record update-eligible instead of triggering a duplicate create.
	plan, err := differ.Classify([]catalog.Record{rec}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(plan.Create) != 0 {
		t.Errorf("Record with persisted mapping must not be a create, got %+v", plan.Create)
	}
	if len(plan.Update) != 1 || plan.Update[0].Identity.ProductID != "P1" {
		t.Fatalf("Expected update via stored mapping, got %+v", plan.Update)
	}
}

func TestDiffer_FingerprintGate(t *testing.T) {
	identities, fingerprints, _ := testRepos(t)
	differ := NewDiffer(identities, fingerprints)

	rec := record("X1", "Bike", "10.00", 5)
	now := time.Now()
	if err := identities.UpsertMapping("X1", catalog.RemoteIdentity{ProductID: "P1", VariantID: "V1"}, now); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := fingerprints.UpsertFingerprint("X1", catalog.Fingerprint(rec), now); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	plan, err := differ.Classify([]catalog.Record{rec}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if plan.Unchanged != 1 || len(plan.Update) != 0 {
		t.Fatalf("Identical content must classify as unchanged, got %+v", plan)
	}

	rec.Inventory = 6
	plan, err = differ.Classify([]catalog.Record{rec}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(plan.Update) != 1 {
		t.Errorf("Changed inventory must reopen the gate, got %+v", plan)
	}
}
