package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/feedbridge/catalog-sync/app/catalog"
	"github.com/feedbridge/catalog-sync/app/shopify"
	"github.com/feedbridge/catalog-sync/app/state"
)

// Mode selects which slice of each record a run writes.
type Mode string

const (
	ModeFull  Mode = "full"  // create missing products, update changed ones
	ModePrice Mode = "price" // variant price writes only
	ModeStock Mode = "stock" // inventory quantity writes only
)

// ParseMode validates a mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFull, ModePrice, ModeStock:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown sync mode: %s", s)
	}
}

// Report aggregates the outcome counters of one run.
type Report struct {
	RunID     string
	Created   int
	Updated   int
	Unchanged int
	Skipped   int
	Failed    int
}

// Runner drives one end-to-end sync: chunking, discovery, classification,
// dispatch, and state persistence. Records are processed strictly in feed
// order; the differ's same-run visibility depends on that.
type Runner struct {
	api          RemoteAPI
	identities   state.IdentityRepository
	fingerprints state.FingerprintRepository
	runs         state.RunRepository
	differ       *Differ
	mode         Mode
	chunkSize    int
}

func NewRunner(api RemoteAPI, identities state.IdentityRepository, fingerprints state.FingerprintRepository,
	runs state.RunRepository, mode Mode, chunkSize int) *Runner {
	return &Runner{
		api:          api,
		identities:   identities,
		fingerprints: fingerprints,
		runs:         runs,
		differ:       NewDiffer(identities, fingerprints),
		mode:         mode,
		chunkSize:    chunkSize,
	}
}

// Run processes the whole feed. Errors on individual records are counted
// and logged, never fatal; only precondition failures (and broken state
// storage) abort the run.
func (r *Runner) Run(ctx context.Context, records []catalog.Record) (Report, error) {
	report := Report{RunID: uuid.NewString()}

	if err := r.runs.StartRun(report.RunID, string(r.mode), time.Now()); err != nil {
		return report, err
	}

	// Stock sync needs a write target; failing fast here beats failing on
	// every record.
	var location *shopify.Location
	if r.mode == ModeStock {
		locations, err := r.api.ActiveLocations(ctx)
		if err != nil {
			return report, fmt.Errorf("failed to resolve inventory locations: %w", err)
		}
		if len(locations) == 0 {
			return report, fmt.Errorf("no active inventory locations configured on the shop")
		}
		location = &locations[0]
		slog.Info("Using inventory location", "name", location.Name, "id", location.ID)
	}

	chunks := chunkRecords(records, r.chunkSize)
	for i, chunk := range chunks {
		if err := r.processChunk(ctx, chunk, location, &report); err != nil {
			return report, err
		}
		slog.Info("Chunk completed", "chunk", i+1, "chunks", len(chunks), "records", len(chunk))
	}

	if err := r.runs.FinishRun(report.RunID, time.Now(),
		report.Created, report.Updated, report.Unchanged, report.Skipped, report.Failed); err != nil {
		return report, err
	}

	slog.Info("Sync run completed", "run_id", report.RunID, "mode", string(r.mode),
		"created", report.Created, "updated", report.Updated, "unchanged", report.Unchanged,
		"skipped", report.Skipped, "failed", report.Failed)

	return report, nil
}

func (r *Runner) processChunk(ctx context.Context, records []catalog.Record, location *shopify.Location, report *Report) error {
	skus := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.SKU != "" {
			skus = append(skus, rec.SKU)
		}
	}

	resolved, err := r.api.ResolveSKUs(ctx, skus)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	switch r.mode {
	case ModeFull:
		return r.processFull(ctx, records, resolved, report)
	case ModePrice:
		r.processPrice(ctx, records, resolved, report)
		return nil
	case ModeStock:
		r.processStock(ctx, records, resolved, *location, report)
		return nil
	default:
		return fmt.Errorf("unknown sync mode: %s", r.mode)
	}
}

func (r *Runner) processFull(ctx context.Context, records []catalog.Record, resolved map[string]catalog.RemoteIdentity, report *Report) error {
	plan, err := r.differ.Classify(records, resolved)
	if err != nil {
		return err
	}
	report.Unchanged += plan.Unchanged
	report.Skipped += plan.Skipped

	for _, item := range plan.Create {
		if err := r.createOne(ctx, item); err != nil {
			r.recordFailure(err, item.Record.SKU, report)
			continue
		}
		report.Created++
		slog.Info("Created product", "sku", item.Record.SKU, "title", item.Record.Title)
	}

	for _, item := range plan.Update {
		if err := r.updateOne(ctx, item); err != nil {
			r.recordFailure(err, item.Record.SKU, report)
			continue
		}
		report.Updated++
		slog.Info("Updated product", "sku", item.Record.SKU, "title", item.Record.Title)
	}

	return nil
}

// createOne is a two-phase write: the create call assigns the identity, then
// a variant write sets the fields the create mutation cannot carry. A
// failure between the phases leaves a partially configured product; the
// mapping is persisted anyway and the fingerprint deliberately is not, so
// the next full run classifies the record as changed and reconciles it.
func (r *Runner) createOne(ctx context.Context, item CreateItem) error {
	rec := item.Record

	identity, err := r.api.CreateProduct(ctx, buildProductInput(rec), buildMedia(rec))
	if err != nil {
		return err
	}

	now := time.Now()
	if err := r.identities.UpsertMapping(rec.SKU, identity, now); err != nil {
		return err
	}

	if identity.VariantID != "" {
		if err := r.api.UpdateVariant(ctx, identity.VariantID, buildVariantInput(rec, true)); err != nil {
			slog.Warn("Product created but variant write failed, will reconcile on next run",
				"sku", rec.SKU, "product_id", identity.ProductID, "error", err)
			return nil
		}
	}

	return r.fingerprints.UpsertFingerprint(rec.SKU, item.Fingerprint, now)
}

func (r *Runner) updateOne(ctx context.Context, item UpdateItem) error {
	rec := item.Record

	if err := r.api.UpdateProduct(ctx, item.Identity.ProductID, buildProductInput(rec)); err != nil {
		return err
	}

	if item.Identity.VariantID != "" {
		if err := r.api.UpdateVariant(ctx, item.Identity.VariantID, buildVariantInput(rec, true)); err != nil {
			return err
		}
	}

	return r.fingerprints.UpsertFingerprint(rec.SKU, item.Fingerprint, time.Now())
}

// processPrice issues narrow variant price writes for every record with a
// known identity. No fingerprint gate applies: the price pass is meant to be
// cheap to run often and must win even when a full pass recorded different
// content.
func (r *Runner) processPrice(ctx context.Context, records []catalog.Record, resolved map[string]catalog.RemoteIdentity, report *Report) {
	for _, rec := range records {
		identity, ok := r.lookupIdentity(rec.SKU, resolved)
		if !ok || identity.VariantID == "" {
			report.Skipped++
			if rec.SKU != "" {
				slog.Debug("No remote variant for SKU, skipping", "sku", rec.SKU)
			}
			continue
		}

		if err := r.api.UpdateVariant(ctx, identity.VariantID, buildVariantInput(rec, false)); err != nil {
			r.recordFailure(err, rec.SKU, report)
			continue
		}
		report.Updated++
		slog.Info("Updated price", "sku", rec.SKU, "price", rec.Price.StringFixed(2))
	}
}

func (r *Runner) processStock(ctx context.Context, records []catalog.Record, resolved map[string]catalog.RemoteIdentity, location shopify.Location, report *Report) {
	for _, rec := range records {
		identity, ok := r.lookupIdentity(rec.SKU, resolved)
		if !ok || identity.VariantID == "" {
			report.Skipped++
			if rec.SKU != "" {
				slog.Debug("No remote variant for SKU, skipping", "sku", rec.SKU)
			}
			continue
		}

		itemID, err := r.api.InventoryItemID(ctx, identity.VariantID)
		if err != nil {
			r.recordFailure(err, rec.SKU, report)
			continue
		}
		if itemID == "" {
			report.Skipped++
			slog.Debug("No inventory item for variant, skipping", "sku", rec.SKU)
			continue
		}

		if err := r.api.SetInventoryQuantity(ctx, itemID, location.ID, rec.Inventory); err != nil {
			r.recordFailure(err, rec.SKU, report)
			continue
		}
		report.Updated++
		slog.Info("Updated stock", "sku", rec.SKU, "quantity", rec.Inventory)
	}
}

// lookupIdentity prefers the identities resolved for this chunk, falling
// back to the persisted mapping so narrow passes reuse what a full pass
// discovered.
func (r *Runner) lookupIdentity(sku string, resolved map[string]catalog.RemoteIdentity) (catalog.RemoteIdentity, bool) {
	if sku == "" {
		return catalog.RemoteIdentity{}, false
	}
	if identity, ok := resolved[sku]; ok {
		return identity, true
	}

	stored, err := r.identities.GetMapping(sku)
	if err != nil || stored == nil {
		return catalog.RemoteIdentity{}, false
	}
	return *stored, true
}

// recordFailure applies the error taxonomy to one record's outcome: benign
// duplicates are tolerated, everything else counts as a failure. The run
// always continues.
func (r *Runner) recordFailure(err error, sku string, report *Report) {
	if shopify.IsBenignDuplicate(err) {
		report.Skipped++
		slog.Warn("Entity already exists, skipping", "sku", sku, "error", err)
		return
	}

	report.Failed++
	slog.Error("Record sync failed", "sku", sku, "error", err)
}

// chunkRecords partitions records into ordered chunks of at most size. A
// non-positive size yields a single chunk.
func chunkRecords(records []catalog.Record, size int) [][]catalog.Record {
	if len(records) == 0 {
		return nil
	}
	if size <= 0 || size >= len(records) {
		return [][]catalog.Record{records}
	}

	var chunks [][]catalog.Record
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}
