package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"armory-api/internal/feed"
	"armory-api/internal/model"
	"armory-api/internal/repository"
	"armory-api/pkg/uid"
)

// Transport is the distributor file-server session the sync run drives.
// Implemented by feed.Client; faked in tests.
type Transport interface {
	Connect(ctx context.Context) error
	Disconnect()
	List(path string) ([]feed.FileInfo, error)
	FetchToBuffer(path string) ([]byte, error)
	ResolveInventoryPath() (string, error)
}

// Parser turns a raw feed buffer into inventory records.
type Parser interface {
	Parse(buf []byte) ([]model.InventoryRecord, error)
}

// SyncService runs the inventory synchronization pipeline:
// connect, fetch, parse, validate, persist, report. One run is strictly
// sequential; concurrent runs must be serialized by the caller.
type SyncService struct {
	transport Transport
	parser    Parser
	store     repository.InventoryStore

	budget        time.Duration
	exposeListing bool
	redact        func(string) string
}

// SyncOptions tunes a SyncService.
type SyncOptions struct {
	// Budget is the wall-clock ceiling for a whole run, mirroring the host
	// environment's execution limit. Zero means 60s.
	Budget time.Duration

	// ExposeFileListing includes the diagnostic remote directory listing in
	// failure reports.
	ExposeFileListing bool

	// Redact scrubs credentials from error text before it enters a report.
	// Nil means no scrubbing.
	Redact func(string) string
}

// NewSyncService creates a sync service.
// Returns nil if transport, parser or store is missing.
func NewSyncService(transport Transport, parser Parser, store repository.InventoryStore, opts SyncOptions) *SyncService {
	if transport == nil || parser == nil || store == nil {
		return nil
	}
	budget := opts.Budget
	if budget <= 0 {
		budget = 60 * time.Second
	}
	redact := opts.Redact
	if redact == nil {
		redact = func(s string) string { return s }
	}
	return &SyncService{
		transport:     transport,
		parser:        parser,
		store:         store,
		budget:        budget,
		exposeListing: opts.ExposeFileListing,
		redact:        redact,
	}
}

// Run executes one full sync. Failures never escape as errors; every outcome
// is a structured report.
func (s *SyncService) Run(ctx context.Context) model.SyncReport {
	start := time.Now()
	report := model.SyncReport{
		RunID:         uid.New(),
		SyncTimestamp: start.UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, s.budget)
	defer cancel()

	fail := func(err error) model.SyncReport {
		report.Success = false
		report.AddError(s.redact(err.Error()))
		report.DurationMS = time.Since(start).Milliseconds()
		log.Printf("[SyncService] Sync %s failed after %dms: %v", report.RunID, report.DurationMS, err)
		return report
	}

	log.Printf("[SyncService] Starting inventory sync %s (budget %v)", report.RunID, s.budget)

	if err := s.transport.Connect(ctx); err != nil {
		return fail(err)
	}
	defer s.transport.Disconnect()

	path, err := s.transport.ResolveInventoryPath()
	if err != nil {
		s.attachRemoteListing(&report)
		return fail(err)
	}

	if err := s.checkBudget(ctx, "fetch"); err != nil {
		return fail(err)
	}
	buf, err := s.transport.FetchToBuffer(path)
	if err != nil {
		s.attachRemoteListing(&report)
		return fail(err)
	}

	if err := s.checkBudget(ctx, "parse"); err != nil {
		return fail(err)
	}
	records, err := s.parser.Parse(buf)
	if err != nil {
		return fail(err)
	}

	outcome := feed.Validate(records)
	log.Printf("[SyncService] Validation: %d valid, %d invalid items", len(outcome.Valid), len(outcome.Invalid))

	if err := s.checkBudget(ctx, "persist"); err != nil {
		return fail(err)
	}
	if err := s.store.ReplaceAll(ctx, outcome.Valid); err != nil {
		return fail(fmt.Errorf("storage write failed: %w", err))
	}

	report.Success = true
	report.RecordsProcessed = len(records)
	report.RecordsAdded = len(outcome.Valid)
	for _, inv := range outcome.Invalid {
		sku := inv.Record.StockNumber
		if sku == "" {
			sku = "unknown"
		}
		report.AddError(fmt.Sprintf("%s: %s", sku, strings.Join(inv.Errors, ", ")))
	}
	report.DurationMS = time.Since(start).Milliseconds()

	log.Printf("[SyncService] Sync %s completed in %dms - processed %d, added %d, %d invalid",
		report.RunID, report.DurationMS, report.RecordsProcessed, report.RecordsAdded, len(outcome.Invalid))
	return report
}

// Status returns the stored sync metadata.
func (s *SyncService) Status(ctx context.Context) (model.SyncMetadata, error) {
	return s.store.SyncMetadata(ctx)
}

// checkBudget fails fast between stages instead of letting the host
// environment kill the process silently at its time limit.
func (s *SyncService) checkBudget(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("sync budget of %v exceeded before %s stage: %w", s.budget, stage, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		log.Printf("[SyncService] Entering %s stage, %v of budget remaining", stage, time.Until(deadline).Round(time.Millisecond))
	}
	return nil
}

// attachRemoteListing captures a best-effort remote directory listing for a
// failure report. Diagnostics only: its own failure is ignored and it never
// blocks the failure path.
func (s *SyncService) attachRemoteListing(report *model.SyncReport) {
	if !s.exposeListing {
		return
	}
	files, err := s.transport.List("/")
	if err != nil {
		log.Printf("[SyncService] Diagnostic listing failed: %v", err)
		return
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	report.RemoteFiles = names
}
