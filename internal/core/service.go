package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/tcgstock/internal/logging"
)

// Import sources, used as the "source" label in logs and metrics.
const (
	SourcePaste = "paste"
	SourceSheet = "sheet"
)

// DefaultProfileKey is used when an upload names no profile.
const DefaultProfileKey = "generic"

// DefaultImportTimeout bounds one import's parse-and-persist cycle.
const DefaultImportTimeout = 2 * time.Minute

// InventoryWriter persists imported records for one owner.
// All records of a call are written atomically.
type InventoryWriter interface {
	InsertRecords(ctx context.Context, owner, importID uuid.UUID, records []NormalizedRecord) error
}

// CatalogSource fetches reference cards from the external catalog.
type CatalogSource interface {
	FetchCards(ctx context.Context) ([]CatalogItem, error)
}

// CatalogTx runs fn with a CatalogStore bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type CatalogTx interface {
	WithCatalogTx(ctx context.Context, fn func(CatalogStore) error) error
}

// TableDecoder turns an uploaded file into a Table. Errors are hard failures
// and are shown to the user as-is.
type TableDecoder func(fileName string, r io.Reader, maxSize int64) (Table, error)

// Recorder receives import and sync outcomes, typically for metrics.
type Recorder interface {
	ImportFinished(source string, imported, skipped, quantity int, elapsed time.Duration)
	CatalogSynced(staged, existing, failed int)
}

// ServiceConfig wires a Service to its collaborators.
type ServiceConfig struct {
	Inventory InventoryWriter
	Catalog   CatalogSource
	CatalogTx CatalogTx
	Decode    TableDecoder
	Recorder  Recorder // optional

	MaxConcurrent int
	MaxWait       time.Duration
	Timeout       time.Duration
	MaxPasteBytes int64
	MaxFileSize   int64
	DefaultGame   string
}

// Service runs imports and catalog syncs. Parsing is synchronous and scoped
// to the call; the only shared state is the import limiter.
type Service struct {
	cfg     ServiceConfig
	limiter *ImportLimiter
}

// NewService creates a Service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultImportTimeout
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	return &Service{
		cfg:     cfg,
		limiter: NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWait),
	}
}

// ImportSummary reports the outcome of one import.
type ImportSummary struct {
	ImportID uuid.UUID       `json:"import_id"`
	Source   string          `json:"source"`
	Profile  string          `json:"profile,omitempty"`
	Records  int             `json:"records"`
	Quantity int             `json:"quantity"`
	Value    decimal.Decimal `json:"value"` // sum of price * quantity
	Skipped  int             `json:"skipped"`
	Message  string          `json:"message"`
	Duration time.Duration   `json:"duration_ns"`
	Failures []FailureReport `json:"failures,omitempty"`
}

// SyncSummary reports the outcome of one catalog sync.
type SyncSummary struct {
	Fetched  int           `json:"fetched"`
	Staged   int           `json:"staged"`
	Existing int           `json:"existing"`
	Failed   int           `json:"failed"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration_ns"`
}

// ImportPaste parses a pasted list and stores every parsed line for owner.
func (s *Service) ImportPaste(ctx context.Context, owner uuid.UUID, text string, mode GameMode) (ImportSummary, error) {
	if owner == uuid.Nil {
		return ImportSummary{}, ErrNilOwner
	}

	var summary ImportSummary
	err := s.run(ctx, func(ctx context.Context) error {
		start := time.Now()
		importID := uuid.New()
		log := importLogger(ctx, importID, owner, SourcePaste)

		result, err := s.parsePaste(text, mode, log)
		if err != nil {
			return err
		}

		if err := s.persist(ctx, owner, importID, result.Records); err != nil {
			log.Error("paste import failed", "error", err)
			return err
		}

		quantity := 0
		for _, r := range result.Records {
			quantity += r.Quantity
		}
		summary = ImportSummary{
			ImportID: importID,
			Source:   SourcePaste,
			Records:  result.Imported,
			Quantity: quantity,
			Value:    TotalValue(result.Records),
			Skipped:  len(result.Failures()),
			Message:  pasteMessage(result.Imported),
			Duration: time.Since(start),
			Failures: Reports(result.Outcomes),
		}
		s.finish(log, summary)
		return nil
	})
	return summary, err
}

// ImportSheet decodes an uploaded spreadsheet, maps it with the named
// profile and stores the records for owner. An empty profile key selects
// the generic profile.
func (s *Service) ImportSheet(ctx context.Context, owner uuid.UUID, fileName string, r io.Reader, profileKey string) (ImportSummary, error) {
	if owner == uuid.Nil {
		return ImportSummary{}, ErrNilOwner
	}

	var summary ImportSummary
	err := s.run(ctx, func(ctx context.Context) error {
		start := time.Now()
		importID := uuid.New()
		log := importLogger(ctx, importID, owner, SourceSheet).With("file", fileName)

		result, err := s.parseSheet(fileName, r, profileKey, log)
		if err != nil {
			log.Warn("sheet import rejected", "error", err)
			return err
		}

		if err := s.persist(ctx, owner, importID, result.Records); err != nil {
			log.Error("sheet import failed", "error", err)
			return err
		}

		summary = ImportSummary{
			ImportID: importID,
			Source:   SourceSheet,
			Profile:  result.Profile,
			Records:  len(result.Records),
			Quantity: result.QuantityTotal,
			Value:    TotalValue(result.Records),
			Skipped:  len(result.Failures()),
			Message:  sheetMessage(len(result.Records), result.QuantityTotal),
			Duration: time.Since(start),
			Failures: Reports(result.Outcomes),
		}
		s.finish(log, summary)
		return nil
	})
	return summary, err
}

// PreviewPaste parses a pasted list without storing anything.
func (s *Service) PreviewPaste(ctx context.Context, text string, mode GameMode) (PasteResult, error) {
	var result PasteResult
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.parsePaste(text, mode, logging.WithFields(ctx, "source", SourcePaste, "preview", true))
		return err
	})
	return result, err
}

// PreviewSheet decodes and maps a spreadsheet without storing anything.
func (s *Service) PreviewSheet(ctx context.Context, fileName string, r io.Reader, profileKey string) (SheetResult, error) {
	var result SheetResult
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.parseSheet(fileName, r, profileKey, logging.WithFields(ctx, "source", SourceSheet, "preview", true))
		return err
	})
	return result, err
}

// SyncCatalog fetches the reference catalog and stores every card not yet
// known, inside a single transaction.
func (s *Service) SyncCatalog(ctx context.Context) (SyncSummary, error) {
	if s.cfg.Catalog == nil || s.cfg.CatalogTx == nil {
		return SyncSummary{}, ErrNoCatalog
	}
	start := time.Now()

	items, err := s.cfg.Catalog.FetchCards(ctx)
	if err != nil {
		return SyncSummary{}, fmt.Errorf("sync failed: %w", err)
	}

	var result ReconcileResult
	err = s.cfg.CatalogTx.WithCatalogTx(ctx, func(store CatalogStore) error {
		var err error
		result, err = Reconcile(ctx, store, items)
		return err
	})
	if err != nil {
		return SyncSummary{}, fmt.Errorf("sync failed: %w", err)
	}

	s.cfg.Recorder.CatalogSynced(result.Staged, result.Existing, len(result.Failures))
	summary := SyncSummary{
		Fetched:  len(items),
		Staged:   result.Staged,
		Existing: result.Existing,
		Failed:   len(result.Failures),
		Message:  fmt.Sprintf("Synced %d new cards", result.Staged),
		Duration: time.Since(start),
	}
	logging.FromContext(ctx).Info("catalog sync completed",
		"fetched", summary.Fetched,
		"staged", summary.Staged,
		"existing", summary.Existing,
		"failed", summary.Failed,
		"duration_ms", summary.Duration.Milliseconds(),
	)
	return summary, nil
}

// WaitForImports blocks until in-flight imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// LimiterStatus exposes the import limiter for health output.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// run holds an import slot and applies the import timeout around fn.
func (s *Service) run(ctx context.Context, fn func(context.Context) error) error {
	if err := s.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return fn(ctx)
}

func (s *Service) parsePaste(text string, mode GameMode, log *slog.Logger) (PasteResult, error) {
	if s.cfg.MaxPasteBytes > 0 && int64(len(text)) > s.cfg.MaxPasteBytes {
		return PasteResult{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrPasteTooLarge, len(text), s.cfg.MaxPasteBytes)
	}
	return ParsePaste(text, mode, Options{Logger: log})
}

func (s *Service) parseSheet(fileName string, r io.Reader, profileKey string, log *slog.Logger) (SheetResult, error) {
	if s.cfg.Decode == nil {
		return SheetResult{}, ErrNoDecoder
	}
	if profileKey == "" {
		profileKey = DefaultProfileKey
	}
	profile, ok := GetProfile(profileKey)
	if !ok {
		return SheetResult{}, fmt.Errorf("%w: %q", ErrUnknownProfile, profileKey)
	}

	table, err := s.cfg.Decode(fileName, r, s.cfg.MaxFileSize)
	if err != nil {
		return SheetResult{}, err
	}
	log.Debug("sheet decoded", "profile", profile.Key, "headers", len(table.Headers), "rows", len(table.Rows))

	return ImportTable(table, profile, Options{Logger: log, DefaultGame: s.cfg.DefaultGame}), nil
}

func (s *Service) persist(ctx context.Context, owner, importID uuid.UUID, records []NormalizedRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.cfg.Inventory.InsertRecords(ctx, owner, importID, records); err != nil {
		return fmt.Errorf("store %d records: %w", len(records), err)
	}
	return nil
}

func (s *Service) finish(log *slog.Logger, sum ImportSummary) {
	s.cfg.Recorder.ImportFinished(sum.Source, sum.Records, sum.Skipped, sum.Quantity, sum.Duration)
	log.Info("import completed",
		"records", sum.Records,
		"quantity", sum.Quantity,
		"value", sum.Value.StringFixed(2),
		"skipped", sum.Skipped,
		"duration_ms", sum.Duration.Milliseconds(),
	)
}

func importLogger(ctx context.Context, importID, owner uuid.UUID, source string) *slog.Logger {
	return logging.ForImport(ctx, importID, owner, source, ClientIPFromContext(ctx), UserAgentFromContext(ctx))
}

func pasteMessage(imported int) string {
	if imported == 0 {
		return "Nothing was imported."
	}
	return fmt.Sprintf("Imported %d cards.", imported)
}

func sheetMessage(records, quantity int) string {
	if records == 0 {
		return "Nothing was imported."
	}
	return fmt.Sprintf("Successfully imported %d items.", quantity)
}

type nopRecorder struct{}

func (nopRecorder) ImportFinished(string, int, int, int, time.Duration) {}
func (nopRecorder) CatalogSynced(int, int, int)                         {}
