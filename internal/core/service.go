package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultImportTimeout is the maximum duration of a single import.
const DefaultImportTimeout = 10 * time.Minute

// finishTimeout bounds the post-import side effects. They get their own
// deadline so an import that ran out of time is still recorded.
const finishTimeout = 30 * time.Second

var (
	// ErrSearchNotFound is returned when leads are imported into a search
	// that does not exist.
	ErrSearchNotFound = errors.New("search not found")

	// ErrImportNotFound is returned by GetImport for unknown or expired IDs.
	ErrImportNotFound = errors.New("import not found")
)

// SearchRegistry reports whether a lead search exists.
type SearchRegistry interface {
	SearchExists(ctx context.Context, searchID int64) (bool, error)
}

// HistoryStore records finished imports.
type HistoryStore interface {
	RecordImport(ctx context.Context, entry ImportHistoryEntry) error
	ListImports(ctx context.Context, searchID int64, limit int) ([]ImportHistoryEntry, error)
}

// ResultCache keeps import results for later lookup by import ID.
// GetResult returns nil, nil on a miss.
type ResultCache interface {
	SetResult(ctx context.Context, importID string, result ImportResult) error
	GetResult(ctx context.Context, importID string) (*ImportResult, error)
}

// ImportCompleted is published after every import that processed rows.
type ImportCompleted struct {
	ImportID   string    `json:"importId"`
	SearchID   int64     `json:"searchId"`
	FileName   string    `json:"fileName"`
	Format     Format    `json:"format"`
	Imported   int       `json:"imported"`
	Errors     int       `json:"errors"`
	Duplicates int       `json:"duplicates"`
	Forced     bool      `json:"forcedMapping"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher announces finished imports to other services.
type EventPublisher interface {
	PublishImportCompleted(ctx context.Context, event ImportCompleted) error
}

// FileArchive keeps a copy of every uploaded file.
type FileArchive interface {
	ArchiveUpload(ctx context.Context, searchID int64, importID string, u Upload) error
}

// ImportObserver receives every import outcome, successful or not.
type ImportObserver interface {
	ObserveImport(report Report, err error)
}

// ServiceDeps are the collaborators of a Service. Only Store is required;
// the others are skipped when nil.
type ServiceDeps struct {
	Store    LeadStore
	Searches SearchRegistry
	History  HistoryStore
	Cache    ResultCache
	Events   EventPublisher
	Archive  FileArchive
	Observer ImportObserver
	Logger   *slog.Logger
}

// ServiceOptions tunes a Service.
type ServiceOptions struct {
	Engine        EngineOptions
	MaxConcurrent int
	MaxWait       time.Duration
	Timeout       time.Duration
	HistoryLimit  int
}

// Service hosts the import engine for transports such as HTTP and the CLI.
type Service struct {
	deps    ServiceDeps
	engine  *Engine
	limiter *ImportLimiter
	timeout time.Duration
	limit   int
	logger  *slog.Logger
}

// NewService creates a Service.
func NewService(deps ServiceDeps, opts ServiceOptions) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if opts.Engine.Logger == nil {
		opts.Engine.Logger = deps.Logger
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultImportTimeout
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}

	return &Service{
		deps:    deps,
		engine:  NewEngine(deps.Store, opts.Engine),
		limiter: NewImportLimiter(opts.MaxConcurrent, opts.MaxWait),
		timeout: opts.Timeout,
		limit:   opts.HistoryLimit,
		logger:  deps.Logger,
	}
}

// Engine returns the underlying engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Import imports an uploaded file into searchID. The import runs to
// completion even if ctx is cancelled, bounded by the service timeout.
func (s *Service) Import(ctx context.Context, searchID int64, u Upload) (ImportResult, error) {
	if err := s.checkSearch(ctx, searchID); err != nil {
		return ImportResult{}, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return ImportResult{}, err
	}
	defer s.limiter.Release()

	importCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	importID := uuid.New().String()
	base := loggerFrom(ctx, s.logger).With("import_id", importID)
	logger := base.With("search_id", searchID)

	report, err := s.engine.Run(WithLogger(importCtx, base), u, searchID)
	report.Result.ImportID = importID
	s.observe(report, err)

	interrupted := errors.Is(err, ErrImportInterrupted)
	if err != nil && !interrupted {
		logger.Info("import rejected", "file", u.FileName, "error", err)
		return report.Result, err
	}

	finishCtx, cancelFinish := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer cancelFinish()
	s.finish(finishCtx, logger, searchID, importID, u, report)

	if interrupted {
		logger.Warn("import interrupted", "imported", report.Result.ImportedLeads, "error", err)
		return report.Result, err
	}
	return report.Result, nil
}

// Preview runs a dry import of u.
func (s *Service) Preview(ctx context.Context, u Upload) (*PreviewResponse, error) {
	return s.engine.Preview(ctx, u)
}

// GetImport returns a cached import result.
func (s *Service) GetImport(ctx context.Context, importID string) (*ImportResult, error) {
	if s.deps.Cache == nil {
		return nil, ErrImportNotFound
	}
	result, err := s.deps.Cache.GetResult(ctx, importID)
	if err != nil {
		return nil, fmt.Errorf("get import %s: %w", importID, err)
	}
	if result == nil {
		return nil, ErrImportNotFound
	}
	return result, nil
}

// ImportHistory lists the most recent imports of a search, newest first.
func (s *Service) ImportHistory(ctx context.Context, searchID int64) ([]ImportHistoryEntry, error) {
	if err := s.checkSearch(ctx, searchID); err != nil {
		return nil, err
	}
	if s.deps.History == nil {
		return []ImportHistoryEntry{}, nil
	}
	entries, err := s.deps.History.ListImports(ctx, searchID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	return entries, nil
}

// WaitForImports blocks until running imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// LimiterStatus reports import slot usage.
func (s *Service) LimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

func (s *Service) checkSearch(ctx context.Context, searchID int64) error {
	if s.deps.Searches == nil {
		return nil
	}
	ok, err := s.deps.Searches.SearchExists(ctx, searchID)
	if err != nil {
		return fmt.Errorf("check search %d: %w", searchID, err)
	}
	if !ok {
		return fmt.Errorf("search %d: %w", searchID, ErrSearchNotFound)
	}
	return nil
}

// finish runs the post-import side effects. Their failures are logged and
// never change the import outcome.
func (s *Service) finish(ctx context.Context, logger *slog.Logger, searchID int64, importID string, u Upload, report Report) {
	result := report.Result

	if s.deps.History != nil {
		client := ClientFromContext(ctx)
		entry := ImportHistoryEntry{
			ID:             importID,
			SearchID:       searchID,
			FileName:       u.FileName,
			Format:         report.Format,
			ImportedLeads:  result.ImportedLeads,
			ErrorLeads:     result.ErrorLeads,
			DuplicateLeads: result.DuplicateLeads,
			ForcedMapping:  report.Forced,
			DurationMs:     report.Duration.Milliseconds(),
			ClientIP:       client.IP,
			UserAgent:      client.UserAgent,
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.deps.History.RecordImport(ctx, entry); err != nil {
			logger.Error("failed to record import history", "error", err)
		}
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.SetResult(ctx, importID, result); err != nil {
			logger.Warn("failed to cache import result", "error", err)
		}
	}

	if s.deps.Archive != nil {
		if err := s.deps.Archive.ArchiveUpload(ctx, searchID, importID, u); err != nil {
			logger.Warn("failed to archive upload", "error", err)
		}
	}

	if s.deps.Events != nil {
		event := ImportCompleted{
			ImportID:   importID,
			SearchID:   searchID,
			FileName:   u.FileName,
			Format:     report.Format,
			Imported:   result.ImportedLeads,
			Errors:     result.ErrorLeads,
			Duplicates: result.DuplicateLeads,
			Forced:     report.Forced,
			OccurredAt: time.Now().UTC(),
		}
		if err := s.deps.Events.PublishImportCompleted(ctx, event); err != nil {
			logger.Warn("failed to publish import event", "error", err)
		}
	}
}

func (s *Service) observe(report Report, err error) {
	if s.deps.Observer != nil {
		s.deps.Observer.ObserveImport(report, err)
	}
}
