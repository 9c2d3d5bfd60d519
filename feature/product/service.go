package product

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"sync"
	"time"

	"data-importer/core/config"
	"data-importer/core/extract"
	"data-importer/core/job"
	"data-importer/core/logger"
	"data-importer/core/mapping"
	"data-importer/core/reconcile"
	"data-importer/core/session"
	"data-importer/core/storage"
	"data-importer/feature/product/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Object prefixes in the import bucket.
const (
	IncomingPrefix = "incoming/"
	ArchivePrefix  = "archive/"
	ReportPrefix   = "reports/"
)

var (
	// ErrImportNotFound is returned for unknown import ids.
	ErrImportNotFound = errors.New("import not found")
	// ErrNothingSelected is returned when a job request selects no entry.
	ErrNothingSelected = errors.New("no entries selected")
	// ErrStorageDisabled is returned by bucket operations without a client.
	ErrStorageDisabled = errors.New("storage is not configured")
	// ErrDatabaseDisabled is returned for writing jobs without a store.
	ErrDatabaseDisabled = errors.New("no database configured, only dry runs are possible")
)

// defaultJobStatuses are applied when a job request names neither ids nor
// statuses.
var defaultJobStatuses = []reconcile.Status{
	reconcile.StatusNew,
	reconcile.StatusModified,
	reconcile.StatusDeleted,
}

// Summary describes an import for clients.
type Summary struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	CreatedAt time.Time                `json:"created_at"`
	Stats     extract.Stats            `json:"stats"`
	Counts    map[reconcile.Status]int `json:"counts"`
	Detected  []session.Column         `json:"detected_columns"`
	Unknown   []string                 `json:"unknown_columns"`
	Warnings  []string                 `json:"warnings"`
	Errors    []string                 `json:"errors"`
}

// JobRequest selects the entries a job applies. IDs win over Statuses.
type JobRequest struct {
	IDs      []int              `json:"ids"`
	Statuses []reconcile.Status `json:"statuses"`
	DryRun   bool               `json:"dry_run"`
}

type upload struct {
	id      string
	name    string
	created time.Time
	stats   extract.Stats
	session *session.Session[models.Product]
}

// Service owns the import sessions of the product catalogue.
type Service struct {
	store     *Store
	baseline  *reconcile.BaselineCache[models.Product]
	client    storage.Client
	bucket    string
	maxObject int64
	cfg       config.ImportConfig
	settings  *mapping.Settings
	monitor   *job.Monitor
	logger    *zap.Logger

	mu      sync.RWMutex
	uploads map[string]*upload
}

// NewService creates the service. store and client may be nil: without a
// store every record reconciles as NEW and jobs cannot be started, without
// a client nothing is archived.
func NewService(store *Store, client storage.Client, storageCfg storage.Config, cfg config.ImportConfig, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := DefaultSettings()
	if cfg.Timezone != "" {
		if err := settings.SetTimezone(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("invalid import timezone: %w", err)
		}
	}
	if cfg.SettingsFile != "" {
		blob, err := os.ReadFile(cfg.SettingsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
		if err := settings.Apply(string(blob)); err != nil {
			return nil, fmt.Errorf("invalid settings file %s: %w", cfg.SettingsFile, err)
		}
	}

	s := &Service{
		store:     store,
		client:    client,
		bucket:    storageCfg.Bucket,
		maxObject: storageCfg.MaxObjectBytes,
		cfg:       cfg,
		settings:  settings,
		monitor:   job.NewMonitor(cfg.JobRetention(), logger),
		logger:    logger,
		uploads:   make(map[string]*upload),
	}
	if store != nil {
		s.baseline = reconcile.NewBaselineCache[models.Product](store, cfg.BaselineTTL())
	}
	return s, nil
}

// LoadSettings overlays the settings object from the bucket, when one is
// configured. Sessions created afterwards see the result.
func (s *Service) LoadSettings(ctx context.Context) error {
	if s.cfg.SettingsObject == "" {
		return nil
	}
	if s.client == nil {
		return ErrStorageDisabled
	}
	blob, err := storage.ReadObject(ctx, s.client, s.bucket, s.cfg.SettingsObject, s.maxObject)
	if err != nil {
		return err
	}
	if err := s.settings.Apply(string(blob)); err != nil {
		return fmt.Errorf("invalid settings object %s: %w", s.cfg.SettingsObject, err)
	}
	s.logger.Info("Settings loaded from storage",
		zap.String("object", s.cfg.SettingsObject),
		zap.Int("mappings", s.settings.Registry.Len()),
	)
	return nil
}

// Settings returns the shared settings sessions are cloned from.
func (s *Service) Settings() *mapping.Settings {
	return s.settings
}

// Upload parses data, reconciles it against the products table and keeps
// the session for later queries.
func (s *Service) Upload(ctx context.Context, name string, data []byte) (*Summary, error) {
	id := uuid.NewString()
	l := logger.WithImport(s.logger, id, "")

	sess := session.New(Schema(), s.settings, session.Options{
		DetectDeleted: s.cfg.DetectDeleted,
		Logger:        l,
	})
	pipeline := extract.New[models.Product](Schema(), Hooks{}, extract.Options{
		MaxRows:        s.cfg.MaxRows,
		DefaultCharset: s.cfg.DefaultCharset,
	}, l)

	stats, err := pipeline.Parse(ctx, bytes.NewReader(data), sess)
	if err != nil {
		return nil, err
	}

	var source reconcile.BaselineSource[models.Product]
	if s.baseline != nil {
		source = s.baseline
	}
	if err := sess.Reconcile(ctx, source); err != nil {
		return nil, err
	}

	u := &upload{id: id, name: name, created: time.Now(), stats: stats, session: sess}
	s.mu.Lock()
	s.uploads[id] = u
	s.mu.Unlock()

	s.archive(ctx, l, path.Join(ArchivePrefix, id, path.Base(name)), "text/csv", data)

	l.Info("Import parsed",
		zap.String("name", name),
		zap.Int("rows", stats.Rows),
		zap.String("encoding", stats.Encoding),
		zap.Int("unknown_columns", stats.Unknown),
	)
	return s.summary(u), nil
}

// UploadObject imports a file that already sits in the bucket.
func (s *Service) UploadObject(ctx context.Context, object string) (*Summary, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	data, err := storage.ReadObject(ctx, s.client, s.bucket, object, s.maxObject)
	if err != nil {
		return nil, err
	}
	return s.Upload(ctx, object, data)
}

// Objects lists importable files waiting in the bucket.
func (s *Service) Objects(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	return storage.ListNames(ctx, s.client, s.bucket, IncomingPrefix, ".csv", ".tsv", ".txt")
}

func (s *Service) get(id string) (*upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.uploads[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrImportNotFound, id)
	}
	return u, nil
}

// Session returns the session of an import.
func (s *Service) Session(id string) (*session.Session[models.Product], error) {
	u, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return u.session, nil
}

// Get returns the summary of an import.
func (s *Service) Get(id string) (*Summary, error) {
	u, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return s.summary(u), nil
}

// Entries returns the entries of an import the filter lets through.
func (s *Service) Entries(id string, filter session.Filter) ([]session.Entry, error) {
	u, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return u.session.CreateEntries(filter), nil
}

// Reconcile re-runs the reconciliation of an import, with reread reloading
// the products table first.
func (s *Service) Reconcile(ctx context.Context, id string, reread bool) (*Summary, error) {
	u, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := u.session.ReconcileImportStorage(ctx, reread); err != nil {
		return nil, err
	}
	return s.summary(u), nil
}

// Discard drops an import and its archived file.
func (s *Service) Discard(ctx context.Context, id string) error {
	u, err := s.get(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.uploads, id)
	s.mu.Unlock()

	if s.client != nil {
		object := path.Join(ArchivePrefix, id, path.Base(u.name))
		if err := s.client.RemoveObject(ctx, s.bucket, object, minio.RemoveObjectOptions{}); err != nil {
			logger.WithImport(s.logger, id, "").Warn("Failed to remove archived import", zap.String("object", object), zap.Error(err))
		}
	}
	return nil
}

// StartJob applies the selected entries of an import in the background and
// returns the job id.
func (s *Service) StartJob(ctx context.Context, id string, req JobRequest) (string, error) {
	u, err := s.get(id)
	if err != nil {
		return "", err
	}
	if s.store == nil && !req.DryRun {
		return "", ErrDatabaseDisabled
	}

	var pairs []*reconcile.Pair[models.Product]
	switch {
	case len(req.IDs) > 0:
		pairs, err = u.session.Select(req.IDs)
	case len(req.Statuses) > 0:
		pairs, err = u.session.SelectByStatus(req.Statuses...)
	default:
		pairs, err = u.session.SelectByStatus(defaultJobStatuses...)
	}
	if err != nil {
		return "", err
	}
	if len(pairs) == 0 {
		return "", ErrNothingSelected
	}

	schema := u.session.Schema()
	expected := job.Expected(reconcile.Count(schema, pairs))

	var persister job.Persister[models.Product] = nopPersister{}
	if s.store != nil {
		persister = s.store
	}

	jobID := job.Start(ctx, s.monitor, schema, pairs, expected, persister, job.Options{
		Timeout: s.cfg.JobTimeout(),
		DryRun:  req.DryRun,
		Logger:  logger.WithImport(s.logger, id, ""),
	}, func(res job.Result) {
		s.finished(id, res)
	})
	return jobID, nil
}

// finished runs on the job goroutine once a job ended.
func (s *Service) finished(importID string, res job.Result) {
	l := logger.WithImport(s.logger, importID, res.ID)
	if !res.DryRun && s.baseline != nil {
		s.baseline.Invalidate()
	}
	for _, e := range res.Errors {
		if u, err := s.get(importID); err == nil {
			u.session.AddError(e)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.archive(ctx, l, path.Join(ReportPrefix, res.ID+".md"), "text/markdown", []byte(res.Markdown()))
}

// JobStatus returns the progress of a job.
func (s *Service) JobStatus(id string) (job.Status, error) {
	return s.monitor.Status(id)
}

// JobResult returns the result of a job.
func (s *Service) JobResult(id string) (job.Result, error) {
	return s.monitor.Result(id)
}

// CancelJob asks a job to stop.
func (s *Service) CancelJob(id string) error {
	return s.monitor.Cancel(id)
}

// WaitJob blocks until a job finished.
func (s *Service) WaitJob(ctx context.Context, id string) (job.Result, error) {
	return s.monitor.Wait(ctx, id)
}

func (s *Service) archive(ctx context.Context, l *zap.Logger, object, contentType string, data []byte) {
	if s.client == nil {
		return
	}
	if err := storage.WriteObject(ctx, s.client, s.bucket, object, contentType, data); err != nil {
		l.Warn("Failed to archive object", zap.String("object", object), zap.Error(err))
		return
	}
	l.Debug("Object archived", zap.String("object", object))
}

func (s *Service) summary(u *upload) *Summary {
	return &Summary{
		ID:        u.id,
		Name:      u.name,
		CreatedAt: u.created,
		Stats:     u.stats,
		Counts:    u.session.Counts(),
		Detected:  u.session.DetectedColumns(),
		Unknown:   u.session.UnknownColumns(),
		Warnings:  u.session.Warnings(),
		Errors:    u.session.Errors(),
	}
}

// nopPersister backs dry runs when no database is configured.
type nopPersister struct{}

func (nopPersister) Insert(context.Context, *models.Product) error { return nil }

func (nopPersister) Update(context.Context, *models.Product, *models.Product) error { return nil }

func (nopPersister) Delete(context.Context, *models.Product) error { return nil }
