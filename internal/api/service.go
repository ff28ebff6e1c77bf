package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/semaphore"

	"rsvpd/internal/config"
	"rsvpd/internal/extract"
	"rsvpd/internal/fileutil"
	"rsvpd/internal/jobs"
	"rsvpd/internal/logging"
	"rsvpd/internal/services"
	"rsvpd/internal/services/ffmpeg"
	"rsvpd/internal/worker"
)

// Service is the operations surface over the job system: it owns upload
// persistence, the bounded worker pool, and the single-instance data
// directory lock. One Service per process.
type Service struct {
	cfg      *config.Config
	store    jobs.Store
	manager  *jobs.Manager
	pipeline *worker.Pipeline
	logger   *slog.Logger

	lockPath string
	lock     *flock.Flock

	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	bgCtx  context.Context
	cancel context.CancelFunc
}

// Option configures the service.
type Option func(*options)

type options struct {
	store   jobs.Store
	encoder ffmpeg.Encoder
}

// WithStore injects a job store (primarily for tests).
func WithStore(store jobs.Store) Option {
	return func(o *options) {
		if store != nil {
			o.store = store
		}
	}
}

// WithEncoder injects an encoder (primarily for tests).
func WithEncoder(encoder ffmpeg.Encoder) Option {
	return func(o *options) {
		if encoder != nil {
			o.encoder = encoder
		}
	}
}

// Open prepares directories, takes the instance lock, opens the store, and
// starts the worker pool. Callers must Close the service when done.
func Open(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "open", "config required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "open", "ensure directories", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "rsvpd.lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "api", "open", "acquire instance lock", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConflict, "api", "open",
			"another rsvpd instance is using this data directory", nil)
	}

	store := o.store
	if store == nil {
		sqlite, err := jobs.NewSQLiteStore(cfg.DatabasePath())
		if err != nil {
			_ = lock.Unlock()
			return nil, services.Wrap(services.ErrStorage, "api", "open", "open job store", err)
		}
		store = sqlite
	}

	encoder := o.encoder
	if encoder == nil {
		client, err := ffmpeg.New("ffmpeg", 0)
		if err != nil {
			_ = store.Close()
			_ = lock.Unlock()
			return nil, err
		}
		encoder = client
	}

	manager := jobs.NewManager(store)
	bgCtx, cancel := context.WithCancel(context.Background())
	svc := &Service{
		cfg:      cfg,
		store:    store,
		manager:  manager,
		pipeline: worker.New(manager, encoder, cfg, logger),
		logger:   logger,
		lockPath: lockPath,
		lock:     lock,
		sem:      semaphore.NewWeighted(int64(cfg.Limits.MaxConcurrentJobs)),
		bgCtx:    bgCtx,
		cancel:   cancel,
	}
	logger.Info("service opened",
		logging.String("data_dir", cfg.Paths.DataDir),
		logging.Int("max_concurrent_jobs", cfg.Limits.MaxConcurrentJobs))
	return svc, nil
}

// Close waits for in-flight jobs, then releases the store and lock.
func (s *Service) Close() error {
	s.wg.Wait()
	s.cancel()
	err := s.store.Close()
	if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
		err = unlockErr
	}
	return err
}

// Wait blocks until every submitted job has reached a terminal state.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Submit validates and copies the document into the uploads directory,
// creates a PENDING job, and hands it to the worker pool.
func (s *Service) Submit(ctx context.Context, sourcePath string, params jobs.VideoParams) (*jobs.Job, error) {
	filename := filepath.Base(sourcePath)
	if !extract.Supported(filename) {
		return nil, services.Wrap(services.ErrValidation, "api", "submit",
			fmt.Sprintf("unsupported file extension %q (allowed: %v)",
				filepath.Ext(filename), extract.SupportedExtensions), nil)
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "api", "submit",
			fmt.Sprintf("reading %s", sourcePath), err)
	}
	if maxBytes := int64(s.cfg.Limits.MaxUploadMB) * 1024 * 1024; info.Size() > maxBytes {
		return nil, services.Wrap(services.ErrValidation, "api", "submit",
			fmt.Sprintf("file is %d bytes, limit is %d MB", info.Size(), s.cfg.Limits.MaxUploadMB), nil)
	}

	job, err := s.manager.Create(ctx, filename, "", params)
	if err != nil {
		return nil, err
	}

	uploadPath := filepath.Join(s.cfg.UploadsDir(), job.ID+"_"+filename)
	if err := fileutil.CopyFile(sourcePath, uploadPath); err != nil {
		_, _ = s.manager.Delete(ctx, job.ID)
		return nil, services.Wrap(services.ErrStorage, "api", "submit", "storing upload", err)
	}
	job, err = s.manager.Update(ctx, job.ID, func(j *jobs.Job) {
		j.UploadPath = uploadPath
	})
	if err != nil {
		return nil, err
	}

	s.spawn(job.ID)
	s.logger.Info("job submitted",
		logging.String(logging.FieldJobID, job.ID),
		logging.String("filename", filename))
	return job, nil
}

// spawn runs the job on the bounded pool.
func (s *Service) spawn(jobID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.sem.Acquire(s.bgCtx, 1); err != nil {
			s.logger.Warn("worker pool shut down before job ran",
				logging.String(logging.FieldJobID, jobID), logging.Error(err))
			return
		}
		defer s.sem.Release(1)
		_ = s.pipeline.Run(s.bgCtx, jobID)
	}()
}

// Query returns the current job record.
func (s *Service) Query(ctx context.Context, jobID string) (*jobs.Job, error) {
	return s.manager.Get(ctx, jobID)
}

// List returns jobs newest first along with the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*jobs.Job, int, error) {
	return s.manager.List(ctx, limit, offset)
}

// Delete removes the job record, its upload, and its output directory.
func (s *Service) Delete(ctx context.Context, jobID string) error {
	job, err := s.manager.Get(ctx, jobID)
	if err != nil {
		return err
	}
	removed, err := s.manager.Delete(ctx, jobID)
	if err != nil {
		return err
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, "api", "delete",
			fmt.Sprintf("job %s not found", jobID), nil)
	}

	if job.UploadPath != "" {
		if err := os.Remove(job.UploadPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("upload cleanup failed",
				logging.String(logging.FieldJobID, jobID), logging.Error(err))
		}
	}
	if err := os.RemoveAll(filepath.Join(s.cfg.OutputsDir(), jobID)); err != nil {
		s.logger.Warn("output cleanup failed",
			logging.String(logging.FieldJobID, jobID), logging.Error(err))
	}
	return nil
}

// FetchOutput resolves an output name to its path after checking that the
// name belongs to the job and the file exists.
func (s *Service) FetchOutput(ctx context.Context, jobID, name string) (string, error) {
	job, err := s.manager.Get(ctx, jobID)
	if err != nil {
		return "", err
	}
	member := false
	for _, candidate := range job.OutputFiles {
		if candidate == name {
			member = true
			break
		}
	}
	if !member {
		return "", services.Wrap(services.ErrNotFound, "api", "fetch_output",
			fmt.Sprintf("output %q is not part of job %s", name, jobID), nil)
	}
	path := filepath.Join(s.cfg.OutputsDir(), jobID, name)
	if _, err := os.Stat(path); err != nil {
		return "", services.Wrap(services.ErrNotFound, "api", "fetch_output",
			fmt.Sprintf("output %q missing on disk", name), err)
	}
	return path, nil
}

// Prune deletes terminal jobs older than the retention window and their
// artifacts, returning how many were removed. Live jobs are never touched.
func (s *Service) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	listed, _, err := s.manager.List(ctx, 0, 0)
	if err != nil {
		return 0, err
	}

	pruned := 0
	for _, job := range listed {
		if !job.Status.IsTerminal() {
			continue
		}
		reference := job.CreatedAt
		if job.CompletedAt != nil {
			reference = *job.CompletedAt
		}
		if !reference.Before(cutoff) {
			continue
		}
		if err := s.Delete(ctx, job.ID); err != nil {
			s.logger.Warn("prune delete failed",
				logging.String(logging.FieldJobID, job.ID), logging.Error(err))
			continue
		}
		pruned++
	}
	if pruned > 0 {
		s.logger.Info("pruned jobs", logging.Int("count", pruned))
	}
	return pruned, nil
}

// Generate runs the pipeline synchronously against a local file, bypassing
// the job system entirely.
func (s *Service) Generate(ctx context.Context, inputPath, outputDir string, params jobs.VideoParams) ([]string, error) {
	return s.pipeline.Generate(ctx, inputPath, outputDir, params)
}
