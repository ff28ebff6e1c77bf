package api

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rsvpd/internal/config"
	"rsvpd/internal/jobs"
	"rsvpd/internal/services"
)

type stubEncoder struct {
	perFile float64
}

func (s *stubEncoder) EncodeConcat(_ context.Context, _, outputPath string, _ int, _ func(string)) error {
	return os.WriteFile(outputPath, []byte("mp4"), 0o644)
}

func (s *stubEncoder) ProbeDuration(context.Context, string) (float64, error) {
	return s.perFile, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	return &cfg
}

func openService(t *testing.T, cfg *config.Config, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{
		WithStore(jobs.NewMemoryStore()),
		WithEncoder(&stubEncoder{perFile: 3}),
	}, opts...)
	svc, err := Open(cfg, nil, opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func smallParams() jobs.VideoParams {
	params := jobs.DefaultParams()
	params.Width = 640
	params.Height = 480
	params.FontSize = 32
	return params
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestSubmitRunsJobToCompletion(t *testing.T) {
	cfg := testConfig(t)
	svc := openService(t, cfg)
	source := writeSource(t, "memo.txt", "Meetings could have been a short video instead.")

	job, err := svc.Submit(context.Background(), source, smallParams())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job.Filename != "memo.txt" {
		t.Errorf("filename = %q", job.Filename)
	}
	wantUpload := filepath.Join(cfg.UploadsDir(), job.ID+"_memo.txt")
	if job.UploadPath != wantUpload {
		t.Errorf("upload_path = %q, want %q", job.UploadPath, wantUpload)
	}
	if _, err := os.Stat(wantUpload); err != nil {
		t.Errorf("upload file: %v", err)
	}

	svc.Wait()

	got, err := svc.Query(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got.Status != jobs.StatusCompleted {
		t.Fatalf("status = %s, error = %q", got.Status, got.ErrorMessage)
	}
	if len(got.OutputFiles) != 1 || got.OutputFiles[0] != "memo.mp4" {
		t.Errorf("output_files = %v", got.OutputFiles)
	}
}

func TestSubmitRejectsUnsupportedExtension(t *testing.T) {
	svc := openService(t, testConfig(t))
	source := writeSource(t, "notes.docx", "irrelevant")
	_, err := svc.Submit(context.Background(), source, smallParams())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSubmitRejectsMissingFile(t *testing.T) {
	svc := openService(t, testConfig(t))
	_, err := svc.Submit(context.Background(), filepath.Join(t.TempDir(), "ghost.txt"), smallParams())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSubmitRejectsOversizedFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Limits.MaxUploadMB = 1
	svc := openService(t, cfg)

	path := filepath.Join(t.TempDir(), "big.txt")
	if err := os.WriteFile(path, make([]byte, 2*1024*1024), 0o644); err != nil {
		t.Fatalf("write big file: %v", err)
	}
	_, err := svc.Submit(context.Background(), path, smallParams())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSubmitRejectsInvalidParams(t *testing.T) {
	svc := openService(t, testConfig(t))
	source := writeSource(t, "memo.txt", "content")
	params := smallParams()
	params.StartWPM = 0
	_, err := svc.Submit(context.Background(), source, params)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestOpenRefusesSecondInstance(t *testing.T) {
	cfg := testConfig(t)
	openService(t, cfg)
	_, err := Open(cfg, nil, WithStore(jobs.NewMemoryStore()), WithEncoder(&stubEncoder{}))
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestDeleteRemovesRecordAndArtifacts(t *testing.T) {
	cfg := testConfig(t)
	svc := openService(t, cfg)
	source := writeSource(t, "memo.txt", "Short memo for deletion.")

	ctx := context.Background()
	job, err := svc.Submit(ctx, source, smallParams())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	svc.Wait()

	outputDir := filepath.Join(cfg.OutputsDir(), job.ID)
	if err := svc.Delete(ctx, job.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Query(ctx, job.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := os.Stat(job.UploadPath); !os.IsNotExist(err) {
		t.Errorf("upload still present: %v", err)
	}
	if _, err := os.Stat(outputDir); !os.IsNotExist(err) {
		t.Errorf("output dir still present: %v", err)
	}
}

func TestDeleteMissingJob(t *testing.T) {
	svc := openService(t, testConfig(t))
	if err := svc.Delete(context.Background(), "deadbeef"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchOutput(t *testing.T) {
	cfg := testConfig(t)
	svc := openService(t, cfg)
	source := writeSource(t, "memo.txt", "Fetch this rendered output.")

	ctx := context.Background()
	job, err := svc.Submit(ctx, source, smallParams())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	svc.Wait()

	path, err := svc.FetchOutput(ctx, job.ID, "memo.mp4")
	if err != nil {
		t.Fatalf("FetchOutput: %v", err)
	}
	if want := filepath.Join(cfg.OutputsDir(), job.ID, "memo.mp4"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	if _, err := svc.FetchOutput(ctx, job.ID, "other.mp4"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("non-member output: expected ErrNotFound, got %v", err)
	}

	// Membership holds but the file is gone from disk.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove output: %v", err)
	}
	if _, err := svc.FetchOutput(ctx, job.ID, "memo.mp4"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing file: expected ErrNotFound, got %v", err)
	}
}

func TestPruneRemovesOnlyOldTerminalJobs(t *testing.T) {
	cfg := testConfig(t)
	store := jobs.NewMemoryStore()
	ctx := context.Background()

	now := time.Now().UTC()
	old := now.Add(-48 * time.Hour)
	put := func(id string, status jobs.Status, completed *time.Time, created time.Time) {
		t.Helper()
		if err := store.Put(ctx, &jobs.Job{
			ID:          id,
			Status:      status,
			Filename:    "doc.txt",
			Params:      jobs.DefaultParams(),
			CreatedAt:   created,
			CompletedAt: completed,
		}); err != nil {
			t.Fatalf("Put %s: %v", id, err)
		}
	}
	put("oldcompl", jobs.StatusCompleted, &old, old)
	put("oldfail0", jobs.StatusFailed, nil, old) // never started, judged by created_at
	put("newcompl", jobs.StatusCompleted, &now, now)
	put("livejob0", jobs.StatusProcessing, nil, old)

	svc := openService(t, cfg, WithStore(store))
	pruned, err := svc.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 2 {
		t.Fatalf("pruned = %d, want 2", pruned)
	}
	for _, id := range []string{"newcompl", "livejob0"} {
		if _, err := svc.Query(ctx, id); err != nil {
			t.Errorf("job %s should survive: %v", id, err)
		}
	}
	for _, id := range []string{"oldcompl", "oldfail0"} {
		if _, err := svc.Query(ctx, id); !errors.Is(err, services.ErrNotFound) {
			t.Errorf("job %s should be pruned, got %v", id, err)
		}
	}
}

func TestListNewestFirstWithTotal(t *testing.T) {
	cfg := testConfig(t)
	svc := openService(t, cfg)
	ctx := context.Background()

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		source := writeSource(t, name, "some words to read")
		if _, err := svc.Submit(ctx, source, smallParams()); err != nil {
			t.Fatalf("Submit %s: %v", name, err)
		}
	}
	svc.Wait()

	listed, total, err := svc.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(listed) != 2 {
		t.Fatalf("total = %d, len = %d", total, len(listed))
	}
}
