package workers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/clipbrief/clipbrief/internal/identity"
	"github.com/clipbrief/clipbrief/internal/queue"
	"github.com/clipbrief/clipbrief/internal/transcribe"
)

type fakePipeline struct {
	result *transcribe.Result
	err    error
}

func (f *fakePipeline) Run(_ context.Context, _ io.Reader, _ string) (*transcribe.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeUploads struct {
	status     string
	transcript string
	failReason string
}

func (f *fakeUploads) MarkProcessing(context.Context, uuid.UUID) error {
	f.status = "processing"
	return nil
}

func (f *fakeUploads) Complete(_ context.Context, _ uuid.UUID, transcript string) error {
	f.status = "completed"
	f.transcript = transcript
	return nil
}

func (f *fakeUploads) Fail(_ context.Context, _ uuid.UUID, reason string) error {
	f.status = "failed"
	f.failReason = reason
	return nil
}

type fakeGate struct {
	increments int
}

func (f *fakeGate) RecordUsage(context.Context, identity.Identity) (int, error) {
	f.increments++
	return f.increments, nil
}

func spoolFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.mp4")
	if err := os.WriteFile(path, []byte("video bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTranscribeTask(t *testing.T, spoolPath string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(queue.VideoTranscribePayload{
		UploadID:     uuid.NewString(),
		IdentityKind: string(identity.KindVisitor),
		IdentityID:   uuid.NewString(),
		Filename:     "talk.mp4",
		SpoolPath:    spoolPath,
	})
	if err != nil {
		t.Fatal(err)
	}
	return asynq.NewTask(queue.TypeVideoTranscribe, payload)
}

func TestProcessTaskSuccessRecordsUsageOnce(t *testing.T) {
	uploadsStore := &fakeUploads{}
	gate := &fakeGate{}
	tr := NewTranscriber(
		&fakePipeline{result: &transcribe.Result{Transcript: "hello there", Segments: 2}},
		uploadsStore,
		gate,
	)

	if err := tr.ProcessTask(context.Background(), newTranscribeTask(t, spoolFile(t))); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	if uploadsStore.status != "completed" {
		t.Errorf("upload status = %q, want completed", uploadsStore.status)
	}
	if uploadsStore.transcript != "hello there" {
		t.Errorf("stored transcript = %q", uploadsStore.transcript)
	}
	if gate.increments != 1 {
		t.Errorf("usage recorded %d times, want exactly 1", gate.increments)
	}
}

func TestProcessTaskFailureLeavesQuotaUntouched(t *testing.T) {
	pipelineErr := errors.New("ffmpeg exploded")
	uploadsStore := &fakeUploads{}
	gate := &fakeGate{}
	tr := NewTranscriber(&fakePipeline{err: pipelineErr}, uploadsStore, gate)

	err := tr.ProcessTask(context.Background(), newTranscribeTask(t, spoolFile(t)))
	if !errors.Is(err, pipelineErr) {
		t.Fatalf("ProcessTask error = %v, want pipeline failure", err)
	}
	if gate.increments != 0 {
		t.Errorf("usage recorded %d times on failure, want 0", gate.increments)
	}
	if uploadsStore.status != "failed" {
		t.Errorf("upload status = %q, want failed", uploadsStore.status)
	}
	if uploadsStore.failReason == "" {
		t.Error("failure reason not recorded on upload")
	}
}

func TestProcessTaskRemovesSpoolFile(t *testing.T) {
	path := spoolFile(t)
	tr := NewTranscriber(
		&fakePipeline{result: &transcribe.Result{Transcript: "ok", Segments: 1}},
		&fakeUploads{},
		&fakeGate{},
	)

	if err := tr.ProcessTask(context.Background(), newTranscribeTask(t, path)); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("spool file still present after processing: %v", err)
	}
}
