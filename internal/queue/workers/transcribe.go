package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/clipbrief/clipbrief/internal/identity"
	"github.com/clipbrief/clipbrief/internal/queue"
	"github.com/clipbrief/clipbrief/internal/transcribe"
)

// The worker sees its collaborators through the few methods it calls so the
// pipeline and stores can be substituted in tests.

type videoPipeline interface {
	Run(ctx context.Context, video io.Reader, filename string) (*transcribe.Result, error)
}

type uploadStore interface {
	MarkProcessing(ctx context.Context, uploadID uuid.UUID) error
	Complete(ctx context.Context, uploadID uuid.UUID, transcript string) error
	Fail(ctx context.Context, uploadID uuid.UUID, reason string) error
}

type usageRecorder interface {
	RecordUsage(ctx context.Context, id identity.Identity) (int, error)
}

// Transcriber runs the transcription pipeline for spooled uploads and
// records the outcome on the upload row. Quota usage is recorded only after
// the pipeline succeeds.
type Transcriber struct {
	pipeline videoPipeline
	uploads  uploadStore
	gate     usageRecorder
}

func NewTranscriber(pipeline videoPipeline, uploadSvc uploadStore, gate usageRecorder) *Transcriber {
	return &Transcriber{pipeline: pipeline, uploads: uploadSvc, gate: gate}
}

func (w *Transcriber) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.VideoTranscribePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	uploadID, err := uuid.Parse(payload.UploadID)
	if err != nil {
		return fmt.Errorf("parse upload ID: %w", err)
	}
	requesterID, err := uuid.Parse(payload.IdentityID)
	if err != nil {
		return fmt.Errorf("parse identity ID: %w", err)
	}
	requester := identity.Identity{Kind: identity.Kind(payload.IdentityKind), ID: requesterID}

	log := slog.With("upload_id", payload.UploadID)

	if err := w.uploads.MarkProcessing(ctx, uploadID); err != nil {
		return err
	}

	result, err := w.runPipeline(ctx, payload)
	if err != nil {
		log.Error("transcription failed", "error", err)
		if failErr := w.uploads.Fail(ctx, uploadID, err.Error()); failErr != nil {
			log.Error("failed to record upload failure", "error", failErr)
		}
		return err
	}

	if err := w.uploads.Complete(ctx, uploadID, result.Transcript); err != nil {
		return err
	}

	count, err := w.gate.RecordUsage(ctx, requester)
	if err != nil {
		// The transcript is already stored; a lost count is logged, not fatal.
		log.Error("failed to record quota usage", "error", err)
	} else {
		log.Info("transcription completed",
			"segments", result.Segments,
			"dropped_segments", result.DroppedSegments,
			"uploads_used", count,
		)
	}
	return nil
}

// runPipeline streams the spooled video through the pipeline and removes
// the spool file whatever the outcome.
func (w *Transcriber) runPipeline(ctx context.Context, payload queue.VideoTranscribePayload) (*transcribe.Result, error) {
	f, err := os.Open(payload.SpoolPath)
	if err != nil {
		return nil, fmt.Errorf("open spooled video: %w", err)
	}
	defer func() {
		f.Close()
		if err := os.Remove(payload.SpoolPath); err != nil {
			slog.Warn("failed to remove spool file", "path", payload.SpoolPath, "error", err)
		}
	}()

	return w.pipeline.Run(ctx, io.Reader(f), payload.Filename)
}
