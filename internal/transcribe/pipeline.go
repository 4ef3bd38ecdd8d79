// Package transcribe runs the upload-to-transcript pipeline: persist the
// video, split its audio into fixed-duration segments, transcribe each
// segment in order, and join the results.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/clipbrief/clipbrief/internal/media"
	"github.com/clipbrief/clipbrief/internal/stt"
	"github.com/clipbrief/clipbrief/pkg/chunker"
)

// ErrEmptyMedia means the input produced zero audio segments (degenerate or
// zero-length video).
var ErrEmptyMedia = errors.New("no audio segments extracted")

// Placeholder replaces the transcript when every segment came back empty.
const Placeholder = "[no speech detected]"

// Result is one finished transcription.
type Result struct {
	Transcript      string
	Segments        int
	DroppedSegments int // segments whose transcript was empty
}

type Pipeline struct {
	extractor      media.Extractor
	transcriber    stt.Transcriber
	segmentSeconds int
	maxChars       int
	workDir        string
}

// NewPipeline wires the media extractor and transcription backend.
// segmentSeconds and maxChars fall back to 600 and 200000.
func NewPipeline(extractor media.Extractor, transcriber stt.Transcriber, segmentSeconds, maxChars int, workDir string) *Pipeline {
	if segmentSeconds <= 0 {
		segmentSeconds = 600
	}
	if maxChars <= 0 {
		maxChars = 200000
	}
	return &Pipeline{
		extractor:      extractor,
		transcriber:    transcriber,
		segmentSeconds: segmentSeconds,
		maxChars:       maxChars,
		workDir:        workDir,
	}
}

// Run transcribes one uploaded video. All intermediate files live in a
// request-scoped temp dir removed on every exit path; removal failures are
// logged, never surfaced. Any segment transcription failure aborts with the
// original error and discards completed segments.
func (p *Pipeline) Run(ctx context.Context, video io.Reader, filename string) (*Result, error) {
	dir, err := os.MkdirTemp(p.workDir, "clipbrief-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("failed to remove work dir", "dir", dir, "error", err)
		}
	}()

	videoPath, err := p.saveVideo(video, filename, dir)
	if err != nil {
		return nil, err
	}

	segments, err := p.extractor.ExtractSegments(ctx, videoPath, dir, p.segmentSeconds)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, ErrEmptyMedia
	}

	// Segment filenames sort lexicographically in temporal order; the
	// extractor returns them sorted, so transcript order follows.
	texts := make([]string, 0, len(segments))
	dropped := 0
	for _, seg := range segments {
		text, err := p.transcriber.Transcribe(ctx, seg)
		if err != nil {
			return nil, fmt.Errorf("transcribe %s: %w", filepath.Base(seg), err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			dropped++
			continue
		}
		texts = append(texts, text)
	}

	if dropped > 0 {
		slog.Warn("segments produced empty transcripts", "dropped", dropped, "total", len(segments))
	}

	transcript := strings.Join(texts, "\n\n")
	if transcript == "" {
		transcript = Placeholder
	}

	transcript = p.capSize(transcript)

	return &Result{
		Transcript:      transcript,
		Segments:        len(segments),
		DroppedSegments: dropped,
	}, nil
}

func (p *Pipeline) saveVideo(video io.Reader, filename, dir string) (string, error) {
	videoPath := filepath.Join(dir, "upload"+filepath.Ext(filename))
	out, err := os.Create(videoPath)
	if err != nil {
		return "", fmt.Errorf("create video file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, video); err != nil {
		return "", fmt.Errorf("persist video: %w", err)
	}
	return videoPath, nil
}

// capSize bounds an over-long transcript at a paragraph boundary. Segments
// are joined with blank lines, so cutting and rejoining on paragraphs keeps
// the separators between surviving segments intact. A leading paragraph
// bigger than the cap is cut on line boundaries instead. Within the limit
// the transcript passes through untouched.
func (p *Pipeline) capSize(transcript string) string {
	if len(transcript) <= p.maxChars {
		return transcript
	}

	capped := joinWithin(chunker.Chunk(transcript, p.maxChars, chunker.ByParagraph), "\n\n", p.maxChars)
	if len(capped) > p.maxChars {
		capped = joinWithin(chunker.Chunk(capped, p.maxChars, chunker.ByLine), "\n", p.maxChars)
	}

	slog.Warn("transcript truncated to size cap", "max_chars", p.maxChars, "original_chars", len(transcript))
	return capped
}

// joinWithin rejoins leading chunks while the joined length stays within
// max. At least one chunk is always kept, so a single oversized unit passes
// through whole.
func joinWithin(chunks []string, sep string, max int) string {
	var b strings.Builder
	for i, c := range chunks {
		add := len(c)
		if i > 0 {
			add += len(sep)
		}
		if b.Len()+add > max && b.Len() > 0 {
			break
		}
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(c)
	}
	return b.String()
}
