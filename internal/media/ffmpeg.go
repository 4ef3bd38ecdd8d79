// Package media wraps the ffmpeg toolchain for audio extraction and
// segmentation.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ProcessingError covers toolchain failures: ffmpeg missing, or input the
// toolchain cannot read.
type ProcessingError struct {
	Reason string
	Err    error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("media processing: %s: %v", e.Reason, e.Err)
	}
	return "media processing: " + e.Reason
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Extractor turns a video file into ordered audio segment files.
type Extractor interface {
	ExtractSegments(ctx context.Context, videoPath, outDir string, segmentSeconds int) ([]string, error)
}

// FFmpeg shells out to the ffmpeg binary.
type FFmpeg struct {
	bin string
}

func NewFFmpeg(bin string) *FFmpeg {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpeg{bin: bin}
}

// ExtractSegments extracts a mono 16kHz 64kbps audio track split into
// fixed-duration mp3 segments. Segment filenames sort lexicographically in
// temporal order (chunk-000.mp3, chunk-001.mp3, ...), with timestamps reset
// per segment.
func (f *FFmpeg) ExtractSegments(ctx context.Context, videoPath, outDir string, segmentSeconds int) ([]string, error) {
	if _, err := exec.LookPath(f.bin); err != nil {
		return nil, &ProcessingError{Reason: "ffmpeg not found", Err: err}
	}

	pattern := filepath.Join(outDir, "chunk-%03d.mp3")
	args := []string{
		"-y",
		"-i", videoPath,
		"-vn", // audio only
		"-ac", "1",
		"-ar", "16000",
		"-b:a", "64k",
		"-f", "segment",
		"-segment_time", strconv.Itoa(segmentSeconds),
		"-reset_timestamps", "1",
		pattern,
	}

	if err := f.run(ctx, args); err != nil {
		return nil, &ProcessingError{Reason: "extract audio segments", Err: err}
	}

	segments, err := filepath.Glob(filepath.Join(outDir, "chunk-*.mp3"))
	if err != nil {
		return nil, &ProcessingError{Reason: "list segments", Err: err}
	}
	sort.Strings(segments)
	return segments, nil
}

func (f *FFmpeg) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, f.bin, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", f.bin, err, tail(msg, 500))
		}
		return fmt.Errorf("%s: %w", f.bin, err)
	}
	return nil
}

// tail keeps the last n bytes of ffmpeg's stderr, which is where the actual
// failure reason appears.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
