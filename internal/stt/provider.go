package stt

import "context"

// Transcriber converts one audio segment file to text. Implementations make
// exactly one call per segment; callers decide what a failure aborts.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
	Name() string
}
