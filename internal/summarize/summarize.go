// Package summarize turns a transcript into a single summary. Short
// transcripts take one LLM call; long ones are chunk-summarized and then
// combined with a final reduce call.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/clipbrief/clipbrief/internal/llm"
	"github.com/clipbrief/clipbrief/pkg/chunker"
)

type Summarizer struct {
	client     llm.Client
	chunkChars int
}

// New builds a Summarizer. chunkChars falls back to 12000.
func New(client llm.Client, chunkChars int) *Summarizer {
	if chunkChars <= 0 {
		chunkChars = 12000
	}
	return &Summarizer{client: client, chunkChars: chunkChars}
}

// Summarize produces one summary in the requested style. Any call failure
// aborts the whole run; partial summaries are never returned.
func (s *Summarizer) Summarize(ctx context.Context, transcript string, style Style) (string, error) {
	instruction := Instruction(style)

	chunks := chunker.Chunk(transcript, s.chunkChars, chunker.ByParagraph)
	if len(chunks) <= 1 {
		out, err := s.client.Complete(ctx, llm.Request{
			System:  instruction,
			Content: transcript,
		})
		if err != nil {
			return "", fmt.Errorf("summarize: %w", err)
		}
		return out, nil
	}

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		out, err := s.client.Complete(ctx, llm.Request{
			System: fmt.Sprintf("%s\n\nThis is part %d of %d of the transcript; summarize only this part.",
				instruction, i+1, len(chunks)),
			Content: chunk,
		})
		if err != nil {
			return "", fmt.Errorf("summarize part %d of %d: %w", i+1, len(chunks), err)
		}
		partials = append(partials, out)
	}

	combined, err := s.client.Complete(ctx, llm.Request{
		System: fmt.Sprintf("%s\n\nThe following are summaries of %d consecutive parts of one transcript. Combine them into a single coherent result without repeating yourself.",
			instruction, len(partials)),
		Content: labelPartials(partials),
	})
	if err != nil {
		return "", fmt.Errorf("combine partial summaries: %w", err)
	}
	return combined, nil
}

func labelPartials(partials []string) string {
	var sb strings.Builder
	for i, p := range partials {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Part %d:\n%s", i+1, p)
	}
	return sb.String()
}
