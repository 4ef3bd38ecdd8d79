package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/clipbrief/clipbrief/internal/llm"
)

type fakeClient struct {
	reqs []llm.Request
	err  error
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) Complete(_ context.Context, req llm.Request) (string, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("summary-%d", len(f.reqs)), nil
}

func TestShortTranscriptSingleCall(t *testing.T) {
	client := &fakeClient{}
	s := New(client, 12000)

	out, err := s.Summarize(context.Background(), "a short transcript", StyleBrief)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(client.reqs) != 1 {
		t.Fatalf("made %d calls, want 1", len(client.reqs))
	}
	if client.reqs[0].Content != "a short transcript" {
		t.Errorf("call content = %q", client.reqs[0].Content)
	}
	if out != "summary-1" {
		t.Errorf("out = %q", out)
	}
}

func TestLongTranscriptChunksAndReduces(t *testing.T) {
	// Three paragraphs of 80 chars with a 100-char threshold → 3 chunks.
	paras := []string{
		strings.Repeat("a", 80),
		strings.Repeat("b", 80),
		strings.Repeat("c", 80),
	}
	transcript := strings.Join(paras, "\n\n")

	client := &fakeClient{}
	s := New(client, 100)

	out, err := s.Summarize(context.Background(), transcript, StyleDetailed)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	// 3 partial calls + 1 combine call.
	if len(client.reqs) != 4 {
		t.Fatalf("made %d calls, want 4", len(client.reqs))
	}
	for i := 0; i < 3; i++ {
		if !strings.Contains(client.reqs[i].System, fmt.Sprintf("part %d of 3", i+1)) {
			t.Errorf("call %d system = %q, missing part framing", i, client.reqs[i].System)
		}
		if client.reqs[i].Content != paras[i] {
			t.Errorf("call %d content = chunk %q, want paragraph %d", i, client.reqs[i].Content, i)
		}
	}

	reduce := client.reqs[3].Content
	for i := 1; i <= 3; i++ {
		label := fmt.Sprintf("Part %d:\nsummary-%d", i, i)
		if !strings.Contains(reduce, label) {
			t.Errorf("reduce input missing %q:\n%s", label, reduce)
		}
	}
	// Labeled in order 1, 2, 3.
	if strings.Index(reduce, "Part 1:") > strings.Index(reduce, "Part 2:") ||
		strings.Index(reduce, "Part 2:") > strings.Index(reduce, "Part 3:") {
		t.Errorf("partials out of order in reduce input:\n%s", reduce)
	}

	if out != "summary-4" {
		t.Errorf("out = %q, want the combine call result", out)
	}
}

func TestCallFailureAborts(t *testing.T) {
	boom := errors.New("provider down")
	client := &fakeClient{err: boom}
	s := New(client, 100)

	transcript := strings.Repeat("x", 80) + "\n\n" + strings.Repeat("y", 80)
	_, err := s.Summarize(context.Background(), transcript, StyleBrief)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped provider error", err)
	}
	if len(client.reqs) != 1 {
		t.Errorf("made %d calls after failure, want 1", len(client.reqs))
	}
}

func TestUnknownStyleFallsBackToBrief(t *testing.T) {
	client := &fakeClient{}
	s := New(client, 12000)

	if _, err := s.Summarize(context.Background(), "text", Style("haiku")); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if client.reqs[0].System != Instruction(StyleBrief) {
		t.Errorf("system = %q, want brief instruction", client.reqs[0].System)
	}
}

func TestInstructionKnownStyles(t *testing.T) {
	for _, style := range []Style{StyleBrief, StyleDetailed, StyleBullets, StyleActionItems} {
		if Instruction(style) == "" {
			t.Errorf("no instruction for %q", style)
		}
	}
	if Instruction("nope") != Instruction(StyleBrief) {
		t.Error("unknown style should resolve to brief")
	}
}
