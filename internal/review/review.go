package review

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

type Mode string

const (
	ModeCompletion Mode = "completion"
	ModeReview     Mode = "review"
)

// ModeFor picks completion mode when there is no content to review.
func ModeFor(content string) Mode {
	if strings.TrimSpace(content) == "" {
		return ModeCompletion
	}
	return ModeReview
}

type Input struct {
	Title    string
	Category string
	Content  string
}

// Gateway turns an item draft into an advisory Result. It never fails: any
// upstream problem is logged and replaced by a fixed per-mode payload.
type Gateway struct {
	Client Completer
}

// outcome separates an upstream payload from the reason it is unusable.
type outcome struct {
	payload map[string]any
	err     error
}

func (g *Gateway) Review(ctx context.Context, in Input) Result {
	mode := ModeFor(in.Content)
	log.Printf("review: mode=%s title=%q category=%q", mode, in.Title, in.Category)

	out := g.ask(ctx, mode, in)
	if out.err != nil {
		log.Printf("review: using fallback (mode=%s): %v", mode, out.err)
		return Normalize(Fallback(mode))
	}
	return Normalize(out.payload)
}

func (g *Gateway) ask(ctx context.Context, mode Mode, in Input) outcome {
	if g.Client == nil {
		return outcome{err: ErrNoAPIKey}
	}

	prompt, err := renderPrompt(mode, promptData{Title: in.Title, Category: in.Category, Content: in.Content})
	if err != nil {
		return outcome{err: fmt.Errorf("rendering prompt: %w", err)}
	}

	text, err := g.Client.Complete(ctx, prompt)
	if err != nil {
		return outcome{err: err}
	}

	span, err := ExtractJSON(text)
	if err != nil {
		return outcome{err: fmt.Errorf("%w (reply starts %q)", err, truncate(text, 200))}
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return outcome{err: fmt.Errorf("parsing AI JSON: %w", err)}
	}
	return outcome{payload: payload}
}

// Fallback is the canned payload used when the upstream call fails.
func Fallback(mode Mode) map[string]any {
	if mode == ModeCompletion {
		return map[string]any{
			"categoryScore":      85,
			"contentStatus":      "perfect",
			"contentStatusLabel": "AI completion",
			"suggestions":        "AI drafted content for you. Apply the suggestion to view it, or edit manually and retry if it is not what you need.",
			"shouldUpdate":       false,
			"suggestedCategory":  nil,
			"suggestedContent":   "The AI service could not generate content right now. Enter the content manually or try again later.",
			"suggestedTitle":     nil,
		}
	}
	return map[string]any{
		"categoryScore":      70,
		"contentStatus":      "fresh",
		"contentStatusLabel": "Content looks good",
		"suggestions":        "The content looks fine and can be used as is. Edit manually if you have specific improvements in mind.",
		"shouldUpdate":       false,
		"suggestedCategory":  nil,
		"suggestedContent":   nil,
		"suggestedTitle":     nil,
	}
}
