package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"wonderland/internal/cli/scheme/colours"
	"wonderland/internal/domain/story"
	"wonderland/internal/story/generator"

	"github.com/charmbracelet/glamour"
)

const (
	// SleepingMessage is shown when the story model cannot be reached.
	SleepingMessage = "😴 The AI is sleeping. Is the story model running?"
	// MissingWordsMessage is shown when a seed word is empty.
	MissingWordsMessage = "Please type in all 3 magic words first!"
)

// StoryWriter is the part of the generator Tell needs.
type StoryWriter interface {
	PickVibe() story.Vibe
	Generate(ctx context.Context, req story.Request) (*generator.Stream, error)
}

// TellOptions control how a story is printed.
type TellOptions struct {
	// GlamourStyle renders the closing card; "notty" for plain output.
	GlamourStyle string
	WordWrap     int
}

// Tell writes one story for words, printing fragments to w as they arrive,
// and returns the finished story.
func Tell(ctx context.Context, w io.Writer, writer StoryWriter, words story.Words, opts TellOptions) (story.Item, error) {
	if err := words.Validate(); err != nil {
		return story.Item{}, err
	}

	req := story.Request{Words: words, Vibe: writer.PickVibe()}

	colours.Title.Fprintln(w, "✨ Your Story!")
	colours.Info.Fprintln(w, "Writing... ✍️")
	fmt.Fprintln(w)

	stream, err := writer.Generate(ctx, req)
	if err != nil {
		return story.Item{}, err
	}

	text, err := stream.Each(func(fragment string) {
		colours.Fragment.Fprint(w, fragment)
	})
	if err != nil {
		fmt.Fprintln(w)
		return story.Item{}, err
	}
	fmt.Fprintln(w)

	item := story.Item{Words: words, Vibe: req.Vibe, Text: text}

	card, err := RenderCard(item, opts)
	if err != nil {
		return item, fmt.Errorf("rendering story card: %w", err)
	}
	fmt.Fprint(w, card)
	return item, nil
}

// RenderCard renders the words and vibe of a finished story as markdown.
func RenderCard(item story.Item, opts TellOptions) (string, error) {
	style := opts.GlamourStyle
	if style == "" {
		style = "notty"
	}
	ropts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if opts.WordWrap > 0 {
		ropts = append(ropts, glamour.WithWordWrap(opts.WordWrap))
	}

	r, err := glamour.NewTermRenderer(ropts...)
	if err != nil {
		return "", err
	}

	var md strings.Builder
	fmt.Fprintf(&md, "- Magic words: %s\n", strings.Join(item.Words.List(), ", "))
	fmt.Fprintf(&md, "- Vibe: %s\n", item.Vibe)

	return r.Render(md.String())
}
