package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"

	"wonderland/internal/domain/story"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
)

// ErrServiceUnavailable is returned when the language model cannot be
// reached or fails while streaming.
var ErrServiceUnavailable = errors.New("story service unavailable")

// ErrStreamClosed is returned by Next after Close.
var ErrStreamClosed = errors.New("story stream closed")

const promptFormat = "Write a funny story (max 75 words) for kids using: %s, %s, %s. Style: %s. End with a punchline!"

// Prompt builds the model prompt for a request.
func Prompt(req story.Request) string {
	return fmt.Sprintf(promptFormat, req.Words.First, req.Words.Second, req.Words.Third, req.Vibe)
}

// Generator asks a chat model for short kids' stories.
type Generator struct {
	model model.BaseChatModel
	log   logrus.FieldLogger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the source vibes are drawn from.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = r
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

func New(m model.BaseChatModel, opts ...Option) *Generator {
	g := &Generator{
		model: m,
		log:   logrus.StandardLogger(),
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// PickVibe draws a fresh vibe. Every generation should call it again.
func (g *Generator) PickVibe() story.Vibe {
	g.mu.Lock()
	defer g.mu.Unlock()
	return story.Vibes[g.rng.IntN(len(story.Vibes))]
}

// Generate starts a streaming generation for req. The returned stream must
// be drained or closed by the caller.
func (g *Generator) Generate(ctx context.Context, req story.Request) (*Stream, error) {
	log := g.log.WithFields(logrus.Fields{
		"vibe":  req.Vibe,
		"words": req.Words.List(),
	})
	log.Debug("requesting story")

	messages := []*schema.Message{
		{Role: schema.User, Content: Prompt(req)},
	}

	reader, err := g.model.Stream(ctx, messages)
	if err != nil {
		log.WithError(err).Warn("story model unavailable")
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}

	return &Stream{reader: reader, log: log}, nil
}

// Stream is a one-shot sequence of story fragments. It cannot be restarted;
// generating again issues a new request.
type Stream struct {
	reader *schema.StreamReader[*schema.Message]
	log    logrus.FieldLogger

	fragments int
	length    int
	err       error
}

// Next returns the next non-empty fragment, io.EOF once the story is
// complete, or an error matching ErrServiceUnavailable. Terminal results
// repeat on later calls.
func (s *Stream) Next() (string, error) {
	if s.err != nil {
		return "", s.err
	}

	for {
		chunk, err := s.reader.Recv()
		if errors.Is(err, io.EOF) {
			s.finish(io.EOF)
			s.log.WithFields(logrus.Fields{
				"fragments": s.fragments,
				"length":    s.length,
			}).Debug("story complete")
			return "", io.EOF
		}
		if err != nil {
			s.log.WithError(err).Warn("story stream failed")
			s.finish(fmt.Errorf("%w: %w", ErrServiceUnavailable, err))
			return "", s.err
		}

		if chunk == nil || chunk.Content == "" {
			continue
		}

		s.fragments++
		s.length += len(chunk.Content)
		return chunk.Content, nil
	}
}

// Each drains the stream, calling fn with every fragment in arrival order,
// and returns the whole story.
func (s *Stream) Each(fn func(fragment string)) (string, error) {
	defer s.Close()

	var text []byte
	for {
		fragment, err := s.Next()
		if errors.Is(err, io.EOF) {
			return string(text), nil
		}
		if err != nil {
			return "", err
		}
		text = append(text, fragment...)
		if fn != nil {
			fn(fragment)
		}
	}
}

// Close releases the underlying reader.
func (s *Stream) Close() {
	if s.err == nil {
		s.finish(ErrStreamClosed)
	}
}

func (s *Stream) finish(err error) {
	s.err = err
	s.reader.Close()
}
