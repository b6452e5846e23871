package generator

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"testing"

	"wonderland/internal/domain/story"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// fakeModel streams canned chunks and records what it was asked.
type fakeModel struct {
	chunks    []*schema.Message
	midErr    error
	streamErr error

	streamed [][]*schema.Message
}

var _ model.BaseChatModel = (*fakeModel)(nil)

func (f *fakeModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return nil, errors.New("generate should not be used")
}

func (f *fakeModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	f.streamed = append(f.streamed, input)
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	if f.midErr == nil {
		return schema.StreamReaderFromArray(f.chunks), nil
	}

	sr, sw := schema.Pipe[*schema.Message](len(f.chunks) + 1)
	for _, c := range f.chunks {
		sw.Send(c, nil)
	}
	sw.Send(nil, f.midErr)
	sw.Close()
	return sr, nil
}

func chunks(parts ...string) []*schema.Message {
	out := make([]*schema.Message, len(parts))
	for i, p := range parts {
		out[i] = &schema.Message{Role: schema.Assistant, Content: p}
	}
	return out
}

func quietLogger() logrus.FieldLogger {
	log, _ := logtest.NewNullLogger()
	return log
}

var words = story.Words{First: "Robot", Second: "Pizza", Third: "Moon"}

func TestPrompt(t *testing.T) {
	got := Prompt(story.Request{Words: words, Vibe: story.VibeRhyming})
	want := "Write a funny story (max 75 words) for kids using: Robot, Pizza, Moon. Style: rhyming. End with a punchline!"
	if got != want {
		t.Errorf("Prompt() =\n%q\nwant\n%q", got, want)
	}
	if Prompt(story.Request{Words: words, Vibe: story.VibeRhyming}) != got {
		t.Error("prompt must be deterministic")
	}
}

func TestGenerateStreamsFragments(t *testing.T) {
	m := &fakeModel{chunks: chunks("Once", " upon", "", " a time.")}
	g := New(m, WithLogger(quietLogger()))

	stream, err := g.Generate(context.Background(), story.Request{Words: words, Vibe: story.VibeSilly})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var got []string
	for {
		fragment, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		got = append(got, fragment)
	}

	want := []string{"Once", " upon", " a time."}
	if len(got) != len(want) {
		t.Fatalf("fragments = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fragment %d = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := stream.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after completion = %v, want io.EOF", err)
	}

	if len(m.streamed) != 1 {
		t.Fatalf("model streamed %d times, want 1", len(m.streamed))
	}
	sent := m.streamed[0]
	if len(sent) != 1 || sent[0].Role != schema.User {
		t.Fatalf("sent messages = %+v, want a single user message", sent)
	}
	if sent[0].Content != Prompt(story.Request{Words: words, Vibe: story.VibeSilly}) {
		t.Errorf("sent prompt = %q", sent[0].Content)
	}
}

func TestEachConcatenates(t *testing.T) {
	g := New(&fakeModel{chunks: chunks("Once", " upon", " a time.")}, WithLogger(quietLogger()))
	stream, err := g.Generate(context.Background(), story.Request{Words: words, Vibe: story.VibeFast})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var calls int
	text, err := stream.Each(func(string) { calls++ })
	if err != nil {
		t.Fatalf("Each() error = %v", err)
	}
	if text != "Once upon a time." {
		t.Errorf("Each() = %q, want %q", text, "Once upon a time.")
	}
	if calls != 3 {
		t.Errorf("callback called %d times, want 3", calls)
	}
}

func TestGenerateUnavailable(t *testing.T) {
	g := New(&fakeModel{streamErr: errors.New("dial tcp: connection refused")}, WithLogger(quietLogger()))

	_, err := g.Generate(context.Background(), story.Request{Words: words, Vibe: story.VibeHeroic})
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("Generate() error = %v, want ErrServiceUnavailable", err)
	}
}

func TestStreamFailsMidway(t *testing.T) {
	g := New(&fakeModel{chunks: chunks("Once"), midErr: errors.New("connection reset")}, WithLogger(quietLogger()))

	stream, err := g.Generate(context.Background(), story.Request{Words: words, Vibe: story.VibeHeroic})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	text, err := stream.Each(nil)
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("Each() error = %v, want ErrServiceUnavailable", err)
	}
	if text != "" {
		t.Errorf("partial text %q must not be returned", text)
	}

	if _, err := stream.Next(); !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("Next() after failure = %v, want the same failure", err)
	}
}

func TestClosedStream(t *testing.T) {
	g := New(&fakeModel{chunks: chunks("Once", " upon")}, WithLogger(quietLogger()))
	stream, err := g.Generate(context.Background(), story.Request{Words: words, Vibe: story.VibeSilly})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	stream.Close()
	if _, err := stream.Next(); !errors.Is(err, ErrStreamClosed) {
		t.Errorf("Next() after Close = %v, want ErrStreamClosed", err)
	}
	stream.Close()
}

func TestPickVibeDistribution(t *testing.T) {
	g := New(&fakeModel{}, WithRand(rand.New(rand.NewPCG(1, 2))))

	const draws = 4000
	counts := make(map[story.Vibe]int)
	for i := 0; i < draws; i++ {
		counts[g.PickVibe()]++
	}

	if len(counts) != len(story.Vibes) {
		t.Fatalf("drew %d distinct vibes, want %d: %v", len(counts), len(story.Vibes), counts)
	}
	for _, v := range story.Vibes {
		n := counts[v]
		if n < 800 || n > 1200 {
			t.Errorf("vibe %q drawn %d times out of %d, want roughly %d", v, n, draws, draws/4)
		}
	}
}
