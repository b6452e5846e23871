package cli

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"wonderland/internal/domain/story"
	"wonderland/internal/story/generator"
	"wonderland/internal/story/tts"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type fakeModel struct {
	chunks []string
	err    error
}

func (f *fakeModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return nil, errors.New("not streaming")
}

func (f *fakeModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	if f.err != nil {
		return nil, f.err
	}
	msgs := make([]*schema.Message, len(f.chunks))
	for i, c := range f.chunks {
		msgs[i] = &schema.Message{Role: schema.Assistant, Content: c}
	}
	return schema.StreamReaderFromArray(msgs), nil
}

func newWriter(m model.BaseChatModel) *generator.Generator {
	log, _ := logtest.NewNullLogger()
	return generator.New(m,
		generator.WithLogger(log),
		generator.WithRand(rand.New(rand.NewPCG(7, 7))),
	)
}

var words = story.Words{First: "Robot", Second: "Pizza", Third: "Moon"}

func TestTellPrintsStory(t *testing.T) {
	var out bytes.Buffer
	writer := newWriter(&fakeModel{chunks: []string{"The robot", " ate", " the moon."}})

	item, err := Tell(context.Background(), &out, writer, words, TellOptions{})
	if err != nil {
		t.Fatalf("Tell() error = %v", err)
	}

	if item.Text != "The robot ate the moon." {
		t.Errorf("text = %q", item.Text)
	}
	if item.Words != words || item.Vibe == "" {
		t.Errorf("item = %+v", item)
	}
	got := out.String()
	for _, want := range []string{"Your Story!", "The robot ate the moon.", "Robot, Pizza, Moon", string(item.Vibe)} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestTellMissingWords(t *testing.T) {
	var out bytes.Buffer
	writer := newWriter(&fakeModel{chunks: []string{"never"}})

	_, err := Tell(context.Background(), &out, writer, story.Words{First: "Robot"}, TellOptions{})
	if !errors.Is(err, story.ErrMissingWords) {
		t.Errorf("err = %v, want ErrMissingWords", err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be printed, got %q", out.String())
	}
}

func TestTellModelUnavailable(t *testing.T) {
	var out bytes.Buffer
	writer := newWriter(&fakeModel{err: errors.New("connection refused")})

	_, err := Tell(context.Background(), &out, writer, words, TellOptions{})
	if !errors.Is(err, generator.ErrServiceUnavailable) {
		t.Errorf("err = %v, want ErrServiceUnavailable", err)
	}
}

func TestListVoicesMarksPreferred(t *testing.T) {
	var out bytes.Buffer
	engine := tts.NewMockEngine(tts.DefaultConfig(), "alice", "bob", "carol")

	if err := ListVoices(&out, engine, ""); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "★ bob") {
		t.Errorf("second voice should be marked:\n%s", out.String())
	}
	if strings.Contains(out.String(), "★ alice") {
		t.Error("first voice should not be marked")
	}
}

func TestListVoicesConfigured(t *testing.T) {
	var out bytes.Buffer
	engine := tts.NewMockEngine(tts.DefaultConfig(), "alice", "bob")

	if err := ListVoices(&out, engine, "alice"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "★ alice") {
		t.Errorf("configured voice should be marked:\n%s", out.String())
	}
}

func TestListEnginesIncludesMock(t *testing.T) {
	var out bytes.Buffer
	ListEngines(&out)
	if !strings.Contains(out.String(), "mock") || !strings.Contains(out.String(), "espeak") {
		t.Errorf("engines = %q", out.String())
	}
}
