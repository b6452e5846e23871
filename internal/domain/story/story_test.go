package story

import (
	"errors"
	"testing"
)

func TestWordsValidate(t *testing.T) {
	tests := []struct {
		name  string
		words Words
		want  error
	}{
		{"all present", Words{"Robot", "Pizza", "Moon"}, nil},
		{"first missing", Words{"", "Pizza", "Moon"}, ErrMissingWords},
		{"second missing", Words{"Robot", "", "Moon"}, ErrMissingWords},
		{"third missing", Words{"Robot", "Pizza", ""}, ErrMissingWords},
		{"whitespace is a word", Words{"Robot", "   ", "Moon"}, nil},
		{"all missing", Words{}, ErrMissingWords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.words.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWordsIsZero(t *testing.T) {
	if !(Words{}).IsZero() {
		t.Error("empty words should be zero")
	}
	if (Words{First: "a"}).IsZero() {
		t.Error("words with a value should not be zero")
	}
}

func TestVibesAreFixed(t *testing.T) {
	want := []Vibe{"silly", "fast", "rhyming", "heroic"}
	if len(Vibes) != len(want) {
		t.Fatalf("got %d vibes, want %d", len(Vibes), len(want))
	}
	for i, v := range want {
		if Vibes[i] != v {
			t.Errorf("Vibes[%d] = %q, want %q", i, Vibes[i], v)
		}
	}
}
