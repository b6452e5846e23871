package story

import "errors"

// ErrMissingWords is returned when one or more seed words are empty.
var ErrMissingWords = errors.New("please type in all 3 magic words first")

// Vibe is the narrative style applied to a single generation.
type Vibe string

const (
	VibeSilly   Vibe = "silly"
	VibeFast    Vibe = "fast"
	VibeRhyming Vibe = "rhyming"
	VibeHeroic  Vibe = "heroic"
)

// Vibes is the fixed set a generation style is drawn from.
var Vibes = []Vibe{VibeSilly, VibeFast, VibeRhyming, VibeHeroic}

func (v Vibe) String() string {
	return string(v)
}

// Words are the three seed words a story is built from.
type Words struct {
	First  string `json:"word1"`
	Second string `json:"word2"`
	Third  string `json:"word3"`
}

// Validate reports ErrMissingWords if any word is empty. Words are kept
// verbatim, so whitespace counts as a word.
func (w Words) Validate() error {
	for _, word := range w.List() {
		if word == "" {
			return ErrMissingWords
		}
	}
	return nil
}

// List returns the words in input order.
func (w Words) List() []string {
	return []string{w.First, w.Second, w.Third}
}

// IsZero reports whether all three words are empty.
func (w Words) IsZero() bool {
	return w == Words{}
}

// Request is what a single generation is asked to write.
type Request struct {
	Words Words `json:"words"`
	Vibe  Vibe  `json:"vibe"`
}

// Item is a finished story.
type Item struct {
	Words Words  `json:"words"`
	Vibe  Vibe   `json:"vibe"`
	Text  string `json:"text"`
}
