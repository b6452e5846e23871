package session

import (
	"wonderland/internal/domain/story"

	"github.com/google/uuid"
)

// Page is the view the session is currently on.
type Page int

const (
	Home Page = iota
	Story
)

func (p Page) String() string {
	switch p {
	case Home:
		return "home"
	case Story:
		return "story"
	default:
		return "unknown"
	}
}

// State holds navigation and story content for one user session.
// It has exactly one writer: the page controller that owns it.
type State struct {
	ID             string
	Page           Page
	StoryText      string
	ShouldGenerate bool
	Words          story.Words
}

// New returns a session on the home page with nothing written yet.
func New() *State {
	return &State{
		ID:   uuid.NewString(),
		Page: Home,
	}
}

// Reset returns the session to the home page and forgets the story and words.
func (s *State) Reset() {
	s.Page = Home
	s.StoryText = ""
	s.ShouldGenerate = false
	s.Words = story.Words{}
}

// RequestGeneration stores the words and moves to the story page with a
// generation pending. Callers validate the words first.
func (s *State) RequestGeneration(words story.Words) {
	s.Words = words
	s.ShouldGenerate = true
	s.Page = Story
}

// Request builds the generation request for the stored words.
func (s *State) Request(vibe story.Vibe) story.Request {
	return story.Request{Words: s.Words, Vibe: vibe}
}

// Commit records a completed story.
func (s *State) Commit(text string) {
	s.StoryText = text
	s.ShouldGenerate = false
}

// Abandon clears the pending generation after a failure. Whatever the
// stream produced before failing is not kept.
func (s *State) Abandon() {
	s.ShouldGenerate = false
}
