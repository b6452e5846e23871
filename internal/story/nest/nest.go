package nest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"wonderland/internal/domain/story"
	"wonderland/internal/story/generator"
	"wonderland/internal/story/session"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

const (
	writingPlaceholder = "Writing... ✍️"
	cursor             = " ▌"
	failureMessage     = "😴 The AI is sleeping. Is the story model running?"
	missingWords       = "Please type in all 3 magic words first!"
)

// StoryGenerator writes stories from seed words.
type StoryGenerator interface {
	PickVibe() story.Vibe
	Generate(ctx context.Context, req story.Request) (*generator.Stream, error)
}

// Speaker reads text aloud without blocking.
type Speaker interface {
	Speak(text string)
}

type streamOpenedMsg struct {
	generation int
	stream     *generator.Stream
}

type fragmentMsg struct {
	generation int
	stream     *generator.Stream
	text       string
}

type streamDoneMsg struct {
	generation int
}

type streamFailedMsg struct {
	generation int
	err        error
}

// Model drives the home and story pages for one session.
type Model struct {
	ctx     context.Context
	state   *session.State
	writer  StoryGenerator
	speaker Speaker
	log     logrus.FieldLogger

	inputs  [3]textinput.Model
	focus   int
	warning string

	// generation identifies the current request; messages from older
	// requests are dropped.
	generation int
	stream     *generator.Stream
	vibe       story.Vibe
	written    string
	display    string
	failed     bool

	countdown countdown
	width     int
	initCmd   tea.Cmd
}

type Option func(*Model)

// WithSession resumes an existing session instead of starting on Home.
func WithSession(s *session.State) Option {
	return func(m *Model) {
		m.state = s
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Model) {
		m.log = log
	}
}

// WithTickInterval changes how long one countdown tick lasts.
func WithTickInterval(d time.Duration) Option {
	return func(m *Model) {
		m.countdown.interval = d
	}
}

func New(ctx context.Context, writer StoryGenerator, speaker Speaker, opts ...Option) Model {
	m := Model{
		ctx:       ctx,
		state:     session.New(),
		writer:    writer,
		speaker:   speaker,
		log:       logrus.StandardLogger(),
		countdown: newCountdown(countdownInterval),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.log = m.log.WithField("session", m.state.ID)

	placeholders := [3]string{"e.g. Robot", "e.g. Pizza", "e.g. Moon"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = fmt.Sprintf("Word %d: ", i+1)
		ti.Width = 20
		m.inputs[i] = ti
	}

	if m.state.Page == session.Story {
		m.initCmd = m.enterStory()
	} else {
		m.initCmd = m.focusInput(0)
	}
	return m
}

// NewProgram wraps the model in a full-screen Bubble Tea program.
func NewProgram(ctx context.Context, m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
}

// Session exposes the session state.
func (m Model) Session() *session.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initCmd)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.state.Page == session.Home {
			return m.updateHome(msg)
		}
		return m.updateStory(msg)

	case streamOpenedMsg:
		if msg.generation != m.generation {
			msg.stream.Close()
			return m, nil
		}
		m.stream = msg.stream
		return m, nextFragment(m.generation, m.stream)

	case fragmentMsg:
		if msg.generation != m.generation {
			msg.stream.Close()
			return m, nil
		}
		m.written += msg.text
		m.display = m.written + cursor
		return m, nextFragment(m.generation, m.stream)

	case streamDoneMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.stream = nil
		m.display = m.written
		m.state.Commit(m.written)
		m.log.WithFields(logrus.Fields{
			"vibe":   m.vibe,
			"length": len(m.written),
		}).Info("story written")
		cmd := m.countdown.start()
		return m, cmd

	case streamFailedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.stream = nil
		m.failed = true
		m.display = failureMessage
		m.state.Abandon()
		m.log.WithError(msg.err).Warn("story generation failed")
		cmd := m.countdown.start()
		return m, cmd

	case tickMsg:
		current, expired := m.countdown.advance(msg)
		if !current {
			return m, nil
		}
		if expired {
			m.log.Debug("countdown expired")
			cmd := m.reset()
			return m, cmd
		}
		return m, m.countdown.tick()
	}

	return m, nil
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		cmd := m.submit()
		return m, cmd
	case "tab", "down":
		cmd := m.focusInput(m.focus + 1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.focusInput(m.focus - 1)
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateStory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "b", "esc":
		m.log.Debug("starting over")
		cmd := m.reset()
		return m, cmd
	case "r":
		m.speaker.Speak(m.state.StoryText)
	}
	return m, nil
}

// submit validates the words and moves to the story page.
func (m *Model) submit() tea.Cmd {
	words := story.Words{
		First:  m.inputs[0].Value(),
		Second: m.inputs[1].Value(),
		Third:  m.inputs[2].Value(),
	}
	if err := words.Validate(); err != nil {
		m.warning = missingWords
		return nil
	}

	m.warning = ""
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.state.RequestGeneration(words)
	return m.enterStory()
}

// enterStory renders the story page: either starts the pending generation
// or shows the story already written and starts the countdown.
func (m *Model) enterStory() tea.Cmd {
	if !m.state.ShouldGenerate {
		m.display = m.state.StoryText
		return m.countdown.start()
	}

	m.generation++
	m.written = ""
	m.failed = false
	m.display = writingPlaceholder
	m.vibe = m.writer.PickVibe()

	var (
		ctx        = m.ctx
		writer     = m.writer
		req        = m.state.Request(m.vibe)
		generation = m.generation
	)
	return func() tea.Msg {
		stream, err := writer.Generate(ctx, req)
		if err != nil {
			return streamFailedMsg{generation: generation, err: err}
		}
		return streamOpenedMsg{generation: generation, stream: stream}
	}
}

// reset clears the session and returns to an empty home page. A stream
// still in flight is closed when its next message arrives.
func (m *Model) reset() tea.Cmd {
	m.countdown.stop()
	m.generation++
	m.stream = nil
	m.written = ""
	m.display = ""
	m.failed = false
	m.vibe = ""
	m.warning = ""
	m.state.Reset()

	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	return m.focusInput(0)
}

func (m *Model) focusInput(i int) tea.Cmd {
	n := len(m.inputs)
	m.focus = ((i % n) + n) % n
	for j := range m.inputs {
		if j != m.focus {
			m.inputs[j].Blur()
		}
	}
	return m.inputs[m.focus].Focus()
}

func nextFragment(generation int, s *generator.Stream) tea.Cmd {
	return func() tea.Msg {
		text, err := s.Next()
		if errors.Is(err, io.EOF) {
			return streamDoneMsg{generation: generation}
		}
		if err != nil {
			return streamFailedMsg{generation: generation, err: err}
		}
		return fragmentMsg{generation: generation, stream: s, text: text}
	}
}

func (m Model) View() string {
	if m.state.Page == session.Home {
		return m.homeView()
	}
	return m.storyView()
}

func (m Model) homeView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🦄 The Magic Storyteller"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Pick your magic words!"))
	b.WriteString("\n")

	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(buttonStyle.Render("🚀 Write My Story"))
	b.WriteString("\n")

	if m.warning != "" {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("⚠️  " + m.warning))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab next word • enter write • ctrl+c quit"))
	return b.String()
}

func (m Model) storyView() string {
	var b strings.Builder

	b.WriteString(buttonStyle.Render("⬅️  Start Over Now"))
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("✨ Your Story!"))
	b.WriteString("\n")

	box := storyStyle
	if m.width > 0 {
		box = box.Width(min(m.width-4, 80))
	}
	text := m.display
	if m.failed {
		text = errorStyle.Render(text)
	}
	b.WriteString(box.Render(text))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(40, lipgloss.Center, buttonStyle.Render("🔊 Read to Me")))
	b.WriteString("\n")

	if m.countdown.running {
		b.WriteString(timerStyle.Render(fmt.Sprintf("⚡ Quick! Resetting in %ds...", m.countdown.remaining)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("r read aloud • b start over • ctrl+c quit"))
	return b.String()
}
