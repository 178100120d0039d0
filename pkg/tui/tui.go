// Package tui provides the interactive search-and-convert terminal UI
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Captniz/SongsterrToMusicXML/pkg/config"
	"github.com/Captniz/SongsterrToMusicXML/pkg/converter"
	"github.com/Captniz/SongsterrToMusicXML/pkg/songsterr"
)

var (
	accentGreen = lipgloss.Color("#39FF14")
	warnYellow  = lipgloss.Color("#FFFF00")
	silverGray  = lipgloss.Color("#C0C0C0")
	darkGray    = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentGreen).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	listStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(accentGreen).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(warnYellow).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(accentGreen).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentGreen).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateSearch State = iota
	StateSearching
	StateSongs
	StateLoadingMeta
	StateTracks
	StateConverting
	StateResult
)

type instrumentOption struct {
	Label  string
	Filter string
}

var instrumentOptions = []instrumentOption{
	{Label: "Guitar", Filter: "guitar"},
	{Label: "Bass", Filter: "bass"},
	{Label: "Drums", Filter: "drums"},
	{Label: "Any", Filter: ""},
}

// Model represents the TUI model
type Model struct {
	state State

	client *songsterr.Client
	cfg    config.Config

	searchInput     textinput.Model
	spinner         spinner.Model
	instrumentIndex int

	songs     []songsterr.Song
	songIndex int

	meta       *songsterr.Meta
	song       songsterr.Song
	trackIndex int

	outputPath string
	warnings   []string
	err        error

	width  int
	height int
}

type searchDoneMsg struct {
	songs []songsterr.Song
	err   error
}

type metaDoneMsg struct {
	meta *songsterr.Meta
	err  error
}

type convertDoneMsg struct {
	path     string
	warnings []string
	err      error
}

// New creates a new TUI model
func New(cfg config.Config) Model {
	input := textinput.New()
	input.Placeholder = "Type song name..."
	input.Focus()
	input.CharLimit = 120
	input.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentGreen)

	return Model{
		state:       StateSearch,
		client:      songsterr.New(),
		cfg:         cfg,
		searchInput: input,
		spinner:     s,
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchDoneMsg:
		if msg.err != nil {
			m.state = StateResult
			m.err = msg.err
			return m, nil
		}
		m.songs = msg.songs
		m.songIndex = 0
		if len(m.songs) == 0 {
			m.state = StateResult
			m.err = fmt.Errorf("no songs found")
			return m, nil
		}
		m.state = StateSongs
		return m, nil

	case metaDoneMsg:
		if msg.err != nil {
			m.state = StateResult
			m.err = msg.err
			return m, nil
		}
		m.meta = msg.meta
		m.trackIndex = 0
		if len(m.meta.Tracks) == 0 {
			m.state = StateResult
			m.err = fmt.Errorf("no tracks available for this song")
			return m, nil
		}
		m.state = StateTracks
		return m, nil

	case convertDoneMsg:
		m.state = StateResult
		m.outputPath = msg.path
		m.warnings = msg.warnings
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateSearch:
			return m.updateSearch(msg)
		case StateSongs:
			return m.updateSongs(msg)
		case StateTracks:
			return m.updateTracks(msg)
		case StateResult:
			return m.updateResult(msg)
		}
	}

	if m.state == StateSearch {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "up":
		if m.instrumentIndex > 0 {
			m.instrumentIndex--
		}
		return m, nil
	case "down":
		if m.instrumentIndex < len(instrumentOptions)-1 {
			m.instrumentIndex++
		}
		return m, nil
	case "enter":
		pattern := strings.TrimSpace(m.searchInput.Value())
		if pattern == "" {
			return m, nil
		}
		m.state = StateSearching
		return m, tea.Batch(m.spinner.Tick, m.performSearch(pattern))
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) updateSongs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = StateSearch
		return m, nil
	case "up", "k":
		if m.songIndex > 0 {
			m.songIndex--
		}
	case "down", "j":
		if m.songIndex < len(m.songs)-1 {
			m.songIndex++
		}
	case "enter":
		m.song = m.songs[m.songIndex]
		m.state = StateLoadingMeta
		return m, tea.Batch(m.spinner.Tick, m.performMeta(m.song.SongID.String()))
	}
	return m, nil
}

func (m Model) updateTracks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = StateSongs
		return m, nil
	case "up", "k":
		if m.trackIndex > 0 {
			m.trackIndex--
		}
	case "down", "j":
		if m.trackIndex < len(m.meta.Tracks)-1 {
			m.trackIndex++
		}
	case "enter":
		m.state = StateConverting
		return m, tea.Batch(m.spinner.Tick, m.performConversion(m.trackIndex))
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateSearch
		m.err = nil
		m.outputPath = ""
		m.warnings = nil
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performSearch(pattern string) tea.Cmd {
	instrument := instrumentOptions[m.instrumentIndex].Filter
	client := m.client
	return func() tea.Msg {
		songs, err := client.Search(pattern, instrument)
		return searchDoneMsg{songs: songs, err: err}
	}
}

func (m Model) performMeta(songID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		meta, err := client.Meta(songID)
		return metaDoneMsg{meta: meta, err: err}
	}
}

func (m Model) performConversion(trackIndex int) tea.Cmd {
	client := m.client
	cfg := m.cfg
	meta := m.meta
	songID := m.song.SongID.String()
	return func() tea.Msg {
		raw, err := client.TrackJSON(songID, meta.Revision(), meta.ImageID(), fmt.Sprintf("%d", trackIndex))
		if err != nil {
			return convertDoneMsg{err: err}
		}

		enriched, err := meta.EnrichTrackJSON(raw)
		if err != nil {
			return convertDoneMsg{err: err}
		}

		result, err := converter.ConvertJSON(enriched, cfg)
		if err != nil {
			return convertDoneMsg{err: err}
		}

		dir, err := cfg.OutputDir()
		if err != nil {
			return convertDoneMsg{err: err}
		}

		path, err := result.Write(dir)
		if err != nil {
			return convertDoneMsg{err: err}
		}

		return convertDoneMsg{path: path, warnings: result.Warnings}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateSearch:
		s.WriteString(m.viewSearch())
	case StateSearching, StateLoadingMeta:
		s.WriteString(m.viewLoading())
	case StateSongs:
		s.WriteString(m.viewSongs())
	case StateTracks:
		s.WriteString(m.viewTracks())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • esc: back • q: quit"))

	return s.String()
}

func (m Model) viewSearch() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SEARCH SONG "))
	s.WriteString("\n\n")
	s.WriteString(m.searchInput.View())
	s.WriteString("\n\n")
	s.WriteString(listStyle.Render("Instrument:"))
	s.WriteString("\n")

	for i, option := range instrumentOptions {
		if i == m.instrumentIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", option.Label)))
		} else {
			s.WriteString(listStyle.Render(fmt.Sprintf("  %s", option.Label)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewLoading() string {
	label := "Searching"
	if m.state == StateLoadingMeta {
		label = "Loading tracks"
	}
	return boxStyle.Render(fmt.Sprintf("%s %s...", m.spinner.View(), label))
}

func (m Model) viewSongs() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT SONG "))
	s.WriteString("\n\n")

	start, end := listWindow(m.songIndex, len(m.songs), 12)
	for i := start; i < end; i++ {
		song := m.songs[i]
		line := fmt.Sprintf("%s — %s", song.Title, song.Artist)
		if i == m.songIndex {
			s.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			s.WriteString(listStyle.Render("  " + line))
		}
		s.WriteString("\n")
	}
	s.WriteString(statusStyle.Render(fmt.Sprintf("  %d of %d", m.songIndex+1, len(m.songs))))

	return boxStyle.Render(s.String())
}

func (m Model) viewTracks() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" TRACKS — %s ", m.song.Title)))
	s.WriteString("\n\n")

	for i, track := range m.meta.Tracks {
		name := track.Name
		if name == "" {
			name = "Unnamed Track"
		}
		line := fmt.Sprintf("%s — %s", name, track.Instrument)
		if i == m.trackIndex {
			s.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			s.WriteString(listStyle.Render("  " + line))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CONVERTING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Converting %s...\n", m.spinner.View(), m.song.Title))
	s.WriteString(statusStyle.Render("  track JSON → MusicXML"))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Conversion failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ MusicXML written to:"))
		s.WriteString("\n")
		s.WriteString(fmt.Sprintf("  %s", m.outputPath))
		for _, warning := range m.warnings {
			s.WriteString("\n")
			s.WriteString(statusStyle.Render("  ⚠ " + warning))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func listWindow(index, total, size int) (int, int) {
	if total <= size {
		return 0, total
	}
	start := index - size/2
	if start < 0 {
		start = 0
	}
	if start+size > total {
		start = total - size
	}
	return start, start + size
}

func asciiLogo() string {
	logo := `
   ____  ___  _   _  ____ ____ _____ _____ ____  ____
  / ___|/ _ \| \ | |/ ___/ ___|_   _| ____|  _ \|  _ \
  \___ \ | | |  \| | |  _\___ \ | | |  _| | |_) | |_) |
   ___) | |_| | |\  | |_| |___) || | | |___|  _ <|  _ <
  |____/ \___/|_| \_|\____|____/ |_| |_____|_| \_\_| \_\  → MusicXML
`
	return lipgloss.NewStyle().Foreground(accentGreen).Render(logo)
}

// Run starts the TUI application
func Run(cfg config.Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
