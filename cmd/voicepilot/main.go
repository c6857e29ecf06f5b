// Command voicepilot runs the voice assistant against a local learning
// platform. Space toggles the assistant, q quits. Requires DEEPGRAM_API_KEY
// and a microphone.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	dispatch "github.com/pathwise/voicepilot-core/core"
	"github.com/pathwise/voicepilot-core/core/audio/miniaudio"
	"github.com/pathwise/voicepilot-core/core/platform"
	sttdeepgram "github.com/pathwise/voicepilot-core/core/speechtotext/deepgram"
	ttsdeepgram "github.com/pathwise/voicepilot-core/core/texttospeech/deepgram"
)

const defaultPlatformURL = "http://localhost:5000"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("207"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	badgeStyles = map[dispatch.UIState]lipgloss.Style{
		dispatch.UIStateOff:         lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		dispatch.UIStateReady:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		dispatch.UIStateListening:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		dispatch.UIStateUnsupported: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}

	interimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true)
	finalStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	commandStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("48"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type (
	interimTranscriptMsg string
	finalTranscriptMsg   string
	utteranceMsg         string
	recognitionErrorMsg  string
	navigationMsg        string

	stateChangedMsg struct {
		enabled   bool
		listening bool
	}

	commandMatchedMsg struct {
		phrase  string
		command string
	}

	commandUnmatchedMsg string
)

// teaNavigator turns navigation requests into TUI log lines; there is no
// real browser to drive here.
type teaNavigator struct {
	send func(tea.Msg)
}

func (n *teaNavigator) Navigate(path string) error {
	n.send(navigationMsg(path))
	return nil
}

type model struct {
	engine *dispatch.Engine
	events chan tea.Msg

	viewport viewport.Model
	ready    bool

	uiState dispatch.UIState
	interim string
	lines   []string
}

func newModel(engine *dispatch.Engine, events chan tea.Msg) model {
	return model{
		engine:  engine,
		events:  events,
		uiState: engine.UIState(),
	}
}

func (m model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.engine.Close()
			return m, tea.Quit
		case " ":
			m.engine.Toggle()
			m.uiState = m.engine.UIState()
			return m, nil
		}

	case tea.WindowSizeMsg:
		headerHeight := 3
		footerHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.refreshViewport()
		return m, nil

	case stateChangedMsg:
		m.uiState = m.engine.UIState()
		if !msg.listening {
			m.interim = ""
		}
		m.refreshViewport()
		return m, m.waitForEvent()

	case interimTranscriptMsg:
		m.interim = string(msg)
		m.refreshViewport()
		return m, m.waitForEvent()

	case finalTranscriptMsg:
		m.interim = ""
		m.appendLine(finalStyle.Render("you: " + string(msg)))
		return m, m.waitForEvent()

	case utteranceMsg:
		m.appendLine(assistantStyle.Render("assistant: " + string(msg)))
		return m, m.waitForEvent()

	case commandMatchedMsg:
		m.appendLine(commandStyle.Render(fmt.Sprintf("command: %q -> %s", msg.phrase, msg.command)))
		return m, m.waitForEvent()

	case commandUnmatchedMsg:
		m.appendLine(commandStyle.Render(fmt.Sprintf("unmatched: %q", string(msg))))
		return m, m.waitForEvent()

	case navigationMsg:
		m.appendLine(commandStyle.Render("navigate: " + string(msg)))
		return m, m.waitForEvent()

	case recognitionErrorMsg:
		m.appendLine(errorStyle.Render("recognition error: " + string(msg)))
		return m, m.waitForEvent()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) appendLine(line string) {
	m.lines = append(m.lines, line)
	m.refreshViewport()
}

func (m *model) refreshViewport() {
	if !m.ready {
		return
	}

	content := strings.Join(m.lines, "\n")
	if m.interim != "" {
		content += "\n" + interimStyle.Render("... "+m.interim)
	}
	m.viewport.SetContent(wordwrap.String(content, m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m model) View() string {
	badge := badgeStyles[m.uiState].Render(m.uiState.Label())
	header := titleStyle.Render("voicepilot") + "  " + badge + "\n" +
		helpStyle.Render(m.uiState.Prompt()) + "\n"

	body := ""
	if m.ready {
		body = m.viewport.View()
	}

	footer := "\n" + helpStyle.Render("space: toggle assistant  q: quit")
	return header + body + footer
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	speechClient, err := ttsdeepgram.NewSpeechClient(ctx, ttsdeepgram.VoiceThalia)
	if err != nil {
		log.Fatalf("Failed to create speech client: %v", err)
	}

	audioClient, err := miniaudio.NewClient()
	if err != nil {
		log.Fatalf("Failed to open audio devices: %v", err)
	}

	platformURL := os.Getenv("PATHWISE_API_URL")
	if platformURL == "" {
		platformURL = defaultPlatformURL
	}

	events := make(chan tea.Msg, 64)
	send := func(msg tea.Msg) {
		select {
		case events <- msg:
		default:
		}
	}

	engine := dispatch.NewEngine(
		dispatch.WithSpeechToTextClient(sttdeepgram.NewTranscriptionClient()),
		dispatch.WithTextToSpeechClient(speechClient),
		dispatch.WithAudioInput(audioClient),
		dispatch.WithAudioOutput(audioClient),
		dispatch.WithPlatformClient(platform.NewClient(platformURL)),
		dispatch.WithNavigator(&teaNavigator{send: send}),
	)

	engine.Dispatch(ctx,
		dispatch.WithInterimTranscriptCallback(func(transcript string) {
			send(interimTranscriptMsg(transcript))
		}),
		dispatch.WithFinalTranscriptCallback(func(transcript string) {
			send(finalTranscriptMsg(transcript))
		}),
		dispatch.WithStateChangedCallback(func(enabled, listening bool) {
			send(stateChangedMsg{enabled: enabled, listening: listening})
		}),
		dispatch.WithCommandMatchedCallback(func(phrase, command string) {
			send(commandMatchedMsg{phrase: phrase, command: command})
		}),
		dispatch.WithCommandUnmatchedCallback(func(phrase string) {
			send(commandUnmatchedMsg(phrase))
		}),
		dispatch.WithUtteranceCallback(func(text string) {
			send(utteranceMsg(text))
		}),
		dispatch.WithRecognitionErrorCallback(func(reason string) {
			send(recognitionErrorMsg(reason))
		}),
	)
	defer engine.Close()

	if _, err := tea.NewProgram(newModel(engine, events), tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("Failed to run UI: %v", err)
	}
}
