package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ytsaryk/geoquest/internal/engine"
	"github.com/ytsaryk/geoquest/internal/services"
	"github.com/ytsaryk/geoquest/pkg/player"
	"github.com/ytsaryk/geoquest/pkg/quest"
)

const (
	GuideName       = "Guide"
	PlaceHolderText = "Type a command, e.g. /quests ..."
)

// ConsoleUI is the BubbleTea model that runs the field console.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	player       *player.View
	logViewport  viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	history      []logEntry
	ready        bool
	width        int
	height       int
	loading      bool
	progressTick int

	// Quit confirmation state
	showQuitModal bool
}

// logEntry is one rendered block in the adventure log.
type logEntry struct {
	speaker string
	text    string
	isError bool
}

type questsGeneratedMsg struct {
	result engine.GenerationResult
	err    error
}

type questListMsg struct {
	quests []quest.Quest
	err    error
}

type activeSetMsg struct {
	quest quest.Quest
	err   error
}

type completionMsg struct {
	result engine.CompletionResult
	err    error
}

type suitabilityMsg struct {
	result engine.SuitabilityResult
	err    error
}

type zoneScanMsg struct {
	scan engine.ZoneScan
	err  error
}

type playerMsg struct {
	view player.View
	err  error
}

type boardMsg struct {
	entries []services.LeaderboardEntry
	err     error
}

type progressTickMsg struct{}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	guideStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		textarea:     ta,
		logViewport:  logVp,
		metaViewport: metaVp,
	}
}

func (m *ConsoleUI) appendEntry(speaker, text string) {
	m.history = append(m.history, logEntry{speaker: speaker, text: text})
}

func (m *ConsoleUI) appendError(err error) {
	m.history = append(m.history, logEntry{text: err.Error(), isError: true})
}

// writeLogContent reformats the whole adventure log for the current
// viewport width.
func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6
	if logWidth < 20 {
		logWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("GEOQUEST") + "\n\n")
	content.WriteString("Explore your city, complete quests, earn XP.\n")
	content.WriteString("Type /help for the command list.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", logWidth)) + "\n\n")

	for _, e := range m.history {
		switch {
		case e.isError:
			content.WriteString(errorStyle.Render("Error: ") + wordwrap.String(e.text, logWidth-7) + "\n\n")
		case e.speaker == GuideName:
			content.WriteString(guideStyle.Render(GuideName+": ") + wordwrap.String(e.text, logWidth-7) + "\n\n")
		case e.speaker != "":
			content.WriteString(playerStyle.Render(e.speaker+": ") + wordwrap.String(e.text, logWidth-5) + "\n\n")
		default:
			content.WriteString(wordwrap.String(e.text, logWidth) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("PLAYER") + "\n\n")

	if m.player == nil {
		content.WriteString("Loading...\n")
	} else {
		p := m.player
		content.WriteString(p.Name + "\n\n")
		content.WriteString(fmt.Sprintf("Level: %d\n", p.Level))
		content.WriteString(fmt.Sprintf("XP: %d / %d\n", p.XP, p.XPToNext))
		content.WriteString(fmt.Sprintf("Geobucks: %d\n\n", p.Geobucks))

		content.WriteString("Position:\n")
		content.WriteString(fmt.Sprintf("%.4f, %.4f\n\n", m.config.Lat, m.config.Lon))

		if p.ActiveQuest != nil {
			content.WriteString("Active Quest:\n")
			content.WriteString(p.ActiveQuest.Place + "\n\n")
		} else {
			content.WriteString("Active Quest:\nNone\n\n")
		}

		if len(p.Achievements) > 0 {
			content.WriteString("Achievements:\n")
			for _, id := range p.Achievements {
				content.WriteString("• " + id + "\n")
			}
			content.WriteString("\n")
		}
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Run\n")
	content.WriteString("• /help: Help\n")

	m.metaViewport.SetContent(content.String())
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.refreshPlayer(), textarea.Blink)
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		logWidth := int(float64(m.width)*0.72) - 4
		metaWidth := m.width - logWidth - 6

		m.logViewport.Width = logWidth - 2
		m.logViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(logWidth - 4)

		m.ready = true
		m.writeLogContent()
		m.writeMetadata()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m.handleCommand(input)
		}

	case questsGeneratedMsg:
		m.loading = false
		if msg.err != nil {
			m.appendError(msg.err)
		} else {
			var text strings.Builder
			text.WriteString(msg.result.AIMessage + "\n\n")
			for _, q := range msg.result.AllQuests {
				text.WriteString(questSummary(q) + "\n")
			}
			m.appendEntry(GuideName, text.String())
		}
		m.writeLogContent()
		return m, m.refreshPlayer()

	case questListMsg:
		m.loading = false
		if msg.err != nil {
			m.appendError(msg.err)
		} else if len(msg.quests) == 0 {
			m.appendEntry(GuideName, "No quests yet. Run /quests to discover some.")
		} else {
			var text strings.Builder
			for _, q := range msg.quests {
				text.WriteString(questSummary(q) + "\n")
			}
			m.appendEntry(GuideName, text.String())
		}
		m.writeLogContent()

	case activeSetMsg:
		m.loading = false
		if msg.err != nil {
			m.appendError(msg.err)
		} else {
			m.appendEntry(GuideName, fmt.Sprintf("Active quest set: %s. %s", msg.quest.Place, msg.quest.Goal))
		}
		m.writeLogContent()
		return m, m.refreshPlayer()

	case completionMsg:
		m.loading = false
		if msg.err != nil {
			m.appendError(msg.err)
		} else {
			text := msg.result.Message
			if msg.result.Status == engine.StatusCompleted && msg.result.Breakdown != nil {
				b := msg.result.Breakdown
				text += fmt.Sprintf("\n%d XP (x%.1f weather bonus) and %d geobucks.", b.FinalXP, b.Multiplier, b.Geobucks)
				if msg.result.LeveledUp {
					text += "\nLevel up!"
				}
			}
			m.appendEntry(GuideName, text)
		}
		m.writeLogContent()
		return m, m.refreshPlayer()

	case suitabilityMsg:
		m.loading = false
		if msg.err != nil {
			m.appendError(msg.err)
		} else {
			text := msg.result.Message
			if msg.result.SuggestedQuest != nil {
				text += "\nSuggested instead: " + questSummary(*msg.result.SuggestedQuest)
			}
			m.appendEntry(GuideName, text)
		}
		m.writeLogContent()

	case zoneScanMsg:
		m.loading = false
		if msg.err != nil {
			m.appendError(msg.err)
		} else {
			var text strings.Builder
			text.WriteString(fmt.Sprintf("%s: %s\n\n", msg.scan.Zone.Name, msg.scan.Zone.Description))
			for _, q := range msg.scan.Quests {
				text.WriteString(questSummary(q) + "\n")
			}
			m.appendEntry(GuideName, text.String())
		}
		m.writeLogContent()

	case playerMsg:
		if msg.err == nil {
			view := msg.view
			m.player = &view
			m.writeMetadata()
		}

	case boardMsg:
		m.loading = false
		if msg.err != nil {
			m.appendError(msg.err)
		} else if len(msg.entries) == 0 {
			m.appendEntry(GuideName, "The leaderboard is empty.")
		} else {
			var text strings.Builder
			for i, e := range msg.entries {
				text.WriteString(fmt.Sprintf("%d. %s — %d XP\n", i+1, e.Name, e.TotalXP))
			}
			m.appendEntry(GuideName, text.String())
		}
		m.writeLogContent()

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeLogContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func questSummary(q quest.Quest) string {
	summary := fmt.Sprintf("[%d] %s (%s, %s) — %s", q.ID, q.Place, q.Category, q.Setting, q.Reward)
	if q.Weather != nil && q.Weather.Condition != "" {
		summary += ", " + q.Weather.Condition
	}
	return summary
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	m.appendEntry("You", input)

	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	start := func(c tea.Cmd) (tea.Model, tea.Cmd) {
		m.loading = true
		m.progressTick = 0
		m.writeLogContent()
		return m, tea.Batch(c, progressTick())
	}

	switch cmd {
	case "/quests":
		return start(m.generate())

	case "/list":
		return start(m.list())

	case "/go":
		if len(args) != 1 {
			m.appendEntry(GuideName, "Usage: /go <quest id>")
		} else if id, err := strconv.Atoi(args[0]); err != nil {
			m.appendEntry(GuideName, "Quest id must be a number.")
		} else {
			return start(m.setActive(id))
		}

	case "/done":
		return start(m.complete())

	case "/weather":
		if len(args) != 1 {
			m.appendEntry(GuideName, "Usage: /weather <quest id>")
		} else if id, err := strconv.Atoi(args[0]); err != nil {
			m.appendEntry(GuideName, "Quest id must be a number.")
		} else {
			return start(m.checkWeather(id))
		}

	case "/scan":
		if len(args) != 1 {
			m.appendEntry(GuideName, "Usage: /scan <zone code>")
		} else {
			return start(m.scan(args[0]))
		}

	case "/token":
		if len(args) != 1 {
			m.appendEntry(GuideName, "Usage: /token <quest token>")
		} else {
			return start(m.completeToken(args[0]))
		}

	case "/move":
		if len(args) != 2 {
			m.appendEntry(GuideName, "Usage: /move <lat> <lon>")
		} else {
			lat, latErr := strconv.ParseFloat(args[0], 64)
			lon, lonErr := strconv.ParseFloat(args[1], 64)
			if latErr != nil || lonErr != nil {
				m.appendEntry(GuideName, "Coordinates must be decimal degrees.")
			} else {
				m.config.Lat = lat
				m.config.Lon = lon
				m.appendEntry(GuideName, fmt.Sprintf("Moved to %.4f, %.4f.", lat, lon))
				m.writeMetadata()
			}
		}

	case "/board":
		return start(m.board())

	case "/help":
		m.appendEntry(GuideName, `Commands:
/quests - discover quests near your position
/list - show the current quest batch
/go <id> - set a quest as active
/done - complete the active quest at your position
/weather <id> - check if the weather suits a quest
/scan <code> - scan a zone access code
/token <t> - complete a zone quest by its token
/move <lat> <lon> - move to new coordinates
/board - show the leaderboard`)

	default:
		m.appendEntry(GuideName, "Unknown command. Type /help for the list.")
	}

	m.writeLogContent()
	return m, nil
}

func (m ConsoleUI) generate() tea.Cmd {
	return func() tea.Msg {
		result, err := generateQuests(m.client, m.config.APIBaseURL, m.config.Lat, m.config.Lon)
		return questsGeneratedMsg{result, err}
	}
}

func (m ConsoleUI) list() tea.Cmd {
	return func() tea.Msg {
		quests, err := listQuests(m.client, m.config.APIBaseURL)
		return questListMsg{quests, err}
	}
}

func (m ConsoleUI) setActive(id int) tea.Cmd {
	return func() tea.Msg {
		q, err := setActiveQuest(m.client, m.config.APIBaseURL, id)
		return activeSetMsg{q, err}
	}
}

func (m ConsoleUI) complete() tea.Cmd {
	return func() tea.Msg {
		result, err := completeActiveQuest(m.client, m.config.APIBaseURL, m.config.Lat, m.config.Lon)
		return completionMsg{result, err}
	}
}

func (m ConsoleUI) checkWeather(id int) tea.Cmd {
	return func() tea.Msg {
		result, err := checkQuestWeather(m.client, m.config.APIBaseURL, id)
		return suitabilityMsg{result, err}
	}
}

func (m ConsoleUI) scan(code string) tea.Cmd {
	return func() tea.Msg {
		scan, err := scanZone(m.client, m.config.APIBaseURL, code)
		return zoneScanMsg{scan, err}
	}
}

func (m ConsoleUI) completeToken(token string) tea.Cmd {
	return func() tea.Msg {
		result, err := completeByToken(m.client, m.config.APIBaseURL, token, m.config.Lat, m.config.Lon)
		return completionMsg{result, err}
	}
}

func (m ConsoleUI) board() tea.Cmd {
	return func() tea.Msg {
		entries, err := getLeaderboard(m.client, m.config.APIBaseURL)
		return boardMsg{entries, err}
	}
}

func (m ConsoleUI) refreshPlayer() tea.Cmd {
	return func() tea.Msg {
		view, err := getPlayer(m.client, m.config.APIBaseURL)
		return playerMsg{view, err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Leave your expedition and quit?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", logWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.logViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
