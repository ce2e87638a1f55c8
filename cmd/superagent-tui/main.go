package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"superagent/internal/agent"
	"superagent/internal/config"
	"superagent/internal/conversation"
	"superagent/internal/intent"
	"superagent/internal/trading"
)

const (
	banner           = "SuperAgent v0.2 - DEX Autonomous Trader"
	timelineMaxChars = 2000
	statusReady      = "ready"
	statusContacting = "contacting SuperAgent..."
	tradeCancelled   = "Trade cancelled by user."

	noticeKindInfo    = "info"
	noticeKindError   = "error"
	noticeKindConfirm = "confirm"
)

type tabID int

const (
	tabChat tabID = iota
	tabHelp
)

// tradeBackend is the slice of the trading client the TUI drives.
type tradeBackend interface {
	Balance(ctx context.Context) ([]trading.AssetBalance, error)
	PlaceOrder(ctx context.Context, order trading.OrderRequest) (trading.OrderResult, error)
}

// notice is a local transcript line that is not part of the conversation
// state: balances, order receipts, trade confirmations.
type notice struct {
	kind string
	text string
	at   time.Time
}

type submitDoneMsg struct {
	prompt string
	err    error
}

type balanceDoneMsg struct {
	balances []trading.AssetBalance
	err      error
}

type orderDoneMsg struct {
	trade  intent.Trade
	result trading.OrderResult
	err    error
}

type uiTheme struct {
	root        lipgloss.Style
	header      lipgloss.Style
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	panel       lipgloss.Style
	panelTitle  lipgloss.Style
	footer      lipgloss.Style
	status      lipgloss.Style
	errorStatus lipgloss.Style
	inputPanel  lipgloss.Style
	helpText    lipgloss.Style
	userMsg     lipgloss.Style
	agentMsg    lipgloss.Style
	noticeMsg   lipgloss.Style
	confirmMsg  lipgloss.Style
	modalFrame  lipgloss.Style
	modalAccent lipgloss.Style
}

func newTheme() uiTheme {
	pink := lipgloss.Color("#ff71ce")
	blue := lipgloss.Color("#01cdfe")
	mint := lipgloss.Color("#05ffa1")
	amber := lipgloss.Color("#ffd166")
	bg := lipgloss.Color("#10081f")
	panelBg := lipgloss.Color("#190d31")
	text := lipgloss.Color("#f3f3ff")
	muted := lipgloss.Color("#9ca3d8")

	return uiTheme{
		root: lipgloss.NewStyle().
			Background(bg).
			Foreground(text).
			Padding(0, 1),
		header: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(text).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(0, 1),
		tabActive: lipgloss.NewStyle().
			Background(pink).
			Foreground(lipgloss.Color("#22062f")).
			Bold(true).
			Padding(0, 1),
		tabInactive: lipgloss.NewStyle().
			Background(lipgloss.Color("#2a184a")).
			Foreground(muted).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(0, 1),
		panelTitle: lipgloss.NewStyle().
			Foreground(mint).
			Bold(true),
		footer: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(muted).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(pink).
			Padding(0, 1),
		status:      lipgloss.NewStyle().Foreground(blue).Bold(true),
		errorStatus: lipgloss.NewStyle().Foreground(pink).Bold(true),
		inputPanel: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(mint).
			Padding(0, 1),
		helpText:   lipgloss.NewStyle().Foreground(muted),
		userMsg:    lipgloss.NewStyle().Foreground(mint).Bold(true),
		agentMsg:   lipgloss.NewStyle().Foreground(blue).Bold(true),
		noticeMsg:  lipgloss.NewStyle().Foreground(muted).Bold(true),
		confirmMsg: lipgloss.NewStyle().Foreground(amber).Bold(true),
		modalFrame: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(pink).
			Padding(1, 2),
		modalAccent: lipgloss.NewStyle().Foreground(mint).Bold(true),
	}
}

type model struct {
	cfg      config.Config
	ctrl     *conversation.Controller
	trader   tradeBackend
	registry intent.Registry
	debug    *slog.Logger

	notices      []notice
	pendingTrade *intent.Trade
	statusLine   string
	fetching     bool
	quitConfirm  bool
	activeTab    tabID

	width  int
	height int

	input      textinput.Model
	transcript viewport.Model
	spinner    spinner.Model

	theme uiTheme
}

func newModel(cfg config.Config, ctrl *conversation.Controller, trader tradeBackend) model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = cfg.InputCharLimit
	input.Placeholder = "Ask SuperAgent anything. Try: swap 0.5 ETH to USDC, or: show my balance"
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#05ffa1"))

	transcript := viewport.New(0, 0)
	transcript.MouseWheelEnabled = true
	transcript.MouseWheelDelta = 4

	return model{
		cfg:        cfg,
		ctrl:       ctrl,
		trader:     trader,
		registry:   intent.DefaultRegistry(),
		notices:    []notice{},
		statusLine: statusReady,
		activeTab:  tabChat,
		input:      input,
		transcript: transcript,
		spinner:    sp,
		theme:      newTheme(),
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) submitCmd(prompt string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		err := ctrl.Submit(context.Background(), prompt)
		return submitDoneMsg{prompt: prompt, err: err}
	}
}

func (m model) balanceCmd() tea.Cmd {
	trader := m.trader
	return func() tea.Msg {
		balances, err := trader.Balance(context.Background())
		return balanceDoneMsg{balances: balances, err: err}
	}
}

func (m model) orderCmd(trade intent.Trade) tea.Cmd {
	trader := m.trader
	return func() tea.Msg {
		result, err := trader.PlaceOrder(context.Background(), orderForTrade(trade))
		return orderDoneMsg{trade: trade, result: result, err: err}
	}
}

// orderForTrade maps a swap intent onto a backend market order: selling the
// source asset of the FROM+TO pair.
func orderForTrade(trade intent.Trade) trading.OrderRequest {
	return trading.OrderRequest{
		Symbol:    trade.From + trade.To,
		Side:      trading.SideSell,
		Quantity:  trade.Amount,
		OrderType: trading.TypeMarket,
	}
}

func (m *model) appendNotice(kind, text string) {
	m.notices = append(m.notices, notice{kind: kind, text: text, at: time.Now()})
}

func (m *model) logDebug(msg string, args ...any) {
	if m.debug != nil {
		m.debug.Info(msg, args...)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case submitDoneMsg:
		if msg.err != nil {
			// Precondition rejection only; backend failures settle into state.
			m.logDebug("submit rejected", "error", msg.err.Error())
			break
		}
		if lastErr := m.ctrl.LastError(); lastErr != "" {
			m.statusLine = lastErr
			m.logDebug("turn failed", "prompt", msg.prompt)
			m.renderPanes()
			break
		}
		m.statusLine = statusReady
		m.logDebug("turn settled", "prompt", msg.prompt, "messages", m.ctrl.Len())
		cmds = append(cmds, m.afterTurnCmds(msg.prompt)...)
		m.renderPanes()
	case balanceDoneMsg:
		m.fetching = false
		if msg.err != nil {
			m.appendNotice(noticeKindError, "Unable to fetch balances: "+compactSingleLine(msg.err.Error(), 160))
			m.statusLine = "balance fetch failed"
			m.renderPanes()
			break
		}
		if len(msg.balances) == 0 {
			m.appendNotice(noticeKindInfo, "No balances with free or locked funds.")
		}
		for _, row := range msg.balances {
			m.appendNotice(noticeKindInfo, formatBalanceLine(row))
		}
		m.statusLine = statusReady
		m.renderPanes()
	case orderDoneMsg:
		m.fetching = false
		if msg.err != nil {
			m.appendNotice(noticeKindError, "Swap failed: "+compactSingleLine(msg.err.Error(), 160))
			m.statusLine = "swap failed"
			m.renderPanes()
			break
		}
		m.appendNotice(noticeKindInfo, formatOrderLine(msg.trade, msg.result))
		m.statusLine = statusReady
		m.logDebug("order placed", "symbol", msg.trade.From+msg.trade.To, "quantity", msg.trade.Amount)
		m.renderPanes()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.ctrl.InFlight() || m.fetching {
			// Repaint so the optimistic message and spinner stay fresh.
			m.renderPanes()
		}
		cmds = append(cmds, cmd)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderPanes()
	case tea.MouseMsg:
		if m.activeTab == tabChat && !m.quitConfirm {
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			cmds = append(cmds, cmd)
		}
	case tea.KeyMsg:
		return m.handleKey(msg, cmds)
	}
	return m, tea.Batch(cmds...)
}

func (m model) handleKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if m.quitConfirm {
		switch strings.ToLower(msg.String()) {
		case "y", "enter":
			return m, tea.Quit
		case "n", "esc":
			m.quitConfirm = false
			m.renderPanes()
		}
		return m, tea.Batch(cmds...)
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.quitConfirm = true
		return m, tea.Batch(cmds...)
	case "tab", "shift+tab":
		if m.activeTab == tabChat {
			m.activeTab = tabHelp
			m.input.Blur()
		} else {
			m.activeTab = tabChat
			m.input.Focus()
		}
		m.renderPanes()
		return m, tea.Batch(cmds...)
	}

	if m.activeTab == tabHelp {
		switch msg.String() {
		case "up", "k", "pgup":
			m.transcript.LineUp(4)
		case "down", "j", "pgdown":
			m.transcript.LineDown(4)
		}
		return m, tea.Batch(cmds...)
	}

	switch msg.String() {
	case "enter":
		return m.handleEnter(cmds)
	case "pgup", "ctrl+b":
		m.transcript.LineUp(8)
		return m, tea.Batch(cmds...)
	case "pgdown", "ctrl+f":
		m.transcript.LineDown(8)
		return m, tea.Batch(cmds...)
	case "up":
		if strings.TrimSpace(m.input.Value()) == "" {
			m.transcript.LineUp(4)
			return m, tea.Batch(cmds...)
		}
	case "down":
		if strings.TrimSpace(m.input.Value()) == "" {
			m.transcript.LineDown(4)
			return m, tea.Batch(cmds...)
		}
	case "home":
		m.transcript.GotoTop()
		return m, tea.Batch(cmds...)
	case "end":
		m.transcript.GotoBottom()
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) handleEnter(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.input.Value())

	if m.pendingTrade != nil {
		trade := *m.pendingTrade
		m.pendingTrade = nil
		m.input.SetValue("")
		if strings.ToLower(raw) == m.cfg.ConfirmPhrase || strings.ToLower(raw) == "yes" {
			m.fetching = true
			m.statusLine = fmt.Sprintf("placing swap %s %s -> %s...", trade.AmountText, trade.From, trade.To)
			cmds = append(cmds, m.orderCmd(trade))
		} else {
			m.appendNotice(noticeKindInfo, tradeCancelled)
			m.statusLine = statusReady
		}
		m.renderPanes()
		return m, tea.Batch(cmds...)
	}

	if raw == "" {
		return m, tea.Batch(cmds...)
	}
	if strings.HasPrefix(raw, "/") {
		m.input.SetValue("")
		cmd := m.handleSlash(raw)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		m.renderPanes()
		return m, tea.Batch(cmds...)
	}
	if lower := strings.ToLower(raw); lower == "quit" || lower == "exit" {
		m.input.SetValue("")
		m.quitConfirm = true
		return m, tea.Batch(cmds...)
	}

	// Input stays disabled while the previous turn is pending; Enter during
	// flight is a backstop, not a path the UI offers.
	if m.ctrl.InFlight() {
		return m, tea.Batch(cmds...)
	}

	m.input.SetValue("")
	m.statusLine = statusContacting
	cmds = append(cmds, m.submitCmd(raw))
	m.renderPanes()
	return m, tea.Batch(cmds...)
}

func (m *model) handleSlash(raw string) tea.Cmd {
	parts := strings.Fields(raw)
	switch strings.ToLower(parts[0]) {
	case "/help":
		m.activeTab = tabHelp
		m.input.Blur()
		return nil
	case "/balance":
		if !m.cfg.TradingEnabled {
			m.appendNotice(noticeKindInfo, "Trading features are disabled.")
			return nil
		}
		m.fetching = true
		m.statusLine = "fetching balances..."
		return m.balanceCmd()
	case "/quit":
		m.quitConfirm = true
		return nil
	default:
		m.appendNotice(noticeKindError, "Unknown command "+parts[0]+". Try /help.")
		return nil
	}
}

// afterTurnCmds inspects a settled successful turn for trade or balance
// intents, checking the agent reply first and the raw prompt second.
func (m *model) afterTurnCmds(prompt string) []tea.Cmd {
	if !m.cfg.TradingEnabled {
		return nil
	}
	reply := ""
	msgs := m.ctrl.Messages()
	if len(msgs) > 0 && msgs[len(msgs)-1].Role == conversation.RoleAgent {
		reply = msgs[len(msgs)-1].Content
	}

	trade, ok := intent.ParseTrade(reply)
	if !ok {
		trade, ok = intent.ParseTrade(prompt)
	}
	if ok {
		if _, err := m.registry.Resolve(trade.From); err != nil {
			m.appendNotice(noticeKindError, "Swap failed: "+err.Error())
			return nil
		}
		if _, err := m.registry.Resolve(trade.To); err != nil {
			m.appendNotice(noticeKindError, "Swap failed: "+err.Error())
			return nil
		}
		m.pendingTrade = &trade
		m.appendNotice(noticeKindConfirm, fmt.Sprintf(
			"Confirm swap %s %s -> %s? Type %s to proceed, anything else to cancel.",
			trade.AmountText, trade.From, trade.To, m.cfg.ConfirmPhrase,
		))
		return nil
	}

	if intent.WantsBalance(reply) || intent.WantsBalance(prompt) {
		m.fetching = true
		m.statusLine = "fetching balances..."
		return []tea.Cmd{m.balanceCmd()}
	}
	return nil
}

func formatBalanceLine(row trading.AssetBalance) string {
	free := row.Free
	if parsed, err := strconv.ParseFloat(row.Free, 64); err == nil {
		free = intent.FormatAmount(parsed)
	}
	locked := row.Locked
	if parsed, err := strconv.ParseFloat(row.Locked, 64); err == nil {
		locked = intent.FormatAmount(parsed)
	}
	return fmt.Sprintf("%s balance: %s %s (locked %s)", row.Asset, free, row.Asset, locked)
}

func formatOrderLine(trade intent.Trade, result trading.OrderResult) string {
	line := fmt.Sprintf("Swap submitted: %s %s -> %s [%s]",
		trade.AmountText, trade.From, trade.To, result.Status)
	if id, ok := result.Order["orderId"]; ok {
		line += fmt.Sprintf(" order id %v", id)
	}
	return line
}

func (m *model) resize() {
	contentWidth := maxInt(40, m.width-4)
	headerHeight := 3
	inputHeight := 3
	footerHeight := 4
	m.transcript.Width = contentWidth
	m.transcript.Height = maxInt(4, m.height-headerHeight-inputHeight-footerHeight-2)
}

func (m *model) renderPanes() {
	wasAtBottom := m.transcript.AtBottom()
	if m.activeTab == tabHelp {
		m.transcript.SetContent(m.renderHelp())
	} else {
		m.transcript.SetContent(m.renderTranscript())
	}
	if wasAtBottom {
		m.transcript.GotoBottom()
	}
}

type transcriptLine struct {
	at     time.Time
	header string
	body   string
	style  lipgloss.Style
}

func (m *model) renderTranscript() string {
	msgs := m.ctrl.Messages()
	lines := make([]transcriptLine, 0, len(msgs)+len(m.notices))
	for _, msg := range msgs {
		style := m.theme.agentMsg
		label := "agent"
		if msg.Role == conversation.RoleUser {
			style = m.theme.userMsg
			label = "you"
		}
		lines = append(lines, transcriptLine{
			at:     msg.CreatedAt,
			header: fmt.Sprintf("%s [%s]", msg.CreatedAt.Format("15:04:05"), label),
			body:   truncate(msg.Content, timelineMaxChars),
			style:  style,
		})
	}
	for _, n := range m.notices {
		style := m.theme.noticeMsg
		if n.kind == noticeKindError {
			style = m.theme.errorStatus
		} else if n.kind == noticeKindConfirm {
			style = m.theme.confirmMsg
		}
		lines = append(lines, transcriptLine{
			at:     n.at,
			header: fmt.Sprintf("%s [superagent]", n.at.Format("15:04:05")),
			body:   n.text,
			style:  style,
		})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].at.Before(lines[j].at) })

	if len(lines) == 0 {
		return "No messages yet. Ask SuperAgent a question to get started."
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line.style.Render(line.header))
		b.WriteString("\n")
		b.WriteString(wrapText(line.body, maxInt(24, m.transcript.Width-2)))
		b.WriteString("\n\n")
	}
	if m.ctrl.InFlight() {
		b.WriteString(m.theme.helpText.Render(m.spinner.View() + " SuperAgent is thinking..."))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *model) renderHelp() string {
	lines := []string{
		m.theme.panelTitle.Render("SuperAgent TUI"),
		"",
		"Type a prompt and press Enter. The message shows up immediately and is",
		"rolled back if the backend cannot be reached; failed prompts must be",
		"re-typed.",
		"",
		m.theme.panelTitle.Render("Commands"),
		"  /balance        fetch account balances",
		"  /help           open this tab",
		"  /quit           quit (also: quit, exit, Esc)",
		"",
		m.theme.panelTitle.Render("Trading"),
		"  Trade intents in your prompt or the agent reply, like",
		"  \"swap 0.5 ETH to USDC\", ask for a y/n confirmation before a",
		"  MARKET order is sent to the backend.",
		"",
		m.theme.panelTitle.Render("Environment"),
		"  SUPERAGENT_API_BASE          backend base URL",
		"  SUPERAGENT_TRADING_ENABLED   toggle trade/balance features",
		"  SUPERAGENT_DEBUG_LOG         JSON debug log file",
		"",
		"Press Tab to return to the chat.",
	}
	return strings.Join(lines, "\n")
}

func (m *model) renderHeader() string {
	contentWidth := maxInt(40, m.width-4)
	tabs := []string{}
	for _, tab := range []struct {
		id    tabID
		label string
	}{{tabChat, "Chat"}, {tabHelp, "Help"}} {
		if tab.id == m.activeTab {
			tabs = append(tabs, m.theme.tabActive.Render(tab.label))
		} else {
			tabs = append(tabs, m.theme.tabInactive.Render(tab.label))
		}
	}
	title := m.theme.panelTitle.Render(banner) + "  " + m.theme.helpText.Render(m.cfg.APIBase)
	return m.theme.header.Width(contentWidth).Render(title + "\n" + strings.Join(tabs, " "))
}

func (m *model) renderInput() string {
	contentWidth := maxInt(40, m.width-4)
	if m.activeTab != tabChat {
		return m.theme.inputPanel.Width(contentWidth).Render(m.theme.helpText.Render("Input disabled outside Chat. Press Tab to return."))
	}
	inputView := m.input.View()
	if m.ctrl.InFlight() || m.fetching {
		inputView = m.spinner.View() + " working... " + inputView
	}
	return m.theme.inputPanel.Width(contentWidth).Render(inputView)
}

func (m *model) renderFooter() string {
	contentWidth := maxInt(40, m.width-4)
	statusStyle := m.theme.status
	lower := strings.ToLower(m.statusLine)
	if strings.Contains(lower, "fail") || strings.Contains(lower, "unable") || strings.Contains(lower, "error") {
		statusStyle = m.theme.errorStatus
	}
	line := statusStyle.Render(compactSingleLine(m.statusLine, 180))
	hints := m.theme.helpText.Render("Keys: Enter send · Tab help · PgUp/PgDn scroll · Esc quit prompt · Ctrl+C quit")
	return m.theme.footer.Width(contentWidth).Render(line + "\n" + hints)
}

func (m *model) renderQuitModal() string {
	canvasWidth := maxInt(40, m.width-4)
	canvasHeight := maxInt(12, m.height-4)
	modalWidth := clampInt(int(float64(canvasWidth)*0.5), 36, 70)

	body := strings.Join([]string{
		m.theme.errorStatus.Render("Quit SuperAgent?"),
		m.theme.helpText.Render("The conversation is not persisted and will be lost."),
		"",
		m.theme.modalAccent.Render("[Y / Enter] Quit") + "    " + m.theme.helpText.Render("[N / Esc] Return"),
	}, "\n")
	panel := m.theme.modalFrame.Width(modalWidth).Render(body)
	return lipgloss.Place(
		canvasWidth,
		canvasHeight,
		lipgloss.Center,
		lipgloss.Center,
		panel,
		lipgloss.WithWhitespaceBackground(lipgloss.Color("#10081f")),
	)
}

func (m model) View() string {
	out := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.theme.panel.Width(maxInt(40, m.width-4)).Render(m.transcript.View()),
		m.renderInput(),
		m.renderFooter(),
	)
	if m.quitConfirm {
		out = m.renderQuitModal()
	}
	return m.theme.root.Render(out)
}

func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if len(line)+1+len(word) > width {
				out = append(out, line)
				line = word
				continue
			}
			line += " " + word
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	if limit <= 3 {
		return text[:limit]
	}
	return text[:limit-3] + "..."
}

func compactSingleLine(text string, limit int) string {
	return truncate(strings.Join(strings.Fields(text), " "), limit)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func parseFlags(cfg config.Config) config.Config {
	flag.StringVar(&cfg.APIBase, "api-base", cfg.APIBase, "SuperAgent backend base URL")
	flag.BoolVar(&cfg.TradingEnabled, "trading", cfg.TradingEnabled, "Enable trade and balance features")
	flag.StringVar(&cfg.ConfirmPhrase, "confirm-phrase", cfg.ConfirmPhrase, "Phrase that confirms a pending trade")
	flag.BoolVar(&cfg.AltScreen, "alt-screen", cfg.AltScreen, "Use alternate screen buffer")
	flag.StringVar(&cfg.DebugLogPath, "debug-log", cfg.DebugLogPath, "Optional JSON debug log file")
	flag.Parse()
	cfg.ConfirmPhrase = strings.ToLower(strings.TrimSpace(cfg.ConfirmPhrase))
	return cfg
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "superagent-tui: %v\n", err)
		os.Exit(1)
	}
	cfg = parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "superagent-tui: %v\n", err)
		os.Exit(1)
	}

	ctrl := conversation.NewController(agent.NewClient(cfg.APIBase))
	m := newModel(cfg, ctrl, trading.NewClient(cfg.APIBase))

	if cfg.DebugLogPath != "" {
		logFile, err := os.OpenFile(cfg.DebugLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "superagent-tui: open debug log: %v\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
		m.debug = slog.New(slog.NewJSONHandler(logFile, nil))
	}

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "superagent-tui fatal error: %v\n", err)
		os.Exit(1)
	}
}
