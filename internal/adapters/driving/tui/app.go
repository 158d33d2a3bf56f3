// Package tui implements the interactive query browser. A single view
// combines a query input with a scrollable, cited result list, following
// the Elm architecture.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
)

// Config wires the query browser to the core.
type Config struct {
	// Knowledge runs the queries.
	Knowledge driving.KnowledgeService

	// Tenant scopes every query.
	Tenant string
}

// queryCompleted delivers query results back to the update loop.
type queryCompleted struct {
	results []domain.QueryResult
	err     error
}

// App is the query browser model. It implements tea.Model.
type App struct {
	knowledge driving.KnowledgeService
	tenant    string
	ctx       context.Context
	styles    *Styles

	input   textinput.Model
	results viewport.Model

	hits     []domain.QueryResult
	selected int

	// offsets records the first viewport line of each result entry so
	// the selection can be scrolled into view.
	offsets []int

	searching  bool
	err        error
	focusInput bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the query browser.
func NewApp(cfg Config) *App {
	input := textinput.New()
	input.Placeholder = "Ask the knowledge base..."
	input.CharLimit = 512
	input.Focus()

	return &App{
		knowledge:  cfg.Knowledge,
		tenant:     cfg.Tenant,
		ctx:        context.Background(),
		styles:     DefaultStyles(),
		input:      input,
		results:    viewport.New(80, 15),
		focusInput: true,
	}
}

// WithContext sets the context used for queries.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("corpora - knowledge base"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case queryCompleted:
		a.searching = false
		a.err = msg.err
		if msg.err != nil {
			return a, nil
		}
		a.hits = msg.results
		a.selected = 0
		a.focusInput = false
		a.input.Blur()
		a.results.SetContent(a.renderResults())
		a.results.GotoTop()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKey processes keyboard input for whichever pane has focus.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.focusInput {
		return a.handleInputKey(msg)
	}
	return a.handleResultsKey(msg)
}

func (a *App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		query := strings.TrimSpace(a.input.Value())
		if query == "" || a.searching {
			return a, nil
		}
		a.searching = true
		a.err = nil
		return a, a.performQuery(query)

	case tea.KeyEsc:
		// Esc drops back to the results when there are any, otherwise quits
		if len(a.hits) > 0 {
			a.focusInput = false
			a.input.Blur()
			return a, nil
		}
		return a, tea.Quit

	case tea.KeyTab:
		if len(a.hits) > 0 {
			a.focusInput = false
			a.input.Blur()
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		a.moveSelection(-1)
		return a, nil
	case tea.KeyDown:
		a.moveSelection(1)
		return a, nil
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		a.results, cmd = a.results.Update(msg)
		return a, cmd
	case tea.KeyEsc, tea.KeyTab:
		a.focusInput = true
		a.input.Focus()
		return a, textinput.Blink
	}

	switch msg.String() {
	case "k":
		a.moveSelection(-1)
	case "j":
		a.moveSelection(1)
	case "n", "/":
		// New query: clear input and focus it
		a.focusInput = true
		a.input.SetValue("")
		a.input.Focus()
		return a, textinput.Blink
	case "q":
		return a, tea.Quit
	}

	return a, nil
}

// performQuery runs a query off the update loop.
func (a *App) performQuery(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.knowledge.Query(a.ctx, query, domain.QueryOptions{
			TenantID: a.tenant,
		})
		return queryCompleted{results: results, err: err}
	}
}

// moveSelection shifts the highlighted result and keeps it visible.
func (a *App) moveSelection(delta int) {
	next := a.selected + delta
	if next < 0 || next >= len(a.hits) {
		return
	}
	a.selected = next
	a.results.SetContent(a.renderResults())
	a.scrollToSelected()
}

func (a *App) scrollToSelected() {
	if a.selected >= len(a.offsets) {
		return
	}
	top := a.offsets[a.selected]
	bottom := a.results.TotalLineCount()
	if a.selected+1 < len(a.offsets) {
		bottom = a.offsets[a.selected+1]
	}
	switch {
	case top < a.results.YOffset:
		a.results.SetYOffset(top)
	case bottom > a.results.YOffset+a.results.Height:
		a.results.SetYOffset(bottom - a.results.Height)
	}
}

// renderResults rebuilds the viewport content and records where each
// entry starts.
func (a *App) renderResults() string {
	if len(a.hits) == 0 {
		a.offsets = nil
		return a.styles.Muted.Render("No results found.")
	}

	blocks := make([]string, 0, len(a.hits))
	offsets := make([]int, 0, len(a.hits))
	line := 0
	for i := range a.hits {
		block := a.renderResult(i)
		offsets = append(offsets, line)
		line += strings.Count(block, "\n") + 2 // plus the separating blank line
		blocks = append(blocks, block)
	}
	a.offsets = offsets
	return strings.Join(blocks, "\n\n")
}

// renderResult renders one entry. The selected entry expands to the
// full cited passage; the others show their snippet.
func (a *App) renderResult(i int) string {
	r := &a.hits[i]
	c := &r.Citation

	title := fmt.Sprintf("[%d] %s (%.2f)", i+1, c.DocumentTitle, r.RelevanceScore)
	lines := make([]string, 0, 4)
	if i == a.selected {
		lines = append(lines, a.styles.Selected.Render(title))
	} else {
		lines = append(lines, a.styles.Subtitle.Render(title))
	}

	origin := c.SourceName
	if c.Section > 0 {
		origin += fmt.Sprintf(" > section %d", c.Section)
	}
	lines = append(lines, a.styles.Muted.Render("    "+origin))

	bodyWidth := a.results.Width - 4
	if bodyWidth < 20 {
		bodyWidth = 20
	}
	if i == a.selected {
		body := c.Text
		if body == "" {
			body = r.ContentPreview
		}
		lines = append(lines, a.styles.Normal.Width(bodyWidth).PaddingLeft(4).Render(body))
		lines = append(lines, a.styles.Muted.Render(fmt.Sprintf("    confidence %.2f", c.Confidence)))
	} else {
		snippet := c.Snippet
		if snippet == "" {
			snippet = r.ContentPreview
		}
		lines = append(lines, a.styles.Normal.Width(bodyWidth).PaddingLeft(4).Render(snippet))
	}

	return strings.Join(lines, "\n")
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections,
		a.styles.Title.Render("Corpora"),
		"",
		a.styles.InputField.Render(a.input.View()),
		"",
	)
	if a.err != nil {
		sections = append(sections, a.styles.Error.Render("Error: "+a.err.Error()), "")
	}
	sections = append(sections, a.results.View(), "", a.renderStatus())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderStatus() string {
	var text string
	switch {
	case a.searching:
		text = "Searching..."
	case a.err != nil:
		text = a.err.Error()
	case len(a.hits) > 0:
		text = fmt.Sprintf("%d results", len(a.hits))
		if mode, ok := a.hits[0].Metadata["search_mode"].(string); ok &&
			mode == string(domain.SearchModeTextFallback) {
			text += " (lexical fallback)"
		}
		text += "  j/k navigate  n new query  q quit"
	default:
		text = "enter runs the query  esc quits"
	}
	return a.styles.StatusBar.Width(a.width).Render(text)
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.input.Width = width - 6

	// Reserve space for the header, input box and status bar
	viewportHeight := height - 10
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	a.results.Width = width
	a.results.Height = viewportHeight
	if len(a.hits) > 0 {
		a.results.SetContent(a.renderResults())
		a.scrollToSelected()
	}
}

// Query returns the current query text.
func (a *App) Query() string {
	return a.input.Value()
}

// Results returns the current result set.
func (a *App) Results() []domain.QueryResult {
	return a.hits
}

// SelectedIndex returns the index of the highlighted result.
func (a *App) SelectedIndex() int {
	return a.selected
}

// Err returns the last query error.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// InputFocused returns whether the query input has focus.
func (a *App) InputFocused() bool {
	return a.focusInput
}

// Searching returns whether a query is in flight.
func (a *App) Searching() bool {
	return a.searching
}
