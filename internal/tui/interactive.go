package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/eqsolve/internal/catalog"
	"github.com/san-kum/eqsolve/internal/logging"
	"github.com/san-kum/eqsolve/internal/resolver"
	"github.com/san-kum/eqsolve/internal/storage"
)

var errNoUnknown = errors.New("press u on a variable to mark it as the unknown")

type state int

const (
	stateMenu state = iota
	stateForm
)

// Options configures the interactive app. History and Logger may be nil.
type Options struct {
	Catalog   *catalog.Catalog
	Resolver  *resolver.Resolver
	Precision int
	History   *storage.Store
	Logger    *slog.Logger
}

type model struct {
	state state
	opts  Options

	items  []catalog.Equation
	cursor int

	selected    catalog.Equation
	fieldCursor int
	values      map[string]string
	unknown     string

	result string
	err    error

	width  int
	height int
}

func NewApp(opts Options) model {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Builtin()
	}
	if opts.Resolver == nil {
		opts.Resolver = resolver.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return model{
		state:  stateMenu,
		opts:   opts,
		items:  opts.Catalog.List(),
		width:  80,
		height: 24,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateForm:
		return m.formKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.items) == 0 {
			return m, nil
		}
		m.open(m.items[m.cursor])
	}
	return m, nil
}

func (m *model) open(eq catalog.Equation) {
	m.state = stateForm
	m.selected = eq
	m.fieldCursor = 0
	m.values = make(map[string]string, len(eq.Variables))
	m.unknown = ""
	m.result = ""
	m.err = nil
}

func (m model) formKey(msg tea.KeyMsg) (model, tea.Cmd) {
	vars := m.selected.Variables
	name := vars[m.fieldCursor]

	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = stateMenu
	case "up", "shift+tab":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "tab":
		if m.fieldCursor < len(vars)-1 {
			m.fieldCursor++
		}
	case "u":
		m.unknown = name
		delete(m.values, name)
		m.result, m.err = "", nil
	case "backspace":
		if v := m.values[name]; len(v) > 0 {
			m.values[name] = v[:len(v)-1]
		}
	case "enter":
		m.solve()
	default:
		if len(key) == 1 && isNumberChar(key[0]) {
			if name == m.unknown {
				m.unknown = ""
			}
			m.values[name] += key
		}
	}
	return m, nil
}

func isNumberChar(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E'
}

func (m *model) solve() {
	m.result, m.err = "", nil
	if m.unknown == "" {
		m.err = errNoUnknown
		return
	}

	bindings := make(map[string]float64, len(m.values))
	for _, v := range m.selected.Variables {
		text := strings.TrimSpace(m.values[v])
		if v == m.unknown || text == "" {
			continue
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			m.err = fmt.Errorf("%s: %q is not a number", v, text)
			return
		}
		bindings[v] = f
	}

	res, err := m.selected.Solve(m.opts.Resolver, bindings, m.unknown)
	if m.opts.History != nil && (err == nil || resolver.IsNumericFailure(err)) {
		rec := storage.NewRecord(m.selected.Name, m.selected.Formula, m.unknown, bindings, res, err)
		if id, saveErr := m.opts.History.Save(rec); saveErr != nil {
			m.opts.Logger.Warn("failed to save history record", "error", saveErr)
		} else {
			m.opts.Logger.Debug("saved history record", "id", id)
		}
	}
	if err != nil {
		m.err = err
		return
	}

	m.result = resolver.Format(res.Value, m.opts.Precision)
	if unit := m.selected.Unit(m.unknown); unit != "" {
		m.result += " " + unit
	}
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateForm:
		return m.viewForm()
	}
	return ""
}

func (m model) viewMenu() string {
	var lines []string
	cursorLine := 0
	category := ""
	for i, eq := range m.items {
		if eq.Category != category {
			category = eq.Category
			if len(lines) > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, "      "+categoryStyle.Render(category))
		}
		if i == m.cursor {
			cursorLine = len(lines)
			lines = append(lines, "      "+cyan.Render("▸ ")+white.Render(fmt.Sprintf("%-22s", eq.Name))+dim.Render(eq.Formula))
		} else {
			lines = append(lines, "        "+dim.Render(fmt.Sprintf("%-22s", eq.Name))+dimmer.Render(eq.Formula))
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("e q s o l v e") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for _, line := range visible(lines, cursorLine, m.height-9) {
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(keyHint.Render("      ↑↓ select   enter open   q quit") + "\n")
	return b.String()
}

// visible returns the window of at most n lines that keeps line cur in view.
func visible(lines []string, cur, n int) []string {
	if n < 5 {
		n = 5
	}
	if len(lines) <= n {
		return lines
	}
	start := max(cur-n/2, 0)
	end := start + n
	if end > len(lines) {
		end = len(lines)
		start = end - n
	}
	return lines[start:end]
}

func (m model) viewForm() string {
	var b strings.Builder
	eq := m.selected

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(eq.Name) + "  " + dim.Render(eq.Category) + "\n")
	b.WriteString("      " + formulaStyle.Render(eq.Formula) + "\n")
	if eq.Description != "" {
		b.WriteString("      " + dim.Render(eq.Description) + "\n")
	}
	b.WriteString("      " + separator(36) + "\n\n")

	for i, v := range eq.Variables {
		label := fmt.Sprintf("%-10s", v)
		var val string
		switch {
		case v == m.unknown:
			val = yellow.Render(fmt.Sprintf("%12s", "?"))
		case i == m.fieldCursor:
			val = magenta.Render(fmt.Sprintf("%12s", m.values[v]+"▋"))
		default:
			val = dim.Render(fmt.Sprintf("%12s", m.values[v]))
		}
		unit := dimmer.Render(" " + eq.Unit(v))

		if i == m.fieldCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(label) + val + unit + "\n")
		} else {
			b.WriteString("        " + dim.Render(label) + val + unit + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(resultPanel.Render(red.Render(m.err.Error())) + "\n")
	case m.result != "":
		b.WriteString(resultPanel.Render(white.Render(m.unknown+" = ")+green.Render(m.result)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(keyHint.Render("      ↑↓ select  type value  u unknown  enter solve  esc back  q quit") + "\n")
	return b.String()
}

func Run(opts Options) error {
	p := tea.NewProgram(NewApp(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
