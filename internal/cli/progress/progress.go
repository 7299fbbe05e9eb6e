// Package progress shows a spinner with read/write progress on stderr while
// a long board operation runs.
package progress

import (
	"context"
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/dustin/go-humanize"
	"github.com/thenoetrevino/boardframe/internal/cli/styles"
	boardservice "github.com/thenoetrevino/boardframe/internal/services/board"
)

type progressMsg boardservice.Progress

type doneMsg struct{ err error }

// model is the bubbletea model behind the spinner
type model struct {
	spinner  spinner.Model
	title    string
	progress boardservice.Progress
	done     bool
}

func newModel(title string) model {
	return model{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		title:   title,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.progress = boardservice.Progress(msg)
		return m, nil
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m model) View() tea.View {
	return tea.NewView(m.render())
}

func (m model) render() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(m.title)
	if line := describe(m.progress); line != "" {
		b.WriteString(" ")
		b.WriteString(styles.SubtitleStyle.Render(line))
	}
	b.WriteString("\n")
	return b.String()
}

// describe renders a progress update such as "write 1,200/5,000"
func describe(p boardservice.Progress) string {
	if p.Stage == "" {
		return ""
	}
	if p.Total > 0 {
		return fmt.Sprintf("%s %s/%s", p.Stage, humanize.Comma(int64(p.Done)), humanize.Comma(int64(p.Total)))
	}
	return fmt.Sprintf("%s %s", p.Stage, humanize.Comma(int64(p.Done)))
}

// Run calls fn with a progress callback. When enabled a spinner is drawn on
// out until fn returns; otherwise the callback does nothing.
func Run(ctx context.Context, out io.Writer, title string, enabled bool, fn func(boardservice.ProgressFunc) error) error {
	if !enabled {
		return fn(func(boardservice.Progress) {})
	}

	p := tea.NewProgram(newModel(title),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
	)

	errc := make(chan error, 1)
	go func() {
		err := fn(func(pr boardservice.Progress) {
			p.Send(progressMsg(pr))
		})
		errc <- err
		p.Send(doneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		// The program stops early on context cancellation; fn still owns the result
		fnErr := <-errc
		if fnErr != nil {
			return fnErr
		}
		return err
	}
	return <-errc
}
