package combine

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// progress shows a spinner while files are read. It is a no-op unless the
// diagnostic writer is an interactive terminal.
type progress struct {
	mu      sync.Mutex
	spinner *pterm.SpinnerPrinter
	total   int
	done    int
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func startProgress(enabled bool, w io.Writer, total int) *progress {
	p := &progress{total: total}
	if !enabled || total == 0 || !isTerminal(w) {
		return p
	}
	spinner := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100 * time.Millisecond).
		WithRemoveWhenDone(true).
		WithWriter(w)
	started, err := spinner.Start(p.text())
	if err == nil {
		p.spinner = started
	}
	return p
}

func (p *progress) text() string {
	return fmt.Sprintf("Reading files %d/%d", p.done, p.total)
}

// step records one finished file. Safe for concurrent use.
func (p *progress) step(FileContent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if p.spinner != nil {
		p.spinner.UpdateText(p.text())
	}
}

func (p *progress) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spinner != nil {
		_ = p.spinner.Stop()
		p.spinner = nil
	}
}
