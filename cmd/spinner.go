package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
)

// spinner renders a rotating indicator with a label and a detail line
// that updates in-place while generation is running. When out is not a
// terminal it prints each new label on its own line instead.
type spinner struct {
	out    io.Writer
	live   bool
	mu     sync.Mutex
	label  string
	detail string
	done   chan struct{}
	exited chan struct{}
}

func newSpinner(out io.Writer) *spinner {
	live := false
	if f, ok := out.(*os.File); ok {
		live = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &spinner{out: out, live: live, done: make(chan struct{}), exited: make(chan struct{})}
}

func (s *spinner) setLabel(l string) {
	s.mu.Lock()
	s.label = l
	s.mu.Unlock()
	if !s.live {
		fmt.Fprintf(s.out, "  %s\n", l)
	}
}

func (s *spinner) setDetail(d string) {
	s.mu.Lock()
	s.detail = truncateDetail(d)
	s.mu.Unlock()
}

// detailWidth is the widest detail line, in terminal cells.
const detailWidth = 72

// truncateDetail shortens long npm lines so they fit on one terminal line.
// It cuts by display width, so multi-byte tree glyphs stay intact.
func truncateDetail(d string) string {
	if ansi.StringWidth(d) <= detailWidth {
		return d
	}
	return ansi.Truncate(d, detailWidth, "...")
}

// start launches the render loop in a goroutine.
func (s *spinner) start() {
	if !s.live {
		close(s.exited)
		return
	}
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	go func() {
		defer close(s.exited)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.mu.Lock()
				label := s.label
				detail := s.detail
				s.mu.Unlock()

				// \r returns to column 0; \033[K clears to end of line.
				fmt.Fprintf(s.out, "\r\033[K  %s %s\n\r\033[K    %s",
					frames[i%len(frames)],
					label,
					dim.Render(detail),
				)
				// Move cursor up one line so next tick overwrites both lines.
				fmt.Fprint(s.out, "\033[1A")
			}
		}
	}()
}

// stop halts the spinner and prints a final status line.
func (s *spinner) stop(err error) {
	close(s.done)
	<-s.exited

	s.mu.Lock()
	label := s.label
	s.mu.Unlock()

	if s.live {
		// Clear both lines used by the spinner.
		fmt.Fprint(s.out, "\r\033[K\033[1B\r\033[K\033[1A")
	}

	if err == nil {
		ok := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		fmt.Fprintf(s.out, "  %s %s\n", ok.Render("✓"), label)
	} else {
		bad := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		fmt.Fprintf(s.out, "  %s %s\n", bad.Render("✗"), label)
	}
}
