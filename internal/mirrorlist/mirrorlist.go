// Package mirrorlist renders mirrors into pacman's mirror list format and
// writes the result to a stream or a file. One mirror becomes one line:
//
//	Server = https://mirror.example.com/archlinux/$repo/os/$arch
package mirrorlist

import (
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/davoli/specchio/internal/errors"
	"github.com/davoli/specchio/internal/logging"
	"github.com/davoli/specchio/internal/mirror"
)

// filePerm is the mode of a written mirror list. Pacman runs as root but the
// list must stay world-readable.
const filePerm = 0644

// Renderer turns mirrors into mirror list lines.
type Renderer struct {
	header  bool
	summary string
	logger  *logging.Logger
}

// NewRenderer creates a Renderer. When header is set, the rendered list
// starts with a comment block naming the generator, the generation time, and
// the given configuration summary.
func NewRenderer(header bool, summary string, logger *logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.NopLogger()
	}

	return &Renderer{
		header:  header,
		summary: summary,
		logger:  logger.WithComponent("output"),
	}
}

// Lines returns the mirror list lines for the given mirrors. Mirrors whose
// URL cannot be parsed are skipped with a warning.
func (r *Renderer) Lines(mirrors []mirror.Mirror) []string {
	lines := make([]string, 0, len(mirrors)+3)

	if r.header {
		lines = append(lines,
			"# Mirror list generated with specchio",
			fmt.Sprintf("#     on %s", time.Now().Format("2006-01-02 15:04:05")),
			fmt.Sprintf("#     with configuration: %s", r.summary),
		)
	}

	for i := range mirrors {
		url, err := mirrors[i].RepoURL()
		if err != nil {
			r.logger.Warn("skipping mirror with unparsable URL",
				"url", mirrors[i].URL, "error", err.Error())
			continue
		}
		lines = append(lines, "Server = "+url)
	}

	return lines
}

// Print streams lines to w one at a time. When the consumer goes away, as
// with `specchio generate | head`, the broken pipe ends the stream without
// an error. Requires SIGPIPE to be ignored so writes surface EPIPE instead
// of killing the process.
func Print(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			if errors.Is(err, syscall.EPIPE) {
				return nil
			}
			return errors.NewOutputError("cannot write mirror list", err)
		}
	}
	return nil
}

// WriteFile writes lines to path, followed by a trailing newline.
func WriteFile(path string, lines []string) error {
	data := strings.Join(lines, "\n") + "\n"

	if err := os.WriteFile(path, []byte(data), filePerm); err != nil {
		return errors.NewOutputError("cannot write mirror list", err).WithPath(path)
	}

	return nil
}
