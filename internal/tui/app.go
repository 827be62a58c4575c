// Package tui renders the menu-driven terminal screens. It reads stdin
// line-by-line and delegates every business decision to the domain
// services; no linking or validation rules live here.
package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"medisave/internal/domain/negotiation"
	"medisave/internal/domain/session"
	"medisave/internal/domain/sync"
	"medisave/internal/domain/user"
	"medisave/internal/infrastructure/provider"
)

// App drives the screen loop over a line-oriented terminal.
type App struct {
	in      *bufio.Reader
	out     io.Writer
	users   *user.Service
	linker  *sync.Service
	drafter *negotiation.Drafter
}

// New creates the terminal app over the given streams.
func New(in io.Reader, out io.Writer, users *user.Service, linker *sync.Service, drafter *negotiation.Drafter) *App {
	return &App{
		in:      bufio.NewReader(in),
		out:     out,
		users:   users,
		linker:  linker,
		drafter: drafter,
	}
}

// Run shows the main menu until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) error {
	for {
		a.header("Welcome to Medisave")
		a.println("  1) Login")
		a.println("  2) Sign Up")
		a.println("  3) Exit")

		choice, err := a.readLine("> ")
		if err != nil {
			return a.finish(err)
		}

		switch choice {
		case "1":
			sess, err := a.loginScreen(ctx)
			if err != nil {
				return a.finish(err)
			}
			if sess == nil {
				continue
			}
			if err := a.sessionLoop(ctx, sess); err != nil {
				return a.finish(err)
			}
			return nil
		case "2":
			if err := a.signupScreen(ctx); err != nil {
				return a.finish(err)
			}
		case "3", "":
			a.println("Goodbye.")
			return nil
		default:
			a.println("Please choose 1, 2 or 3.")
		}
	}
}

// finish turns end-of-input into a clean exit.
func (a *App) finish(err error) error {
	if errors.Is(err, io.EOF) {
		a.println("")
		return nil
	}
	return err
}

func (a *App) readLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

func (a *App) header(title string) {
	fmt.Fprintf(a.out, "\n=== %s ===\n\n", title)
}

// errMessage maps domain errors to the user-facing strings. Anything
// unmapped is shown verbatim; every failure returns to the prior screen.
func errMessage(err error) string {
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		return "Invalid credentials."
	case errors.Is(err, user.ErrEmailTaken):
		return "That email is taken."
	case errors.Is(err, provider.ErrTimeout):
		return "The bank provider timed out. Please try again."
	case errors.Is(err, provider.ErrProvider):
		return "The bank provider rejected the request."
	case errors.Is(err, negotiation.ErrTimeout):
		return "Email generation timed out. Please try again."
	case errors.Is(err, negotiation.ErrGeneration):
		return "Could not generate the email."
	default:
		return "Error: " + err.Error()
	}
}

// renderLines prints a projection with the amounts column aligned, the way
// the bill and bank screens lay out their lists.
func renderLines(out io.Writer, lines []session.Line) {
	width := 0
	for _, l := range lines {
		if !l.Sentinel && len(l.Label) > width {
			width = len(l.Label)
		}
	}
	for _, l := range lines {
		if l.Sentinel {
			fmt.Fprintln(out, l.Label)
			continue
		}
		fmt.Fprintf(out, "%-*s: $%s\n", width, l.Label, l.Amount.StringFixed(2))
	}
}

// wrap splits text into lines at most width runes long, breaking on
// spaces and keeping blank lines as paragraph separators.
func wrap(text string, width int) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		para = strings.TrimRight(para, " \t")
		if strings.TrimSpace(para) == "" {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
