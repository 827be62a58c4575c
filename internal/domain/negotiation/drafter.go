// Package negotiation formats the session working set into a prompt and
// delegates to an external text-generation service to draft a bill
// negotiation email.
package negotiation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"medisave/internal/domain/session"
)

// Domain errors. ErrTimeout is a kind of ErrGeneration so callers that only
// care about "drafting failed" match both.
var (
	ErrGeneration = errors.New("email generation failed")
	ErrTimeout    = fmt.Errorf("%w: timed out", ErrGeneration)
)

// Generator is the external text-generation service.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// Drafter builds negotiation emails from a session's working set.
type Drafter struct {
	gen         Generator
	maxTokens   int
	temperature float64
}

// NewDrafter creates a new drafter.
func NewDrafter(gen Generator, maxTokens int, temperature float64) *Drafter {
	return &Drafter{
		gen:         gen,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Draft serializes the working set into the negotiation prompt and asks the
// generator for the email text. Any generator failure is ErrGeneration, a
// deadline is ErrTimeout; the session is never touched either way.
func (d *Drafter) Draft(ctx context.Context, sess *session.Session) (string, error) {
	prompt := BuildPrompt(sess)

	text, err := d.gen.Generate(ctx, prompt, d.maxTokens, d.temperature)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}

	slog.Debug("generated negotiation email", "user_id", sess.UserID, "chars", len(text))
	return text, nil
}

// BuildPrompt produces a deterministic textual representation of the three
// working-set lists: same session, same prompt, byte for byte.
func BuildPrompt(sess *session.Session) string {
	var b strings.Builder

	b.WriteString("Act as a professional negotiator writing a formal email to the hospital billing\n")
	b.WriteString("department to come to a settlement that the patient can handle. The goal is that\n")
	b.WriteString("the patient pays off their debt to the hospital and is not left to debt\n")
	b.WriteString("collectors. Below is the patient's bank account data, their recent transactions,\n")
	b.WriteString("and the hospital bills they face.\n")

	b.WriteString("\nAccounts:\n")
	writeLines(&b, session.AccountLines(sess.Accounts))

	b.WriteString("\nTransactions:\n")
	writeLines(&b, session.TransactionLines(sess.Transactions))

	b.WriteString("\nHospital bills:\n")
	writeLines(&b, session.BillLines(sess.Bills))

	b.WriteString("\nRESPOND IN PLAIN TEXT, DO NOT RESPOND IN MARKDOWN. ONLY RESPOND WITH THE EMAIL.\n")
	return b.String()
}

func writeLines(b *strings.Builder, lines []session.Line) {
	for _, line := range lines {
		if line.Sentinel {
			fmt.Fprintf(b, "- %s\n", line.Label)
			continue
		}
		fmt.Fprintf(b, "- %s: $%s\n", line.Label, line.Amount.StringFixed(2))
	}
}
