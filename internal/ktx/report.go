package ktx

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationReport is a single diagnostic delivered to a Sink. It carries
// everything a presentation layer needs without referring back into the
// validator: kind, a stable numeric id, a short message, and a rendered
// detail string.
type ValidationReport struct {
	Severity Severity
	ID       int
	Message  string
	Details  string
}

// Sink receives reports as they are produced, in detection order. It is a
// first-class function value rather than an interface with a single
// method, matching §9's "no base class" design note.
type Sink func(ValidationReport)

// TextLine renders a report the way the CLI's text formatter does: a
// "<severity>-<id>: <message>" line followed by an indented detail line.
func (r ValidationReport) TextLine() string {
	return fmt.Sprintf("%s-%d: %s\n    %s", r.Severity, r.ID, r.Message, r.Details)
}

// jsonReport is the wire shape of a single message inside the validator's
// JSON report, per SPEC_FULL.md §6.
type jsonReport struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// Result aggregates every report from one validation run, in emission
// order, along with the error/warning counters and whether the run ended
// with a fatal.
type Result struct {
	Reports      []ValidationReport
	NumErrors    int
	NumWarnings  int
	Fatal        bool
	WarnAsErrors bool
}

// Valid reports whether the run produced no errors or fatals (warnings
// alone never invalidate a file, per §7).
func (r Result) Valid() bool {
	return r.NumErrors == 0 && !r.Fatal
}

// ExitCode maps a Result to the validator's exit-code contract: 0 clean,
// 3 validation failed.
func (r Result) ExitCode() int {
	if r.Valid() {
		return 0
	}
	return 3
}

// TextReport renders every collected report as newline-separated text
// lines, in the order they were recorded.
func (r Result) TextReport() string {
	lines := make([]string, 0, len(r.Reports))
	for _, rep := range r.Reports {
		lines = append(lines, rep.TextLine())
	}
	return strings.Join(lines, "\n")
}

// JSONReport renders the {"valid":..., "messages":[...]} shape from §6.
// When minified is true, the output carries no extraneous whitespace.
func (r Result) JSONReport(minified bool) ([]byte, error) {
	msgs := make([]jsonReport, 0, len(r.Reports))
	for _, rep := range r.Reports {
		msgs = append(msgs, jsonReport{
			ID:      rep.ID,
			Type:    rep.Severity.String(),
			Message: rep.Message,
			Details: rep.Details,
		})
	}
	payload := struct {
		Valid    bool         `json:"valid"`
		Messages []jsonReport `json:"messages"`
	}{
		Valid:    r.Valid(),
		Messages: msgs,
	}
	if minified {
		return json.Marshal(payload)
	}
	return json.MarshalIndent(payload, "", "  ")
}
