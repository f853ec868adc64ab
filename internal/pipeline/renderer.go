package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/ppiankov/proofline/internal/model"
	"github.com/ppiankov/proofline/internal/score"
)

var (
	errorColor    = color.New(color.FgRed, color.Bold)
	warningColor  = color.New(color.FgYellow, color.Bold)
	locationColor = color.New(color.FgCyan)
	successColor  = color.New(color.FgGreen)
	dimColor      = color.New(color.Faint)
)

// locationWidth is the display width of the location column
const locationWidth = 18

// Renderer writes check output as JSON or colored text
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// JSON writes v as indented JSON without HTML escaping
func (r *Renderer) JSON(v interface{}) error {
	enc := json.NewEncoder(r.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// Result writes one line per issue followed by a summary
func (r *Renderer) Result(result model.CheckResult) error {
	if result.Count == 0 {
		_, err := successColor.Fprintln(r.out, "✓ 未发现问题")
		return err
	}

	for _, issue := range result.Issues {
		if err := r.issue(issue); err != nil {
			return err
		}
	}

	s := score.Tally(result)
	_, err := fmt.Fprintf(r.out, "\n%d issues (%s, %s) · index %d/100 · %s\n",
		s.Total,
		errorColor.Sprintf("%d errors", s.Errors),
		warningColor.Sprintf("%d warnings", s.Warnings),
		s.Index, s.Grade)
	return err
}

func (r *Renderer) issue(issue model.Issue) error {
	tag := warningColor.Sprint("warn ")
	if issue.Severity == model.SeverityError {
		tag = errorColor.Sprint("error")
	}

	origin := string(issue.Source)
	if issue.Rule != "" {
		origin = issue.Rule
	}

	_, err := fmt.Fprintf(r.out, "%s %s %s → %s  %s\n",
		tag,
		locationColor.Sprint(runewidth.FillRight(runewidth.Truncate(issue.Location, locationWidth, "…"), locationWidth)),
		issue.Original,
		issue.Suggestion,
		dimColor.Sprintf("[%s] %s", origin, issue.Context))
	return err
}

// Event writes one progress line for a streamed stage event
func (r *Renderer) Event(ev model.StageEvent) error {
	var err error
	switch {
	case ev.Failed():
		_, err = errorColor.Fprintf(r.out, "✗ %s: %s\n", ev.Stage, ev.Error)
	case ev.Completed:
		_, err = successColor.Fprintf(r.out, "✓ %s\n", ev.Message)
	default:
		_, err = dimColor.Fprintf(r.out, "… %s\n", ev.Message)
	}
	return err
}

// Bulk writes the outcome of a bulk check
func (r *Renderer) Bulk(summary BulkSummary) error {
	for _, f := range summary.Failures {
		if _, err := errorColor.Fprintf(r.out, "✗ report %d: %s\n", f.ID, f.Error); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(r.out, "%s, %s\n",
		successColor.Sprintf("%d succeeded", summary.Succeeded),
		errorColor.Sprintf("%d failed", summary.Failed))
	return err
}
