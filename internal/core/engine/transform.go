// Package engine applies a compiled RuleSet to lines, text and files.
package engine

import (
	"strings"

	"github.com/wizzomafizzo/scour/internal/core/rules"
)

// LineResult is the outcome of running one line through a RuleSet: either
// dropped, or kept with its transformed text.
type LineResult struct {
	Text    string
	Dropped bool
}

// Dropped is the result for a line matched by a removal rule.
func Dropped() LineResult {
	return LineResult{Dropped: true}
}

// Kept is the result for a line that survives, carrying its final text.
func Kept(text string) LineResult {
	return LineResult{Text: text}
}

// Apply runs line through rs. Removal rules are checked first, in order, and
// the first match drops the line. Otherwise every replacement rule is applied
// in order, each to the output of the previous one.
func Apply(line string, rs *rules.RuleSet) LineResult {
	for removal := range rs.RemovalRules() {
		if removal.Matches(line) {
			return Dropped()
		}
	}

	result := line
	for replacement := range rs.ReplacementRules() {
		result = replacement.Apply(result)
	}
	return Kept(result)
}

// Step records a replacement rule that changed the line.
type Step struct {
	Pattern     string
	Replacement string
	Before      string
	After       string
	Index       int
}

// Trace explains how Apply reached its result.
type Trace struct {
	Input          string
	RemovedPattern string
	Steps          []Step
	Result         LineResult
	RemovedBy      int
}

// TraceLine behaves like Apply but records which rules fired. RemovedBy is the
// 1-based index of the dropping removal rule, or 0.
func TraceLine(line string, rs *rules.RuleSet) Trace {
	trace := Trace{Input: line}

	for removal := range rs.RemovalRules() {
		if removal.Matches(line) {
			trace.RemovedBy = removal.Index()
			trace.RemovedPattern = removal.Pattern()
			trace.Result = Dropped()
			return trace
		}
	}

	result := line
	for replacement := range rs.ReplacementRules() {
		next := replacement.Apply(result)
		if next != result {
			trace.Steps = append(trace.Steps, Step{
				Index:       replacement.Index(),
				Pattern:     replacement.Pattern(),
				Replacement: replacement.Replacement(),
				Before:      result,
				After:       next,
			})
		}
		result = next
	}

	trace.Result = Kept(result)
	return trace
}

// Stats counts lines seen by Transform.
type Stats struct {
	Total   int `json:"total"`
	Removed int `json:"removed"`
	Kept    int `json:"kept"`
	Changed int `json:"changed"`
}

// Add returns the element-wise sum of s and other.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		Total:   s.Total + other.Total,
		Removed: s.Removed + other.Removed,
		Kept:    s.Kept + other.Kept,
		Changed: s.Changed + other.Changed,
	}
}

// KeptPercent is the share of lines kept, 0 for empty input.
func (s Stats) KeptPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Kept) / float64(s.Total) * 100
}

// Transform applies rs to every line of content in order and joins the
// surviving lines. Each line keeps its own terminator ("\r\n", "\n", or none
// for a final unterminated line); dropped lines lose theirs with them.
func Transform(content string, rs *rules.RuleSet) (string, Stats) {
	var (
		out   strings.Builder
		stats Stats
	)
	out.Grow(len(content))

	for line := range strings.Lines(content) {
		body, eol := splitTerminator(line)
		stats.Total++

		result := Apply(body, rs)
		if result.Dropped {
			stats.Removed++
			continue
		}

		stats.Kept++
		if result.Text != body {
			stats.Changed++
		}
		out.WriteString(result.Text)
		out.WriteString(eol)
	}

	return out.String(), stats
}

func splitTerminator(line string) (body, eol string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}
