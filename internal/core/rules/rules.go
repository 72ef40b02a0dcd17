// Package rules compiles a rule document into an immutable RuleSet.
package rules

import (
	"errors"
	"fmt"
	"iter"
	"regexp"

	"github.com/wizzomafizzo/scour/internal/config"
)

// ErrInvalidPattern is matched by every pattern compilation failure.
var ErrInvalidPattern = errors.New("invalid regex pattern")

// Rule list names used in errors and listings.
const (
	ListRemove  = "remove"
	ListReplace = "replace"
)

// InvalidPatternError reports the first pattern that failed to compile.
// Index is 1-based within List.
type InvalidPatternError struct {
	Err     error
	List    string
	Pattern string
	Index   int
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("%s rule %d: invalid regex pattern '%s': %v", e.List, e.Index, e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidPattern) hold for any InvalidPatternError.
func (*InvalidPatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

// RemovalRule drops every line its pattern matches anywhere.
type RemovalRule struct {
	re    *regexp.Regexp
	index int
}

// Pattern returns the source pattern.
func (r RemovalRule) Pattern() string { return r.re.String() }

// Index returns the 1-based position in the remove list.
func (r RemovalRule) Index() int { return r.index }

// Matches reports whether the pattern matches anywhere in line.
func (r RemovalRule) Matches(line string) bool {
	return r.re.MatchString(line)
}

// ReplacementRule substitutes every non-overlapping match of its pattern.
type ReplacementRule struct {
	re          *regexp.Regexp
	replacement string
	index       int
}

// Pattern returns the source pattern.
func (r ReplacementRule) Pattern() string { return r.re.String() }

// Replacement returns the replacement template.
func (r ReplacementRule) Replacement() string { return r.replacement }

// Index returns the 1-based position in the replace list.
func (r ReplacementRule) Index() int { return r.index }

// Apply replaces all matches in s, expanding capture references.
func (r ReplacementRule) Apply(s string) string {
	return r.re.ReplaceAllString(s, r.replacement)
}

// RuleSet is the compiled form of a config.Config. It has no mutation path
// and is safe for concurrent use.
type RuleSet struct {
	removals     []RemovalRule
	replacements []ReplacementRule
}

// Build compiles every pattern in cfg. The first invalid pattern aborts the
// build; a partial RuleSet is never returned.
func Build(cfg *config.Config) (*RuleSet, error) {
	if cfg == nil {
		return &RuleSet{}, nil
	}

	rs := &RuleSet{
		removals:     make([]RemovalRule, 0, len(cfg.Remove)),
		replacements: make([]ReplacementRule, 0, len(cfg.Replace)),
	}

	for i, pattern := range cfg.Remove {
		re, err := compile(ListRemove, i+1, pattern)
		if err != nil {
			return nil, err
		}
		rs.removals = append(rs.removals, RemovalRule{re: re, index: i + 1})
	}

	for i, rule := range cfg.Replace {
		re, err := compile(ListReplace, i+1, rule.Regex)
		if err != nil {
			return nil, err
		}
		rs.replacements = append(rs.replacements, ReplacementRule{
			re:          re,
			replacement: rule.Replacement,
			index:       i + 1,
		})
	}

	return rs, nil
}

// MustBuild is like Build but panics on error. Intended for tests and
// package-level rule sets.
func MustBuild(cfg *config.Config) *RuleSet {
	rs, err := Build(cfg)
	if err != nil {
		panic(err)
	}
	return rs
}

func compile(list string, index int, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, &InvalidPatternError{List: list, Index: index, Pattern: pattern, Err: config.ErrEmptyPattern}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &InvalidPatternError{List: list, Index: index, Pattern: pattern, Err: err}
	}
	return re, nil
}

// Removals returns the removal rules in evaluation order.
func (rs *RuleSet) Removals() []RemovalRule {
	out := make([]RemovalRule, len(rs.removals))
	copy(out, rs.removals)
	return out
}

// Replacements returns the replacement rules in evaluation order.
func (rs *RuleSet) Replacements() []ReplacementRule {
	out := make([]ReplacementRule, len(rs.replacements))
	copy(out, rs.replacements)
	return out
}

// RemovalRules iterates the removal rules in evaluation order without
// copying.
func (rs *RuleSet) RemovalRules() iter.Seq[RemovalRule] {
	return func(yield func(RemovalRule) bool) {
		for _, r := range rs.removals {
			if !yield(r) {
				return
			}
		}
	}
}

// ReplacementRules iterates the replacement rules in evaluation order
// without copying.
func (rs *RuleSet) ReplacementRules() iter.Seq[ReplacementRule] {
	return func(yield func(ReplacementRule) bool) {
		for _, r := range rs.replacements {
			if !yield(r) {
				return
			}
		}
	}
}

// Len returns the total number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.removals) + len(rs.replacements)
}

// Empty reports whether the set holds no rules.
func (rs *RuleSet) Empty() bool {
	return rs.Len() == 0
}
