package merge

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// Replacement is one substring rewrite applied to a file's base name.
type Replacement struct {
	Old string
	New string
}

// LabelRule turns an input file name into a condition label.
//
// The steps run in field order: TrimSuffix, After, Replacements, then either
// the pair handling (PairSep, SwapWhenSecond, Renames, Join) or a plain rename
// of the whole label.
type LabelRule struct {
	TrimSuffix     string
	After          string
	Replacements   []Replacement
	PairSep        string
	SwapWhenSecond string
	Renames        map[string]string
	Join           string
}

// Apply returns the condition label for the file at path.
func (r LabelRule) Apply(path string) (string, error) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, r.TrimSuffix)

	if r.After != "" {
		parts := strings.SplitN(name, r.After, 2)
		if len(parts) != 2 || parts[1] == "" {
			return "", fmt.Errorf("%w: %s: missing %q", ErrMalformedFilename, base, r.After)
		}
		name = parts[1]
	}

	for _, rep := range r.Replacements {
		name = strings.ReplaceAll(name, rep.Old, rep.New)
	}

	if r.PairSep == "" {
		if name == "" {
			return "", fmt.Errorf("%w: %s: empty label", ErrMalformedFilename, base)
		}
		return r.rename(name), nil
	}

	tokens := strings.Split(name, r.PairSep)
	if len(tokens) != 2 || tokens[0] == "" || tokens[1] == "" {
		return "", fmt.Errorf("%w: %s: expected <A>%s<B>", ErrMalformedFilename, base, r.PairSep)
	}
	first, second := tokens[0], strings.TrimRightFunc(tokens[1], unicode.IsSpace)
	if r.SwapWhenSecond != "" && second == r.SwapWhenSecond {
		first, second = second, first
	}

	join := r.Join
	if join == "" {
		join = "-"
	}
	return r.rename(first) + join + r.rename(second), nil
}

func (r LabelRule) rename(token string) string {
	if to, ok := r.Renames[token]; ok {
		return to
	}
	return token
}

// SpeciesRenames maps the capitalised group names used in DESeq2 result file
// names to the short codes used in the merged table headers.
var SpeciesRenames = map[string]string{
	"Avian":       "avian",
	"Swine":       "swine",
	"Mock":        "mock",
	"Reassortant": "reass",
}

// ParseRule describes how to pull a key and its values out of one line.
type ParseRule struct {
	Delimiter    string
	HeaderPrefix string
	KeyCol       int
	ValueCols    []int
	// ValueSuffixes is appended to the file label for each entry of ValueCols.
	// Leave nil for single-value files.
	ValueSuffixes []string
	Unquote       bool
	ExcludePrefix string
	StripPrefix   string
	Lenient       bool
}

func (p ParseRule) minFields() int {
	n := p.KeyCol
	for _, c := range p.ValueCols {
		if c > n {
			n = c
		}
	}
	return n + 1
}

func (p ParseRule) validate() error {
	if p.Delimiter == "" {
		return fmt.Errorf("parse rule: empty delimiter")
	}
	if len(p.ValueCols) == 0 {
		return fmt.Errorf("parse rule: no value columns")
	}
	if p.ValueSuffixes != nil && len(p.ValueSuffixes) != len(p.ValueCols) {
		return fmt.Errorf("parse rule: %d value columns but %d suffixes", len(p.ValueCols), len(p.ValueSuffixes))
	}
	return nil
}

// key returns the transformed key for a raw field, and false when the key is
// excluded.
func (p ParseRule) key(raw string) (string, bool) {
	id := chomp(raw)
	if p.Unquote {
		id = strings.ReplaceAll(id, `"`, "")
	}
	if p.ExcludePrefix != "" && strings.HasPrefix(id, p.ExcludePrefix) {
		return "", false
	}
	if p.StripPrefix != "" {
		id = strings.Replace(id, p.StripPrefix, "", 1)
	}
	return id, true
}

func (p ParseRule) label(base string, i int) string {
	if p.ValueSuffixes == nil {
		return base
	}
	return base + p.ValueSuffixes[i]
}

func chomp(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
