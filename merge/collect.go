package merge

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Observation is one value read for a gene under one condition.
type Observation struct {
	Key   string
	Label string
	Value string
}

// Table accumulates sparse observations across all input files of one run.
type Table struct {
	cells   map[string]map[string]string
	keys    map[string]struct{}
	labels  map[string]struct{}
	files   map[string]string
	skipped int
}

func NewTable() *Table {
	return &Table{
		cells:  make(map[string]map[string]string),
		keys:   make(map[string]struct{}),
		labels: make(map[string]struct{}),
		files:  make(map[string]string),
	}
}

// Add records an observation. A later value for the same (key, label) pair
// replaces the earlier one.
func (t *Table) Add(o Observation) {
	row, ok := t.cells[o.Key]
	if !ok {
		row = make(map[string]string)
		t.cells[o.Key] = row
	}
	row[o.Label] = o.Value
	t.keys[o.Key] = struct{}{}
	t.labels[o.Label] = struct{}{}
}

func (t *Table) Value(key, label string) (string, bool) {
	v, ok := t.cells[key][label]
	return v, ok
}

// Keys returns every distinct key, sorted ascending. t.keys is a set, so no
// key repeats.
func (t *Table) Keys() []string {
	keys := lo.Keys(t.keys)
	slices.Sort(keys)
	return keys
}

// Labels returns the observed condition labels, sorted.
func (t *Table) Labels() []string {
	labels := lo.Keys(t.labels)
	slices.Sort(labels)
	return labels
}

// Source returns the file a condition label was read from.
func (t *Table) Source(label string) (string, bool) {
	f, ok := t.files[label]
	return f, ok
}

// Skipped is the number of malformed rows dropped in lenient mode.
func (t *Table) Skipped() int {
	return t.skipped
}

// Collect parses every file into tbl. A nil tbl starts a new table. Files are
// read one at a time; the first error aborts the whole collection.
func Collect(files []string, pr ParseRule, lr LabelRule, tbl *Table) (*Table, error) {
	if tbl == nil {
		tbl = NewTable()
	}
	if err := pr.validate(); err != nil {
		return tbl, err
	}

	for _, file := range files {
		label, err := lr.Apply(file)
		if err != nil {
			return tbl, err
		}
		if prev, ok := tbl.files[label]; ok {
			return tbl, fmt.Errorf("%w: %q from both %s and %s", ErrDuplicateLabel, label, prev, file)
		}
		tbl.files[label] = file

		slog.Info("MERGE", "PROGRAM", "COLLECT", "FILE", file, "CONDITION", label, "STATUS", "STARTED")
		if err := collectFile(file, label, pr, tbl); err != nil {
			slog.Error("MERGE", "PROGRAM", "COLLECT", "FILE", file, "CONDITION", label, "STATUS", fmt.Sprintf("FAILED - %v", err))
			return tbl, err
		}
	}
	return tbl, nil
}

func collectFile(file, label string, pr ParseRule, tbl *Table) error {
	need := pr.minFields()
	return eachLine(file, func(lineNo int, line string) error {
		if pr.HeaderPrefix != "" && strings.HasPrefix(line, pr.HeaderPrefix) {
			return nil
		}
		fields := strings.Split(line, pr.Delimiter)
		if len(fields) < need {
			if pr.Lenient {
				tbl.skipped++
				slog.Warn("MERGE", "PROGRAM", "COLLECT", "FILE", file, "LINE", lineNo, "STATUS", "SKIPPED - short row")
				return nil
			}
			return fmt.Errorf("%w: %s:%d: %d fields, need %d", ErrMalformedRow, file, lineNo, len(fields), need)
		}

		key, keep := pr.key(fields[pr.KeyCol])
		if !keep {
			return nil
		}
		for i, col := range pr.ValueCols {
			tbl.Add(Observation{Key: key, Label: pr.label(label, i), Value: chomp(fields[col])})
		}
		return nil
	})
}

// LoadNames reads an optional id -> name lookup. Rows lacking either column
// are skipped.
func LoadNames(path string, pr ParseRule) (map[string]string, error) {
	names := make(map[string]string)
	if path == "" {
		return names, nil
	}
	need := pr.minFields()
	err := eachLine(path, func(_ int, line string) error {
		if pr.HeaderPrefix != "" && strings.HasPrefix(line, pr.HeaderPrefix) {
			return nil
		}
		fields := strings.Split(line, pr.Delimiter)
		if len(fields) < need {
			return nil
		}
		names[chomp(fields[pr.KeyCol])] = chomp(fields[pr.ValueCols[0]])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// eachLine calls fn for every non-blank line of path. Line numbers start at 1.
func eachLine(path string, fn func(lineNo int, line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}
