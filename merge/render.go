package merge

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// MissingPolicy decides what goes into a cell with no observation.
type MissingPolicy struct {
	Placeholder string
	Warn        bool
	Fail        bool
}

// Layout fixes the shape of the output table.
type Layout struct {
	IDHeader []string
	// Identify returns the identifier fields of a row, one per IDHeader entry.
	Identify func(key string) []string
	Columns  []string
}

func (l Layout) identify(key string) []string {
	if l.Identify == nil {
		return []string{key}
	}
	return l.Identify(key)
}

func (l Layout) header() []string {
	id := l.IDHeader
	if len(id) == 0 {
		id = []string{"ID"}
	}
	return append(append([]string{}, id...), l.Columns...)
}

// Render writes t as a dense tab-separated table: the header, then one row per
// key in Keys order with one field per layout column.
func Render(w io.Writer, t *Table, layout Layout, mp MissingPolicy) error {
	header := layout.header()
	width := len(header)
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, strings.Join(header, "\t")); err != nil {
		return err
	}

	missing := 0
	row := make([]string, 0, width)
	for _, key := range t.Keys() {
		row = row[:0]
		ids := layout.identify(key)
		if len(ids)+len(layout.Columns) != width {
			return fmt.Errorf("row %s: %d identifier fields, header has %d", key, len(ids), width-len(layout.Columns))
		}
		row = append(row, ids...)
		for _, col := range layout.Columns {
			v, ok := t.Value(key, col)
			if !ok {
				if mp.Fail {
					return fmt.Errorf("%w: %s has no value for %s", ErrMissingObservation, key, col)
				}
				missing++
				if mp.Warn {
					slog.Warn("MERGE", "PROGRAM", "RENDER", "KEY", key, "CONDITION", col, "STATUS", fmt.Sprintf("MISSING - using %q", mp.Placeholder))
				}
				v = mp.Placeholder
			}
			row = append(row, v)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	if missing > 0 && mp.Warn {
		slog.Warn("MERGE", "PROGRAM", "RENDER", "MISSING", missing, "PLACEHOLDER", mp.Placeholder)
	}
	return bw.Flush()
}

// WriteFile renders the whole table in memory before creating path, so a
// failed render leaves no output behind.
func WriteFile(path string, t *Table, layout Layout, mp MissingPolicy) error {
	var buf bytes.Buffer
	if err := Render(&buf, t, layout, mp); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
