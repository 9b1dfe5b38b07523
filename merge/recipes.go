package merge

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/samber/lo"
)

// Recipe is one fixed merge: which files to read, how to read them and what
// the merged table looks like.
type Recipe struct {
	Name    string
	Pattern string
	// Skip lists base names ignored even when they match Pattern.
	Skip    []string
	Parse   ParseRule
	Label   LabelRule
	Layout  Layout
	Missing MissingPolicy
}

// Files returns the sorted input files of r under dir.
func (r Recipe) Files(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, r.Pattern))
	if err != nil {
		return nil, err
	}
	files := lo.Filter(matches, func(m string, _ int) bool {
		return !lo.Contains(r.Skip, filepath.Base(m))
	})
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInputFiles, filepath.Join(dir, r.Pattern))
	}
	sort.Strings(files)
	return files, nil
}

// Run merges every matching file under inputDir and writes the table to
// output. Nothing is written unless the whole merge succeeds.
func Run(r Recipe, inputDir, output string) (*Table, error) {
	if dups := lo.FindDuplicates(r.Layout.Columns); len(dups) > 0 {
		return nil, fmt.Errorf("%s: duplicate columns %v", r.Name, dups)
	}
	if len(r.Layout.Columns) == 0 {
		return nil, fmt.Errorf("%s: no output columns", r.Name)
	}

	files, err := r.Files(inputDir)
	if err != nil {
		return nil, err
	}
	slog.Info("MERGE", "PROGRAM", r.Name, "FILES", len(files), "STATUS", "STARTED")

	tbl, err := Collect(files, r.Parse, r.Label, nil)
	if err != nil {
		return nil, err
	}

	if unknown := lo.Without(tbl.Labels(), r.Layout.Columns...); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %v (columns: %v)", ErrUnknownCondition, unknown, r.Layout.Columns)
	}
	for _, col := range lo.Without(r.Layout.Columns, tbl.Labels()...) {
		slog.Warn("MERGE", "PROGRAM", r.Name, "CONDITION", col, "STATUS", "NO INPUT FILE")
	}

	fmt.Printf("%d Gene IDs found.\n", len(tbl.Keys()))
	if tbl.Skipped() > 0 {
		fmt.Printf("%d malformed rows skipped.\n", tbl.Skipped())
	}

	if err := WriteFile(output, tbl, r.Layout, r.Missing); err != nil {
		return nil, err
	}
	slog.Info("MERGE", "PROGRAM", r.Name, "OUTPUT", output, "STATUS", "COMPLETED")
	return tbl, nil
}

// Replicates expands condition codes into "<code>-rep<i>" column names.
func Replicates(conditions []string, n int) []string {
	cols := make([]string, 0, len(conditions)*n)
	for _, c := range conditions {
		for i := 1; i <= n; i++ {
			cols = append(cols, fmt.Sprintf("%s-rep%d", c, i))
		}
	}
	return cols
}

// ================================================ Segment TPMs ====================================================//

// SegmentTpms merges featureCounts TPM tables of the influenza segments, one
// file per replicate (e.g. avian_rep1.counts.tpm.tsv).
func SegmentTpms() Recipe {
	return Recipe{
		Name:    "SEGMENT_TPMS",
		Pattern: "*.tsv",
		Parse: ParseRule{
			Delimiter:     "\t",
			HeaderPrefix:  "Geneid",
			KeyCol:        0,
			ValueCols:     []int{7},
			ExcludePrefix: "ENSG",
			StripPrefix:   "gene-",
		},
		Label: LabelRule{
			TrimSuffix:   ".counts.tpm.tsv",
			Replacements: []Replacement{{Old: "_", New: "-"}, {Old: "reassortant", New: "reass"}},
		},
		Layout: Layout{
			IDHeader: []string{"ID", "Name"},
			Identify: func(name string) []string { return []string{"gene-" + name, name} },
			Columns:  Replicates([]string{"avian", "mock", "reass", "swine"}, 3),
		},
		Missing: MissingPolicy{Placeholder: "", Warn: true},
	}
}

// ================================================= Human TPMs =====================================================//

// NamesRule reads the ID,geneName columns of an extended DESeq2 result table.
var NamesRule = ParseRule{
	Delimiter:    ",",
	HeaderPrefix: "ID,geneName",
	KeyCol:       0,
	ValueCols:    []int{1},
}

// HumanTpms merges the per-condition replicate TPM tables of the host genes.
// names maps gene IDs to gene names; IDs without a name get an empty Name.
func HumanTpms(names map[string]string) Recipe {
	return Recipe{
		Name:    "HUMAN_TPMS",
		Pattern: "*_reps_tpms.tsv",
		Skip:    []string{"tpms.tsv", "pvals.tsv"},
		Parse: ParseRule{
			Delimiter:     "\t",
			HeaderPrefix:  "ID",
			KeyCol:        0,
			ValueCols:     []int{1, 2, 3},
			ValueSuffixes: []string{"-rep1", "-rep2", "-rep3"},
		},
		Label: LabelRule{TrimSuffix: "_reps_tpms.tsv"},
		Layout: Layout{
			IDHeader: []string{"ID", "Name"},
			Identify: func(id string) []string { return []string{id, names[id]} },
			Columns:  Replicates([]string{"mock", "swine", "avian", "reass"}, 3),
		},
		Missing: MissingPolicy{Fail: true},
	}
}

// =============================================== Human p-values ===================================================//

// HumanPvals merges DESeq2 adjusted p-values of all host comparisons. A
// comparison against Mock is flipped so that mock always comes first.
func HumanPvals() Recipe {
	return Recipe{
		Name:    "HUMAN_PVALS",
		Pattern: "*full*.csv",
		Parse: ParseRule{
			Delimiter:    ",",
			HeaderPrefix: "ID,geneName",
			KeyCol:       0,
			ValueCols:    []int{11},
		},
		Label: LabelRule{
			TrimSuffix:     "_full_extended.csv",
			After:          "deseq2_",
			PairSep:        "_vs_",
			SwapWhenSecond: "Mock",
			Renames:        SpeciesRenames,
		},
		Layout: Layout{
			IDHeader: []string{"ID"},
			Columns:  []string{"mock-avian", "mock-swine", "mock-reass", "avian-swine", "avian-reass", "swine-reass"},
		},
		Missing: MissingPolicy{Placeholder: "0.05", Warn: true},
	}
}

// ============================================== Segment p-values ==================================================//

// SegmentPvals merges DESeq2 adjusted p-values of the vRNA/mRNA segment
// comparisons. Comparisons keep their file order: Avian_vs_Mock stays
// avian-mock.
func SegmentPvals() Recipe {
	return Recipe{
		Name:    "SEGMENT_PVALS",
		Pattern: "*full*.csv",
		Parse: ParseRule{
			Delimiter:     ",",
			HeaderPrefix:  `"","baseMean`,
			KeyCol:        0,
			ValueCols:     []int{5},
			Unquote:       true,
			ExcludePrefix: "ENSG",
		},
		Label: LabelRule{
			TrimSuffix: "_full.csv",
			After:      "deseq2_",
			PairSep:    "_vs_",
			Renames:    SpeciesRenames,
		},
		Layout: Layout{
			IDHeader: []string{"ID"},
			Columns:  []string{"avian-mock", "swine-mock", "reass-mock", "avian-swine", "avian-reass", "swine-reass"},
		},
		Missing: MissingPolicy{Placeholder: "0.05", Warn: true},
	}
}
