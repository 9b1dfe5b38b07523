package summary

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// Group is one virus condition and the replicate columns it spans in the TPM
// table.
type Group struct {
	Name    string
	Columns []string
}

var DefaultGroups = []Group{
	{Name: "Mock", Columns: []string{"mock-rep1", "mock-rep2", "mock-rep3"}},
	{Name: "Avian", Columns: []string{"avian-rep1", "avian-rep2", "avian-rep3"}},
	{Name: "Swine", Columns: []string{"swine-rep1", "swine-rep2", "swine-rep3"}},
	{Name: "Reassortant", Columns: []string{"reass-rep1", "reass-rep2", "reass-rep3"}},
}

// Preset fixes which groups a summary covers and how its genes are named and
// ordered.
type Preset struct {
	Groups []Group
	// GeneRenames maps a gene name to the name shown in the summary.
	GeneRenames map[string]string
	// GeneOrder ranks genes by their shown name. When set, rows are ordered
	// by that rank and then by group; genes not listed come last. When empty,
	// genes keep the order they were requested in.
	GeneOrder []string
}

// HumanPreset summarizes host genes across all four conditions.
var HumanPreset = Preset{Groups: DefaultGroups}

// SegmentPreset summarizes the influenza segments. Mock carries no viral
// reads and is left out; NS1 is shown as NS.
var SegmentPreset = Preset{
	Groups: DefaultGroups[1:],
	GeneRenames: map[string]string{
		"mRNA-NS1": "mRNA-NS",
		"vRNA-NS1": "vRNA-NS",
	},
	GeneOrder: segmentOrder(),
}

var Segments = []string{"PB2", "PB1", "PA", "HA", "NP", "NA", "MP", "NS"}

// segmentOrder lists every mRNA segment before every vRNA segment.
func segmentOrder() []string {
	order := make([]string, 0, 2*len(Segments))
	for _, kind := range []string{"mRNA", "vRNA"} {
		for _, seg := range Segments {
			order = append(order, kind+"-"+seg)
		}
	}
	return order
}

// PresetByName returns the preset called name ("human" or "segments").
func PresetByName(name string) (Preset, error) {
	switch strings.ToLower(name) {
	case "human", "":
		return HumanPreset, nil
	case "segments", "segment":
		return SegmentPreset, nil
	default:
		return Preset{}, fmt.Errorf("unknown summary preset %q (want human or segments)", name)
	}
}

// Tables are the merged TPM and p-value tables, both keyed by their ID column.
type Tables struct {
	TPM   dataframe.DataFrame
	Pvals dataframe.DataFrame
}

type Point struct {
	Gene   string
	GeneID string
	Virus  string
	TPM    float64
}

type BoxStats struct {
	GeneID string
	Gene   string
	Virus  string
	N      int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
	Mean   float64
}

type Significance struct {
	GeneID     string
	Gene       string
	Comparison string
	Cond1      string
	Cond2      string
	Pval       float64
	Stars      string
}

type Summary struct {
	Points       []Point
	Stats        []BoxStats
	Significance []Significance
	// Missing lists requested genes absent from either table.
	Missing []string
}

func Load(tpmPath, pvalPath string) (Tables, error) {
	tpm, err := readTable(tpmPath)
	if err != nil {
		return Tables{}, err
	}
	pvals, err := readTable(pvalPath)
	if err != nil {
		return Tables{}, err
	}
	return Tables{TPM: tpm, Pvals: pvals}, nil
}

func readTable(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.WithDelimiter('\t'),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return df, fmt.Errorf("reading %s: %w", path, df.Err)
	}
	if !hasColumn(df, "ID") {
		return df, fmt.Errorf("reading %s: no ID column", path)
	}
	return df, nil
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Stars returns the significance marker of an adjusted p-value, or "" when
// the value is above 0.05.
func Stars(p float64) string {
	switch {
	case p <= 0.001:
		return "***"
	case p <= 0.01:
		return "**"
	case p <= 0.05:
		return "*"
	default:
		return ""
	}
}

// GroupName maps a short condition code from a p-value column back to its
// group name, e.g. "reass" -> "Reassortant".
func GroupName(code string) string {
	if code == "" {
		return ""
	}
	name := strings.ToUpper(code[:1]) + strings.ToLower(code[1:])
	if strings.HasPrefix(name, "Reass") {
		return "Reassortant"
	}
	return name
}

// Build collects the per-replicate points, box statistics and comparison
// significance for each gene ID.
func Build(t Tables, geneIDs []string, p Preset) (Summary, error) {
	var s Summary
	groups := p.Groups

	groupNames := make(map[string]bool)
	for _, g := range groups {
		groupNames[g.Name] = true
		for _, col := range g.Columns {
			if !hasColumn(t.TPM, col) {
				return s, fmt.Errorf("TPM table has no column %s", col)
			}
		}
	}

	for _, id := range geneIDs {
		gene := t.TPM.Filter(dataframe.F{Colname: "ID", Comparator: series.Eq, Comparando: id})
		pvals := t.Pvals.Filter(dataframe.F{Colname: "ID", Comparator: series.Eq, Comparando: id})
		if gene.Nrow() == 0 || pvals.Nrow() == 0 {
			fmt.Printf("Gene ID '%s' not found.\n", id)
			s.Missing = append(s.Missing, id)
			continue
		}

		name := id
		if hasColumn(gene, "Name") {
			if n := strings.TrimSpace(gene.Col("Name").Elem(0).String()); n != "" && n != "NaN" {
				name = n
			}
		}
		if r, ok := p.GeneRenames[name]; ok {
			name = r
		}

		// ---------------------------------------------- Points & Stats -------------------------------------------- //
		for _, g := range groups {
			var values []float64
			for _, col := range g.Columns {
				v := gene.Col(col).Elem(0).Float()
				if math.IsNaN(v) {
					continue
				}
				values = append(values, v)
				s.Points = append(s.Points, Point{Gene: name, GeneID: id, Virus: g.Name, TPM: v})
			}
			if len(values) == 0 {
				continue
			}
			s.Stats = append(s.Stats, boxStats(id, name, g.Name, values))
		}

		// ---------------------------------------------- Significance ---------------------------------------------- //
		for _, col := range pvals.Names() {
			if col == "ID" {
				continue
			}
			parts := strings.Split(col, "-")
			if len(parts) != 2 {
				continue
			}
			c1, c2 := GroupName(parts[0]), GroupName(parts[1])
			if !groupNames[c1] || !groupNames[c2] {
				continue
			}
			pv := pvals.Col(col).Elem(0).Float()
			if math.IsNaN(pv) {
				continue
			}
			s.Significance = append(s.Significance, Significance{
				GeneID: id, Gene: name, Comparison: col, Cond1: c1, Cond2: c2, Pval: pv, Stars: Stars(pv),
			})
		}
	}

	if len(p.GeneOrder) > 0 {
		p.order(&s)
	}
	return s, nil
}

// order sorts s by gene rank, then by group. Ties keep their build order.
func (p Preset) order(s *Summary) {
	geneRank := func(name string) int {
		if i := slices.Index(p.GeneOrder, name); i >= 0 {
			return i
		}
		return len(p.GeneOrder)
	}
	groupRank := func(name string) int {
		return slices.IndexFunc(p.Groups, func(g Group) bool { return g.Name == name })
	}
	byGeneThenGroup := func(g1, v1, g2, v2 string) int {
		if c := geneRank(g1) - geneRank(g2); c != 0 {
			return c
		}
		return groupRank(v1) - groupRank(v2)
	}

	slices.SortStableFunc(s.Points, func(a, b Point) int { return byGeneThenGroup(a.Gene, a.Virus, b.Gene, b.Virus) })
	slices.SortStableFunc(s.Stats, func(a, b BoxStats) int { return byGeneThenGroup(a.Gene, a.Virus, b.Gene, b.Virus) })
	slices.SortStableFunc(s.Significance, func(a, b Significance) int { return geneRank(a.Gene) - geneRank(b.Gene) })
}

func boxStats(id, name, virus string, values []float64) BoxStats {
	x := append([]float64(nil), values...)
	sort.Float64s(x)
	return BoxStats{
		GeneID: id,
		Gene:   name,
		Virus:  virus,
		N:      len(x),
		Min:    x[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, x, nil),
		Median: stat.Quantile(0.5, stat.Empirical, x, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, x, nil),
		Max:    x[len(x)-1],
		Mean:   stat.Mean(x, nil),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeTSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

func WritePoints(w io.Writer, points []Point) error {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{p.Gene, p.GeneID, p.Virus, formatFloat(p.TPM)})
	}
	return writeTSV(w, []string{"Gene", "GeneID", "Virus", "TPM"}, rows)
}

func WriteStats(w io.Writer, stats []BoxStats) error {
	rows := make([][]string, 0, len(stats))
	for _, b := range stats {
		rows = append(rows, []string{
			b.GeneID, b.Gene, b.Virus, strconv.Itoa(b.N),
			strconv.FormatFloat(b.Min, 'f', 6, 64), strconv.FormatFloat(b.Q1, 'f', 6, 64),
			strconv.FormatFloat(b.Median, 'f', 6, 64), strconv.FormatFloat(b.Q3, 'f', 6, 64),
			strconv.FormatFloat(b.Max, 'f', 6, 64), strconv.FormatFloat(b.Mean, 'f', 6, 64),
		})
	}
	return writeTSV(w, []string{"GeneID", "Gene", "Virus", "N", "Min", "Q1", "Median", "Q3", "Max", "Mean"}, rows)
}

func WriteSignificance(w io.Writer, sig []Significance) error {
	rows := make([][]string, 0, len(sig))
	for _, s := range sig {
		rows = append(rows, []string{s.GeneID, s.Gene, s.Comparison, s.Cond1, s.Cond2, formatFloat(s.Pval), s.Stars})
	}
	return writeTSV(w, []string{"GeneID", "Gene", "Comparison", "Cond1", "Cond2", "adjp", "Stars"}, rows)
}
