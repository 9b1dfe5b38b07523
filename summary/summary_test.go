package summary

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const tpmTable = `ID	Name	mock-rep1	mock-rep2	mock-rep3	avian-rep1	avian-rep2	avian-rep3
ENSG1	IFIT1	1	2	3	10	20	30
ENSG2		4	5	6	7	8	9
`

const pvalTable = `ID	mock-avian	mock-swine	avian-swine
ENSG1	0.0005	0.2	0.03
ENSG2	0.01	0.05	1
`

func loadFixtures(t *testing.T) Tables {
	t.Helper()
	dir := t.TempDir()
	tpm := filepath.Join(dir, "tpms.tsv")
	pv := filepath.Join(dir, "pvals.tsv")
	if err := os.WriteFile(tpm, []byte(tpmTable), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pv, []byte(pvalTable), 0644); err != nil {
		t.Fatal(err)
	}
	tables, err := Load(tpm, pv)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tables
}

var testPreset = Preset{Groups: []Group{
	{Name: "Mock", Columns: []string{"mock-rep1", "mock-rep2", "mock-rep3"}},
	{Name: "Avian", Columns: []string{"avian-rep1", "avian-rep2", "avian-rep3"}},
}}

func TestBuild(t *testing.T) {
	s, err := Build(loadFixtures(t), []string{"ENSG1", "ENSG404", "ENSG2"}, testPreset)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(s.Missing) != 1 || s.Missing[0] != "ENSG404" {
		t.Errorf("Missing = %v", s.Missing)
	}
	if len(s.Points) != 12 {
		t.Fatalf("got %d points, want 12", len(s.Points))
	}
	if p := s.Points[3]; p.Gene != "IFIT1" || p.Virus != "Avian" || p.TPM != 10 {
		t.Errorf("point 3 = %+v", p)
	}
	if p := s.Points[6]; p.Gene != "ENSG2" {
		t.Errorf("unnamed gene should fall back to its ID, got %+v", p)
	}

	if len(s.Stats) != 4 {
		t.Fatalf("got %d stats, want 4", len(s.Stats))
	}
	avian := s.Stats[1]
	if avian.N != 3 || avian.Min != 10 || avian.Q1 != 10 || avian.Median != 20 || avian.Q3 != 30 || avian.Max != 30 || avian.Mean != 20 {
		t.Errorf("avian stats = %+v", avian)
	}

	// Swine is not a group here, so only mock-avian survives per gene.
	if len(s.Significance) != 2 {
		t.Fatalf("significance = %+v", s.Significance)
	}
	if sig := s.Significance[0]; sig.Cond1 != "Mock" || sig.Cond2 != "Avian" || sig.Stars != "***" {
		t.Errorf("significance[0] = %+v", sig)
	}
	if sig := s.Significance[1]; sig.Stars != "**" {
		t.Errorf("significance[1] = %+v", sig)
	}
}

func TestBuildUnknownColumn(t *testing.T) {
	p := Preset{Groups: []Group{{Name: "Swine", Columns: []string{"swine-rep1"}}}}
	if _, err := Build(loadFixtures(t), []string{"ENSG1"}, p); err == nil {
		t.Error("expected error for missing TPM column")
	}
}

func TestStars(t *testing.T) {
	tests := map[float64]string{0.0001: "***", 0.001: "***", 0.005: "**", 0.05: "*", 0.051: "", 1: ""}
	for p, want := range tests {
		if got := Stars(p); got != want {
			t.Errorf("Stars(%v) = %q, want %q", p, got, want)
		}
	}
}

func TestGroupName(t *testing.T) {
	for code, want := range map[string]string{"mock": "Mock", "reass": "Reassortant", "AVIAN": "Avian", "": ""} {
		if got := GroupName(code); got != want {
			t.Errorf("GroupName(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestWriters(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePoints(&buf, []Point{{Gene: "IFIT1", GeneID: "ENSG1", Virus: "Mock", TPM: 1.5}}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Gene\tGeneID\tVirus\tTPM\nIFIT1\tENSG1\tMock\t1.5\n" {
		t.Errorf("points = %q", buf.String())
	}

	buf.Reset()
	if err := WriteSignificance(&buf, []Significance{{GeneID: "ENSG1", Gene: "IFIT1", Comparison: "mock-avian", Cond1: "Mock", Cond2: "Avian", Pval: 0.2}}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 || lines[1] != "ENSG1\tIFIT1\tmock-avian\tMock\tAvian\t0.2\t" {
		t.Errorf("significance = %q", buf.String())
	}

	buf.Reset()
	if err := WriteStats(&buf, []BoxStats{{GeneID: "ENSG1", Gene: "IFIT1", Virus: "Mock", N: 1, Min: 1, Q1: 1, Median: 1, Q3: 1, Max: 1, Mean: 1}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "ENSG1\tIFIT1\tMock\t1\t1.000000") {
		t.Errorf("stats = %q", buf.String())
	}
}

// ==================================================== Segments ====================================================//

const segmentTpmTable = `ID	Name	avian-rep1	avian-rep2	avian-rep3	mock-rep1	mock-rep2	mock-rep3	reass-rep1	reass-rep2	reass-rep3	swine-rep1	swine-rep2	swine-rep3
gene-vRNA-HA	vRNA-HA	1	2	3					7	8	9	4	5	6
gene-mRNA-NS1	mRNA-NS1	10	11	12					16	17	18	13	14	15
gene-mRNA-PB2	mRNA-PB2	20	21	22					26	27	28	23	24	25
`

const segmentPvalTable = `ID	avian-mock	swine-mock	reass-mock	avian-swine	avian-reass	swine-reass
gene-vRNA-HA	0.001	0.001	0.001	0.5	0.04	0.2
gene-mRNA-NS1	0.001	0.001	0.001	0.01	0.5	0.5
gene-mRNA-PB2	0.001	0.001	0.001	0.5	0.5	0.003
`

func loadSegmentFixtures(t *testing.T) Tables {
	t.Helper()
	dir := t.TempDir()
	tpm := filepath.Join(dir, "counts-tpm-segments.tsv")
	pv := filepath.Join(dir, "segment-pvals.tsv")
	if err := os.WriteFile(tpm, []byte(segmentTpmTable), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pv, []byte(segmentPvalTable), 0644); err != nil {
		t.Fatal(err)
	}
	tables, err := Load(tpm, pv)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tables
}

var requested = []string{"gene-vRNA-HA", "gene-mRNA-NS1", "gene-mRNA-PB2"}

func TestSegmentPresetLeavesOutMock(t *testing.T) {
	s, err := Build(loadSegmentFixtures(t), requested, SegmentPreset)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(s.Points) != 27 || len(s.Stats) != 9 {
		t.Fatalf("got %d points, %d stats; want 27, 9", len(s.Points), len(s.Stats))
	}
	for _, p := range s.Points {
		if p.Virus == "Mock" {
			t.Fatalf("mock point kept: %+v", p)
		}
	}
	// Only the three virus-virus comparisons survive for each gene.
	if len(s.Significance) != 9 {
		t.Fatalf("significance = %+v", s.Significance)
	}
	for _, sig := range s.Significance {
		if sig.Cond1 == "Mock" || sig.Cond2 == "Mock" {
			t.Errorf("mock comparison kept: %+v", sig)
		}
	}
}

func TestSegmentPresetRenamesNS1(t *testing.T) {
	s, err := Build(loadSegmentFixtures(t), []string{"gene-mRNA-NS1"}, SegmentPreset)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, p := range s.Points {
		if p.Gene != "mRNA-NS" || p.GeneID != "gene-mRNA-NS1" {
			t.Fatalf("point = %+v, want gene mRNA-NS with its original ID", p)
		}
	}
	if s.Stats[0].Gene != "mRNA-NS" || s.Significance[0].Gene != "mRNA-NS" {
		t.Errorf("stats %+v, significance %+v", s.Stats[0], s.Significance[0])
	}
}

func TestSegmentPresetOrder(t *testing.T) {
	s, err := Build(loadSegmentFixtures(t), requested, SegmentPreset)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var rows []string
	for _, b := range s.Stats {
		rows = append(rows, b.Gene+"/"+b.Virus)
	}
	want := "mRNA-PB2/Avian,mRNA-PB2/Swine,mRNA-PB2/Reassortant," +
		"mRNA-NS/Avian,mRNA-NS/Swine,mRNA-NS/Reassortant," +
		"vRNA-HA/Avian,vRNA-HA/Swine,vRNA-HA/Reassortant"
	if got := strings.Join(rows, ","); got != want {
		t.Errorf("stats order\n got %s\nwant %s", got, want)
	}
	if p := s.Points[0]; p.Gene != "mRNA-PB2" || p.Virus != "Avian" || p.TPM != 20 {
		t.Errorf("first point = %+v", p)
	}
	if p := s.Points[26]; p.Gene != "vRNA-HA" || p.Virus != "Reassortant" || p.TPM != 9 {
		t.Errorf("last point = %+v", p)
	}
	if s.Significance[0].Gene != "mRNA-PB2" || s.Significance[8].Gene != "vRNA-HA" {
		t.Errorf("significance order = %+v", s.Significance)
	}
}

func TestHumanPresetKeepsRequestOrder(t *testing.T) {
	s, err := Build(loadFixtures(t), []string{"ENSG2", "ENSG1"}, testPreset)
	if err != nil {
		t.Fatal(err)
	}
	if s.Points[0].GeneID != "ENSG2" || s.Stats[0].GeneID != "ENSG2" {
		t.Errorf("first rows %+v, %+v", s.Points[0], s.Stats[0])
	}
}

func TestPresetByName(t *testing.T) {
	if p, err := PresetByName("segments"); err != nil || len(p.Groups) != 3 || p.Groups[0].Name != "Avian" {
		t.Errorf("segments = %+v, %v", p, err)
	}
	if p, err := PresetByName("human"); err != nil || len(p.Groups) != 4 || len(p.GeneOrder) != 0 {
		t.Errorf("human = %+v, %v", p, err)
	}
	if _, err := PresetByName("ferret"); err == nil {
		t.Error("expected error for unknown preset")
	}
}
