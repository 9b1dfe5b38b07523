package merge

import (
	"errors"
	"testing"
)

func TestLabelRuleApply(t *testing.T) {
	tests := []struct {
		name  string
		rule  LabelRule
		path  string
		label string
	}{
		{"segment tpm", SegmentTpms().Label, "/data/strand1/avian_rep1.counts.tpm.tsv", "avian-rep1"},
		{"segment tpm reassortant", SegmentTpms().Label, "reassortant_rep3.counts.tpm.tsv", "reass-rep3"},
		{"human tpm", HumanTpms(nil).Label, "in/swine_reps_tpms.tsv", "swine"},
		{"human pvals swaps mock first", HumanPvals().Label, "deseq2_Avian_vs_Mock_full_extended.csv", "mock-avian"},
		{"human pvals keeps order", HumanPvals().Label, "deseq2_Swine_vs_Reassortant_full_extended.csv", "swine-reass"},
		{"human pvals mock first already", HumanPvals().Label, "deseq2_Mock_vs_Avian_full_extended.csv", "mock-avian"},
		{"segment pvals no swap", SegmentPvals().Label, "deseq2_Avian_vs_Mock_full.csv", "avian-mock"},
		{"segment pvals renames both", SegmentPvals().Label, "x/deseq2_Reassortant_vs_Swine_full.csv", "reass-swine"},
		{"unknown token kept", SegmentPvals().Label, "deseq2_H1N1_vs_Mock_full.csv", "H1N1-mock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rule.Apply(tt.path)
			if err != nil {
				t.Fatalf("Apply(%q): %v", tt.path, err)
			}
			if got != tt.label {
				t.Errorf("Apply(%q) = %q, want %q", tt.path, got, tt.label)
			}
		})
	}
}

func TestLabelRuleDeterministic(t *testing.T) {
	rule := SegmentPvals().Label
	first, err := rule.Apply("deseq2_Avian_vs_Mock_full.csv")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		got, _ := rule.Apply("deseq2_Avian_vs_Mock_full.csv")
		if got != first {
			t.Fatalf("run %d: %q != %q", i, got, first)
		}
	}
}

func TestLabelRuleMalformed(t *testing.T) {
	paths := []string{
		"deseq2_Avian_Mock_full.csv",
		"Avian_vs_Mock_full.csv",
		"deseq2_Avian_vs_Mock_vs_Swine_full.csv",
		"deseq2__vs_Mock_full.csv",
	}
	for _, p := range paths {
		if _, err := SegmentPvals().Label.Apply(p); !errors.Is(err, ErrMalformedFilename) {
			t.Errorf("Apply(%q) error = %v, want ErrMalformedFilename", p, err)
		}
	}
}

func TestParseRuleKey(t *testing.T) {
	pr := SegmentTpms().Parse
	if k, ok := pr.key("gene-PB2 \n"); !ok || k != "PB2" {
		t.Errorf("key = %q, %v", k, ok)
	}
	if _, ok := pr.key("ENSG00000119922"); ok {
		t.Error("ENSG key not excluded")
	}

	quoted := SegmentPvals().Parse
	if k, ok := quoted.key(`"gene-vRNA-HA"`); !ok || k != "gene-vRNA-HA" {
		t.Errorf("unquoted key = %q, %v", k, ok)
	}
	if _, ok := quoted.key(`"ENSG00000182393"`); ok {
		t.Error("quoted ENSG key not excluded")
	}
}

func TestParseRuleValidate(t *testing.T) {
	bad := ParseRule{Delimiter: "\t", ValueCols: []int{1, 2}, ValueSuffixes: []string{"-rep1"}}
	if err := bad.validate(); err == nil {
		t.Error("mismatched suffixes accepted")
	}
	if err := (ParseRule{Delimiter: "\t"}).validate(); err == nil {
		t.Error("rule without value columns accepted")
	}
	if n := HumanPvals().Parse.minFields(); n != 12 {
		t.Errorf("minFields = %d, want 12", n)
	}
}
