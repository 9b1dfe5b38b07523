/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gmaffy/rnaseq-tables/summary"
	"github.com/spf13/cobra"
)

// geneSummaryCmd represents the geneSummary command
var geneSummaryCmd = &cobra.Command{
	Use:   "geneSummary -t <merged tpm table> -p <merged pval table> -g <gene id> [-g ...]",
	Short: "Builds per-gene TPM points, box statistics and significance tables",
	Long: `Reads a merged TPM table (ID, Name, <code>-rep1..3) and a merged p-value table and writes,
for every requested gene, the replicate TPMs per virus group, box statistics per group and the
significance stars of every comparison between two groups.

--preset segments summarizes the influenza segment tables instead: Mock is left out, NS1 is
shown as NS and rows run mRNA then vRNA, PB2 to NS, Avian, Swine then Reassortant.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		tpmFile, tErr := cmd.Flags().GetString("tpm")
		if tErr != nil {
			fatalf("Error getting tpm flag: %v", tErr)
		}
		pvalFile, pErr := cmd.Flags().GetString("pvals")
		if pErr != nil {
			fatalf("Error getting pvals flag: %v", pErr)
		}
		genes, gErr := cmd.Flags().GetStringSlice("gene")
		if gErr != nil {
			fatalf("Error getting gene flag: %v", gErr)
		}
		outputDir, oErr := cmd.Flags().GetString("out")
		if oErr != nil {
			fatalf("Error getting out flag: %v", oErr)
		}
		prefix, prErr := cmd.Flags().GetString("prefix")
		if prErr != nil {
			fatalf("Error getting prefix flag: %v", prErr)
		}
		presetName, psErr := cmd.Flags().GetString("preset")
		if psErr != nil {
			fatalf("Error getting preset flag: %v", psErr)
		}
		preset, err := summary.PresetByName(presetName)
		if err != nil {
			fatal(err)
		}

		if tpmFile == "" {
			tpmFile = cfg.TpmTable
		}
		if pvalFile == "" {
			pvalFile = cfg.PvalTable
		}
		if len(genes) == 0 {
			genes = cfg.Genes
		}
		if tpmFile == "" || pvalFile == "" {
			fatal("Please provide a TPM table (-t) and a p-value table (-p)")
		}
		if len(genes) == 0 {
			fatal("Please provide at least one gene ID with -g")
		}

		tables, err := summary.Load(tpmFile, pvalFile)
		if err != nil {
			fatalf("Error loading tables: %v", err)
		}
		s, err := summary.Build(tables, genes, preset)
		if err != nil {
			fatalf("Error building summary: %v", err)
		}
		if len(s.Missing) == len(genes) {
			fatal("None of the requested genes were found")
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			fatalf("Error creating output directory: %v", err)
		}
		writeSummaryFile(filepath.Join(outputDir, prefix+"_points.tsv"), func(w io.Writer) error { return summary.WritePoints(w, s.Points) })
		writeSummaryFile(filepath.Join(outputDir, prefix+"_stats.tsv"), func(w io.Writer) error { return summary.WriteStats(w, s.Stats) })
		writeSummaryFile(filepath.Join(outputDir, prefix+"_significance.tsv"), func(w io.Writer) error { return summary.WriteSignificance(w, s.Significance) })
	},
}

func writeSummaryFile(path string, write func(io.Writer) error) {
	file, err := os.Create(path)
	if err != nil {
		fatalf("Failed to create %s: %v", path, err)
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			panic(err)
		}
	}(file)

	if err := write(file); err != nil {
		fatalf("Failed to write %s: %v", path, err)
	}
	fmt.Println("Saved: ", path)
}

func init() {
	rootCmd.AddCommand(geneSummaryCmd)

	geneSummaryCmd.Flags().StringP("tpm", "t", "", "merged TPM table")
	geneSummaryCmd.Flags().StringP("pvals", "p", "", "merged p-value table")
	geneSummaryCmd.Flags().StringSliceP("gene", "g", nil, "gene IDs, in plotting order")
	geneSummaryCmd.Flags().StringP("out", "o", ".", "output directory")
	geneSummaryCmd.Flags().String("prefix", "gene_summary", "output file prefix")
	geneSummaryCmd.Flags().String("preset", "human", "groups and gene ordering: human or segments")
}
