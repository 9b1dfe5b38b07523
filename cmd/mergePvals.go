/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (

	"github.com/gmaffy/rnaseq-tables/merge"
	"github.com/gmaffy/rnaseq-tables/utils"
	"github.com/spf13/cobra"
)

// mergeHumanPvalsCmd represents the mergeHumanPvals command
var mergeHumanPvalsCmd = &cobra.Command{
	Use:   "mergeHumanPvals -i <dir of deseq2_*_vs_*_full_extended.csv> [-o pvals-all-human-comparisons.tsv]",
	Short: "Merges DESeq2 adjusted p-values of the human comparisons",
	Long: `Merges the padj column (12th) of deseq2_<A>_vs_<B>_full_extended.csv tables into one table.
Comparisons against Mock are flipped so the column reads mock-<virus>. Missing values are
filled with the placeholder and reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		runRecipe(cmd, withPlaceholder(cmd, merge.HumanPvals(), cfg), cfg)
	},
}

// mergeSegmentPvalsCmd represents the mergeSegmentPvals command
var mergeSegmentPvalsCmd = &cobra.Command{
	Use:   "mergeSegmentPvals -i <dir of deseq2_*_vs_*_full.csv> [-o pvals-segments-strand2-vRNAmRNA.tsv]",
	Short: "Merges DESeq2 adjusted p-values of the vRNA/mRNA segment comparisons",
	Long: `Merges the padj column (6th) of deseq2_<A>_vs_<B>_full.csv tables into one table.
Comparisons keep the order of the file name (Avian_vs_Mock -> avian-mock). Human (ENSG)
rows are dropped. Missing values are filled with the placeholder and reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		runRecipe(cmd, withPlaceholder(cmd, merge.SegmentPvals(), cfg), cfg)
	},
}

func withPlaceholder(cmd *cobra.Command, r merge.Recipe, cfg utils.Config) merge.Recipe {
	placeholder, pErr := cmd.Flags().GetString("placeholder")
	if pErr != nil {
		fatalf("Error getting placeholder flag: %v", pErr)
	}
	if !cmd.Flags().Changed("placeholder") && cfg.Placeholder != "" {
		placeholder = cfg.Placeholder
	}
	r.Missing.Placeholder = placeholder
	return r
}

func init() {
	rootCmd.AddCommand(mergeHumanPvalsCmd)
	addRecipeFlags(mergeHumanPvalsCmd, "pvals-all-human-comparisons.tsv")
	mergeHumanPvalsCmd.Flags().String("placeholder", "0.05", "value written for missing p-values")

	rootCmd.AddCommand(mergeSegmentPvalsCmd)
	addRecipeFlags(mergeSegmentPvalsCmd, "pvals-segments-strand2-vRNAmRNA.tsv")
	mergeSegmentPvalsCmd.Flags().String("placeholder", "0.05", "value written for missing p-values")
}
