/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (
	"github.com/gmaffy/rnaseq-tables/merge"
	"github.com/spf13/cobra"
)

// mergeSegmentTpmsCmd represents the mergeSegmentTpms command
var mergeSegmentTpmsCmd = &cobra.Command{
	Use:   "mergeSegmentTpms -i <dir of *.counts.tpm.tsv> [-o counts-tpm-segments.tsv]",
	Short: "Merges per-replicate influenza segment TPM tables",
	Long: `Merges featureCounts TPM tables (<condition>_<rep>.counts.tpm.tsv, TPM in column 8)
into one table with ID, Name and one column per replicate. Human (ENSG) rows are dropped.
Run it once per strand directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		runRecipe(cmd, merge.SegmentTpms(), loadConfig())
	},
}

func init() {
	rootCmd.AddCommand(mergeSegmentTpmsCmd)
	addRecipeFlags(mergeSegmentTpmsCmd, "counts-tpm-segments.tsv")
}
