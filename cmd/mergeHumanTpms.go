/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/gmaffy/rnaseq-tables/merge"
	"github.com/spf13/cobra"
)

// mergeHumanTpmsCmd represents the mergeHumanTpms command
var mergeHumanTpmsCmd = &cobra.Command{
	Use:   "mergeHumanTpms -i <dir of *_reps_tpms.tsv> [-n names.csv] [-o tpms-human.tsv]",
	Short: "Merges per-condition human replicate TPM tables",
	Long: `Merges <condition>_reps_tpms.tsv tables (ID and three replicate TPMs) into one table.
Gene names come from an optional DESeq2 extended table (ID,geneName,...); IDs without a
name get an empty Name. Every gene must have a value for every column.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		namesFile, nErr := cmd.Flags().GetString("names")
		if nErr != nil {
			fatalf("Error getting names flag: %v", nErr)
		}
		if namesFile == "" {
			namesFile = cfg.Names
		}
		if namesFile != "" {
			if _, err := os.Stat(namesFile); err != nil {
				fatalf("Names file %s is not a valid file: %v", namesFile, err)
			}
		}

		names, err := merge.LoadNames(namesFile, merge.NamesRule)
		if err != nil {
			fatalf("Error reading names file: %v", err)
		}
		fmt.Printf("%d gene names loaded\n", len(names))

		runRecipe(cmd, merge.HumanTpms(names), cfg)
	},
}

func init() {
	rootCmd.AddCommand(mergeHumanTpmsCmd)
	addRecipeFlags(mergeHumanTpmsCmd, "tpms-human.tsv")
	mergeHumanTpmsCmd.Flags().StringP("names", "n", "", "CSV with ID,geneName columns")
}
