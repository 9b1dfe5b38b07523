/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/gmaffy/rnaseq-tables/merge"
	"github.com/gmaffy/rnaseq-tables/utils"
	"github.com/spf13/cobra"
)

// addRecipeFlags registers the flags every merge command shares.
func addRecipeFlags(c *cobra.Command, defaultOut string) {
	c.Flags().StringP("input", "i", "", "directory holding the input files")
	c.Flags().StringP("out", "o", defaultOut, "output table")
	c.Flags().StringSlice("columns", nil, "ordered condition columns (default: the recipe's columns)")
	c.Flags().Bool("lenient", false, "skip rows with missing fields instead of aborting")
}

// loadConfig returns the config file named by --config, or an empty Config.
func loadConfig() utils.Config {
	if cfgFile == "" {
		return utils.Config{}
	}
	cfg, err := utils.ReadConfig(cfgFile)
	if err != nil {
		fatalf("Error reading config file: %v", err)
	}
	return cfg
}

// runRecipe applies flags and config values to r, then runs the merge. Flags
// win over the config file.
func runRecipe(cmd *cobra.Command, r merge.Recipe, cfg utils.Config) {
	inputDir, iErr := cmd.Flags().GetString("input")
	if iErr != nil {
		fatalf("Error getting input flag: %v", iErr)
	}
	output, oErr := cmd.Flags().GetString("out")
	if oErr != nil {
		fatalf("Error getting out flag: %v", oErr)
	}
	columns, cErr := cmd.Flags().GetStringSlice("columns")
	if cErr != nil {
		fatalf("Error getting columns flag: %v", cErr)
	}
	lenient, lErr := cmd.Flags().GetBool("lenient")
	if lErr != nil {
		fatalf("Error getting lenient flag: %v", lErr)
	}

	if inputDir == "" {
		inputDir = cfg.InputDir
	}
	if !cmd.Flags().Changed("out") && cfg.Output != "" {
		output = cfg.Output
	}
	if len(columns) == 0 {
		columns = cfg.Columns
	}
	if len(columns) > 0 {
		r.Layout.Columns = columns
	}
	r.Parse.Lenient = lenient

	if inputDir == "" {
		fatal("Please provide an input directory with --input or InputDir in the config file")
	}
	inInfo, err := os.Stat(inputDir)
	if err != nil {
		fatalf("Error accessing input directory %s: %v", inputDir, err)
	}
	if !inInfo.IsDir() {
		fatalf("Input %s is not a directory", inputDir)
	}

	fmt.Printf("Running %s with the following parameters:\nInput: %s\nOutput: %s\nColumns: %v\n\n", r.Name, inputDir, output, r.Layout.Columns)

	if _, err := merge.Run(r, inputDir, output); err != nil {
		fatalf("%s failed: %v", r.Name, err)
	}
	fmt.Printf("Merged table saved at: %s\n", output)
}
