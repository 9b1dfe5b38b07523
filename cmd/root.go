/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/gmaffy/rnaseq-tables/utils"
	"github.com/spf13/cobra"
)

var logCloser io.Closer

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rnaseq-tables",
	Short: "Merges per-sample RNA-seq quantification files into plotting tables",
	Long: `Merges per-sample RNA-seq result files into the wide tables used for plotting:
1.	Segment TPMs (featureCounts TPM tables, one per replicate)
2.	Human TPMs (replicate TPM tables, one per condition)
3.	Human adjusted p-values (DESeq2 full extended tables)
4.	Segment adjusted p-values (DESeq2 vRNA/mRNA full tables)
5.	Gene summaries for a list of genes
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logPath := logFile
		if logPath == "" && cfgFile != "" {
			cfg, err := utils.ReadConfig(cfgFile)
			if err != nil {
				fatalf("Error reading config file: %v", err)
			}
			logPath = cfg.LogFile
		}
		logger, closer, err := utils.NewLogger(logPath)
		if err != nil {
			fatalf("Error creating logger: %v", err)
		}
		slog.SetDefault(logger)
		logCloser = closer
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

func closeLog() {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
}

// fatalf records the failure in the run log, closes the log file and exits
// with status 1.
func fatalf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	slog.Error("RNASEQ_TABLES", "STATUS", fmt.Sprintf("FAILED - %s", msg))
	closeLog()
	log.Fatal(msg)
}

func fatal(v ...any) {
	fatalf("%s", fmt.Sprint(v...))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cfgFile string
var logFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file ")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "append a JSON run log to this file")
}
