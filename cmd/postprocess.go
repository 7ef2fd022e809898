/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"

	"github.com/answer19831020/cDNA-primer/ice"

	"github.com/spf13/cobra"
)

// postprocessCmd represents the postprocess command
var postprocessCmd = &cobra.Command{
	Use:   "postprocess <root_dir> [args]",
	Short: "Classify polished isoforms into HQ/LQ fasta/fastq output",
	Args:  cobra.ExactArgs(1),
	Long: `Reads the merged polished isoforms of a cluster output directory,
computes each isoform's expected accuracy from its quiver QVs, and writes
high-quality and low-quality fasta/fastq sets plus an optional CSV report
and text summary.`,
	Run: func(cmd *cobra.Command, args []string) {
		rootDir := args[0]

		reportFn, repErr := cmd.Flags().GetString("report")
		if repErr != nil {
			log.Fatalf("Error getting report flag: %v", repErr)
		}

		summaryFn, sumErr := cmd.Flags().GetString("summary")
		if sumErr != nil {
			log.Fatalf("Error getting summary flag: %v", sumErr)
		}

		useSGE, sgeErr := cmd.Flags().GetBool("use_sge")
		if sgeErr != nil {
			log.Fatalf("Error getting use_sge flag: %v", sgeErr)
		}

		quitIfNotDone, qErr := cmd.Flags().GetBool("quit_if_not_done")
		if qErr != nil {
			log.Fatalf("Error getting quit_if_not_done flag: %v", qErr)
		}

		ipqOpts := hqlqOptsFromFlags(cmd)

		icepq := ice.NewIceQuiverPostprocess(rootDir, useSGE, quitIfNotDone,
			ipqOpts, reportFn, summaryFn)
		if err := icepq.Run(); err != nil {
			log.Fatalf("Postprocessing failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(postprocessCmd)

	addReportSummaryFlags(postprocessCmd)
	addHQLQFlags(postprocessCmd)
	postprocessCmd.Flags().Bool("use_sge", false, "whether polishing ran on an SGE scheduler")
	postprocessCmd.Flags().Bool("quit_if_not_done", false, "abort when the polishing stage has not finished")
}
