/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/answer19831020/cDNA-primer/ice"
	"github.com/answer19831020/cDNA-primer/utils"

	"github.com/spf13/cobra"
)

// allCmd represents the all command
var allCmd = &cobra.Command{
	Use:   "all <root_dir> --bas_fofn=<fofn> --fasta_fofn=<fofn> [args]",
	Short: "Polish draft isoforms with quiver, then write HQ/LQ outputs",
	Args:  cobra.ExactArgs(1),
	Long: `Runs the full polishing stage on a cluster output directory:

1. quiver polishing of the draft consensus isoforms (blasr + quiver per bin)
2. post-processing of polished isoforms into HQ/LQ fasta/fastq, with an
   optional CSV report and text summary

Assumes iterative clustering is done and the draft consensus fasta exists
under <root_dir>/output/.`,
	Run: func(cmd *cobra.Command, args []string) {
		rootDir := args[0]

		basFofn, basErr := cmd.Flags().GetString("bas_fofn")
		if basErr != nil {
			log.Fatalf("Error getting bas_fofn flag: %v", basErr)
		}

		fastaFofn, faErr := cmd.Flags().GetString("fasta_fofn")
		if faErr != nil {
			log.Fatalf("Error getting fasta_fofn flag: %v", faErr)
		}

		reportFn, repErr := cmd.Flags().GetString("report")
		if repErr != nil {
			log.Fatalf("Error getting report flag: %v", repErr)
		}

		summaryFn, sumErr := cmd.Flags().GetString("summary")
		if sumErr != nil {
			log.Fatalf("Error getting summary flag: %v", sumErr)
		}

		sgeOpts := sgeOptsFromFlags(cmd)
		ipqOpts := hqlqOptsFromFlags(cmd)

		if cfgFile != "" {
			fmt.Printf("Reading config file %s ...\n", cfgFile)
			cfg, cfgErr := utils.ReadConfig(cfgFile)
			if cfgErr != nil {
				log.Fatalf("Error reading config file: %v", cfgErr)
			}
			if cfg.BasFofn != "" {
				basFofn = cfg.BasFofn
			}
			if cfg.FastaFofn != "" {
				fastaFofn = cfg.FastaFofn
			}
			if cfg.Report != "" {
				reportFn = cfg.Report
			}
			if cfg.Summary != "" {
				summaryFn = cfg.Summary
			}
			if cfg.UseSGE {
				sgeOpts.UseSGE = true
			}
			if cfg.MaxSGEJobs > 0 {
				sgeOpts.MaxSGEJobs = cfg.MaxSGEJobs
			}
			if cfg.UniqueID != nil {
				sgeOpts.UniqueID = *cfg.UniqueID
			}
			if cfg.BlasrNproc > 0 {
				sgeOpts.BlasrNproc = cfg.BlasrNproc
			}
			if cfg.QuiverNproc > 0 {
				sgeOpts.QuiverNproc = cfg.QuiverNproc
			}
			if cfg.QVTrim5 != nil {
				ipqOpts.QVTrim5 = *cfg.QVTrim5
			}
			if cfg.QVTrim3 != nil {
				ipqOpts.QVTrim3 = *cfg.QVTrim3
			}
			if cfg.HQMinAccuracy > 0 {
				ipqOpts.HQMinAccuracy = cfg.HQMinAccuracy
			}
		}

		if basFofn == "" || fastaFofn == "" {
			fmt.Println("Both --bas_fofn and --fasta_fofn are required")
			os.Exit(1)
		}

		fmt.Printf("Checking dependencies ...\n\n")
		if err := utils.CheckDeps(sgeOpts.UseSGE); err != nil {
			log.Fatalf("Dependency check failed: %v", err)
		}
		fmt.Printf("Dependencies OK\n\n----------------------------------------------------------\n\n")

		q := ice.QuiverAll{
			RootDir:   rootDir,
			BasFofn:   basFofn,
			FastaFofn: fastaFofn,
			SgeOpts:   sgeOpts,
			IpqOpts:   ipqOpts,
			ReportFn:  reportFn,
			SummaryFn: summaryFn,
		}
		fmt.Println(q.CmdStr())

		if err := q.Run(); err != nil {
			log.Fatalf("ice_quiver all failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(allCmd)

	addFofnFlags(allCmd)
	addReportSummaryFlags(allCmd)
	addHQLQFlags(allCmd)
	addSgeFlags(allCmd, true, true)
}
