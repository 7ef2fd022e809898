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

// polishCmd represents the polish command
var polishCmd = &cobra.Command{
	Use:   "polish <root_dir> --bas_fofn=<fofn> --fasta_fofn=<fofn> [args]",
	Short: "Run only the quiver polishing stage",
	Args:  cobra.ExactArgs(1),
	Long: `Polishes the draft consensus isoforms of a cluster output directory with
quiver, bin by bin, without the HQ/LQ post-processing step. Useful when
post-processing thresholds are still being tuned.`,
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

		if basFofn == "" || fastaFofn == "" {
			fmt.Println("Both --bas_fofn and --fasta_fofn are required")
			os.Exit(1)
		}

		sgeOpts := sgeOptsFromFlags(cmd)

		fmt.Printf("Checking dependencies ...\n\n")
		if err := utils.CheckDeps(sgeOpts.UseSGE); err != nil {
			log.Fatalf("Dependency check failed: %v", err)
		}
		fmt.Printf("Dependencies OK\n\n----------------------------------------------------------\n\n")

		iceq := ice.NewIceQuiver(rootDir, basFofn, fastaFofn, sgeOpts)
		if err := iceq.ValidateInputs(); err != nil {
			log.Fatalf("Input validation failed: %v", err)
		}
		if err := iceq.Run(); err != nil {
			log.Fatalf("Quiver polishing failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(polishCmd)

	addFofnFlags(polishCmd)
	addSgeFlags(polishCmd, true, true)
}
