/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ice_quiver",
	Short: "Polish clustered isoforms with quiver and classify HQ/LQ output",
	Long: `Polishing stages for a transcript isoform clustering run:

1.	all: polish draft consensus isoforms with quiver, then classify HQ/LQ
2.	polish: run only the quiver polishing stage
3.	postprocess: run only the HQ/LQ classification stage

Each stage works on the cluster output directory produced upstream and can
submit its jobs to an SGE scheduler.
`,
	// Uncomment the following line if your bare application
	// has an action associated with it:
	// Run: func(cmd *cobra.Command, args []string) { },
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

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file ")
}
