/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"

	"github.com/answer19831020/cDNA-primer/ice"
	"github.com/spf13/cobra"
)

// Flag registration shared by the polishing subcommands. Purely
// declarative; validation is the stages' business.

func addFofnFlags(c *cobra.Command) *cobra.Command {
	c.Flags().String("bas_fofn", "", "fofn of input bas/bax.h5 files")
	c.Flags().String("fasta_fofn", "", "fofn of subread fasta files extracted from bas/bax.h5 files")
	return c
}

func addReportSummaryFlags(c *cobra.Command) *cobra.Command {
	c.Flags().String("report", "", "output CSV report of isoform classification (optional)")
	c.Flags().String("summary", "", "output text summary of the run (optional)")
	return c
}

func addSgeFlags(c *cobra.Command, blasrNproc, quiverNproc bool) *cobra.Command {
	defaults := ice.DefaultSgeOpts()
	c.Flags().Bool("use_sge", defaults.UseSGE, "submit jobs to an SGE scheduler")
	c.Flags().Int("max_sge_jobs", defaults.MaxSGEJobs, "maximum concurrent jobs (SGE or local)")
	c.Flags().Int("unique_id", defaults.UniqueID, "unique id tagging this run's jobs")
	if blasrNproc {
		c.Flags().Int("blasr_nproc", defaults.BlasrNproc, "threads per blasr alignment job")
	}
	if quiverNproc {
		c.Flags().Int("quiver_nproc", defaults.QuiverNproc, "threads per quiver polishing job")
	}
	return c
}

func addHQLQFlags(c *cobra.Command) *cobra.Command {
	defaults := ice.DefaultHQLQOpts()
	c.Flags().Int("qv_trim_5", defaults.QVTrim5, "ignore QVs of this many bases at the 5' end")
	c.Flags().Int("qv_trim_3", defaults.QVTrim3, "ignore QVs of this many bases at the 3' end")
	c.Flags().Float64("hq_quiver_min_accuracy", defaults.HQMinAccuracy, "minimum expected accuracy for an isoform to be HQ")
	c.Flags().String("hq_isoforms_fa", "", "output path for HQ isoform fasta (optional)")
	c.Flags().String("hq_isoforms_fq", "", "output path for HQ isoform fastq (optional)")
	c.Flags().String("lq_isoforms_fa", "", "output path for LQ isoform fasta (optional)")
	c.Flags().String("lq_isoforms_fq", "", "output path for LQ isoform fastq (optional)")
	return c
}

func sgeOptsFromFlags(c *cobra.Command) ice.SgeOpts {
	opts := ice.DefaultSgeOpts()
	var err error

	opts.UseSGE, err = c.Flags().GetBool("use_sge")
	if err != nil {
		log.Fatalf("Error getting use_sge flag: %v", err)
	}
	opts.MaxSGEJobs, err = c.Flags().GetInt("max_sge_jobs")
	if err != nil {
		log.Fatalf("Error getting max_sge_jobs flag: %v", err)
	}
	opts.UniqueID, err = c.Flags().GetInt("unique_id")
	if err != nil {
		log.Fatalf("Error getting unique_id flag: %v", err)
	}
	if c.Flags().Lookup("blasr_nproc") != nil {
		opts.BlasrNproc, err = c.Flags().GetInt("blasr_nproc")
		if err != nil {
			log.Fatalf("Error getting blasr_nproc flag: %v", err)
		}
	}
	if c.Flags().Lookup("quiver_nproc") != nil {
		opts.QuiverNproc, err = c.Flags().GetInt("quiver_nproc")
		if err != nil {
			log.Fatalf("Error getting quiver_nproc flag: %v", err)
		}
	}
	return opts
}

func hqlqOptsFromFlags(c *cobra.Command) ice.HQLQOpts {
	opts := ice.DefaultHQLQOpts()
	var err error

	opts.QVTrim5, err = c.Flags().GetInt("qv_trim_5")
	if err != nil {
		log.Fatalf("Error getting qv_trim_5 flag: %v", err)
	}
	opts.QVTrim3, err = c.Flags().GetInt("qv_trim_3")
	if err != nil {
		log.Fatalf("Error getting qv_trim_3 flag: %v", err)
	}
	opts.HQMinAccuracy, err = c.Flags().GetFloat64("hq_quiver_min_accuracy")
	if err != nil {
		log.Fatalf("Error getting hq_quiver_min_accuracy flag: %v", err)
	}
	opts.HQIsoformsFA, err = c.Flags().GetString("hq_isoforms_fa")
	if err != nil {
		log.Fatalf("Error getting hq_isoforms_fa flag: %v", err)
	}
	opts.HQIsoformsFQ, err = c.Flags().GetString("hq_isoforms_fq")
	if err != nil {
		log.Fatalf("Error getting hq_isoforms_fq flag: %v", err)
	}
	opts.LQIsoformsFA, err = c.Flags().GetString("lq_isoforms_fa")
	if err != nil {
		log.Fatalf("Error getting lq_isoforms_fa flag: %v", err)
	}
	opts.LQIsoformsFQ, err = c.Flags().GetString("lq_isoforms_fq")
	if err != nil {
		log.Fatalf("Error getting lq_isoforms_fq flag: %v", err)
	}
	return opts
}
