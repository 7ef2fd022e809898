// Package ice holds the quiver polishing stages run against a cluster
// output directory: polishing the draft consensus isoforms and
// post-processing the polished isoforms into HQ/LQ fasta/fastq output.
package ice

import "fmt"

// allProg is the fixed program token emitted by CmdStr. Cluster scripts and
// reports generated by earlier releases carry the same token, so it stays.
const allProg = "ice_quiver.py all "

// QuiverAll sequences the two polishing stages: quiver polishing of the
// draft isoforms, then HQ/LQ post-processing. It holds configuration only;
// validation and execution belong to the stages themselves.
type QuiverAll struct {
	RootDir   string
	BasFofn   string
	FastaFofn string
	SgeOpts   SgeOpts
	IpqOpts   HQLQOpts

	// ReportFn and SummaryFn are optional output paths; empty means
	// the stage writes neither.
	ReportFn  string
	SummaryFn string
}

// The stage constructors are variables so tests can interpose fakes and
// check call ordering.
type polisher interface {
	ValidateInputs() error
	Run() error
}

type postprocessor interface {
	Run() error
}

var newPolisher = func(rootDir, basFofn, fastaFofn string, sgeOpts SgeOpts) polisher {
	return NewIceQuiver(rootDir, basFofn, fastaFofn, sgeOpts)
}

var newPostprocessor = func(rootDir string, useSGE, quitIfNotDone bool,
	ipqOpts HQLQOpts, reportFn, summaryFn string) postprocessor {
	return NewIceQuiverPostprocess(rootDir, useSGE, quitIfNotDone, ipqOpts, reportFn, summaryFn)
}

// CmdStr returns the shell-readable invocation equivalent to this
// configuration. Pure formatting; it never fails.
func (q *QuiverAll) CmdStr() string {
	cmd := allProg +
		fmt.Sprintf("%s ", q.RootDir) +
		fmt.Sprintf("--bas_fofn=%s ", q.BasFofn) +
		fmt.Sprintf("--fasta_fofn=%s ", q.FastaFofn)
	if q.ReportFn != "" {
		cmd += fmt.Sprintf("--report=%s ", q.ReportFn)
	}
	if q.SummaryFn != "" {
		cmd += fmt.Sprintf("--summary=%s ", q.SummaryFn)
	}
	cmd += q.SgeOpts.CmdStr(true, true)
	cmd += q.IpqOpts.CmdStr()
	return cmd
}

// Run validates and runs the polishing stage, then runs post-processing.
// Errors pass through unmodified and post-processing never starts unless
// polishing succeeded. Post-processing is always constructed with
// quitIfNotDone disabled: it re-derives completion itself rather than
// trusting a stale sentinel.
func (q *QuiverAll) Run() error {
	iceq := newPolisher(q.RootDir, q.BasFofn, q.FastaFofn, q.SgeOpts)
	if err := iceq.ValidateInputs(); err != nil {
		return err
	}
	if err := iceq.Run(); err != nil {
		return err
	}

	icepq := newPostprocessor(q.RootDir, q.SgeOpts.UseSGE, false,
		q.IpqOpts, q.ReportFn, q.SummaryFn)
	return icepq.Run()
}
