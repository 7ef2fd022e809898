package ice

import "fmt"

// SgeOpts bundles the scheduler knobs shared by the polishing stages. It is
// plain data; stages validate what they need at run time.
type SgeOpts struct {
	UseSGE      bool
	MaxSGEJobs  int
	UniqueID    int
	BlasrNproc  int
	QuiverNproc int
}

func DefaultSgeOpts() SgeOpts {
	return SgeOpts{
		UseSGE:      false,
		MaxSGEJobs:  40,
		UniqueID:    0,
		BlasrNproc:  12,
		QuiverNproc: 8,
	}
}

// CmdStr serializes the bundle as command-line fragments. The two nproc
// knobs are only surfaced for stages that run the corresponding tool.
func (o SgeOpts) CmdStr(showBlasrNproc, showQuiverNproc bool) string {
	cmd := ""
	if o.UseSGE {
		cmd += "--use_sge "
	}
	cmd += fmt.Sprintf("--max_sge_jobs=%d ", o.MaxSGEJobs)
	cmd += fmt.Sprintf("--unique_id=%d ", o.UniqueID)
	if showBlasrNproc {
		cmd += fmt.Sprintf("--blasr_nproc=%d ", o.BlasrNproc)
	}
	if showQuiverNproc {
		cmd += fmt.Sprintf("--quiver_nproc=%d ", o.QuiverNproc)
	}
	return cmd
}

// HQLQOpts holds the post-quiver classification thresholds and optional
// overrides for the four HQ/LQ output files.
type HQLQOpts struct {
	QVTrim5       int
	QVTrim3       int
	HQMinAccuracy float64

	HQIsoformsFA string
	HQIsoformsFQ string
	LQIsoformsFA string
	LQIsoformsFQ string
}

func DefaultHQLQOpts() HQLQOpts {
	return HQLQOpts{
		QVTrim5:       100,
		QVTrim3:       30,
		HQMinAccuracy: 0.99,
	}
}

func (o HQLQOpts) CmdStr() string {
	cmd := fmt.Sprintf("--hq_quiver_min_accuracy=%g ", o.HQMinAccuracy)
	cmd += fmt.Sprintf("--qv_trim_5=%d ", o.QVTrim5)
	cmd += fmt.Sprintf("--qv_trim_3=%d ", o.QVTrim3)
	if o.HQIsoformsFA != "" {
		cmd += fmt.Sprintf("--hq_isoforms_fa=%s ", o.HQIsoformsFA)
	}
	if o.HQIsoformsFQ != "" {
		cmd += fmt.Sprintf("--hq_isoforms_fq=%s ", o.HQIsoformsFQ)
	}
	if o.LQIsoformsFA != "" {
		cmd += fmt.Sprintf("--lq_isoforms_fa=%s ", o.LQIsoformsFA)
	}
	if o.LQIsoformsFQ != "" {
		cmd += fmt.Sprintf("--lq_isoforms_fq=%s ", o.LQIsoformsFQ)
	}
	return cmd
}
