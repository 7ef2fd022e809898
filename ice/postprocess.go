package ice

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/answer19831020/cDNA-primer/utils"
	"golang.org/x/exp/maps"
	"gonum.org/v1/gonum/stat"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// IceQuiverPostprocess classifies the merged polished isoforms into high
// and low quality sets and writes them as fasta/fastq, plus an optional CSV
// report, text summary and accuracy histogram.
type IceQuiverPostprocess struct {
	RootDir       string
	UseSGE        bool
	QuitIfNotDone bool
	IpqOpts       HQLQOpts
	ReportFn      string
	SummaryFn     string
}

func NewIceQuiverPostprocess(rootDir string, useSGE, quitIfNotDone bool,
	ipqOpts HQLQOpts, reportFn, summaryFn string) *IceQuiverPostprocess {
	return &IceQuiverPostprocess{
		RootDir:       rootDir,
		UseSGE:        useSGE,
		QuitIfNotDone: quitIfNotDone,
		IpqOpts:       ipqOpts,
		ReportFn:      reportFn,
		SummaryFn:     summaryFn,
	}
}

func (p *IceQuiverPostprocess) Run() error {
	logger, closeLog, err := utils.NewRunLogger(runLogPath(p.RootDir))
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer closeLog()

	merged := mergedFastqPath(p.RootDir)
	if _, err := os.Stat(merged); err != nil {
		if p.QuitIfNotDone {
			return fmt.Errorf("polishing not done, %s missing", merged)
		}
		// The merge step may have been interrupted after the bins finished.
		logger.Info("Merged fastq missing, re-merging polished bins", "useSGE", p.UseSGE)
		if _, mErr := mergeQuivered(p.RootDir); mErr != nil {
			return fmt.Errorf("polishing incomplete, rerun the polish stage: %w", mErr)
		}
	}

	isoforms, err := readPolishedIsoforms(merged)
	if err != nil {
		return err
	}
	if len(isoforms) == 0 {
		return fmt.Errorf("%s contains no polished isoforms", merged)
	}
	logger.Info("Classifying polished isoforms", "isoforms", len(isoforms),
		"minAccuracy", p.IpqOpts.HQMinAccuracy)

	var hq, lq []*linear.QSeq
	var ids, classes []string
	var lengths []int
	var accs []float64
	for _, iso := range isoforms {
		acc, ok := expectedAccuracy(iso, p.IpqOpts.QVTrim5, p.IpqOpts.QVTrim3)
		class := "LQ"
		if ok && acc >= p.IpqOpts.HQMinAccuracy {
			class = "HQ"
			hq = append(hq, iso)
		} else {
			lq = append(lq, iso)
		}
		ids = append(ids, iso.ID)
		lengths = append(lengths, iso.Len())
		accs = append(accs, acc)
		classes = append(classes, class)
	}

	if err := p.writeClassified(hq, lq); err != nil {
		return err
	}
	logger.Info("Completed HQ/LQ classification", "hq", len(hq), "lq", len(lq),
		"processKey", "Postprocess:classify")

	if p.ReportFn != "" {
		if err := writeReport(p.ReportFn, ids, lengths, accs, classes); err != nil {
			return fmt.Errorf("writing report %s: %w", p.ReportFn, err)
		}
		logger.Info("Wrote cluster report", "report", p.ReportFn)
	}

	if p.SummaryFn != "" {
		if err := writeSummary(p.SummaryFn, len(hq), len(lq), hqAccuracies(accs, classes)); err != nil {
			return fmt.Errorf("writing summary %s: %w", p.SummaryFn, err)
		}
		htmlFn := strings.TrimSuffix(p.SummaryFn, filepath.Ext(p.SummaryFn)) + ".accuracy.html"
		if err := accuracyChart(accs, htmlFn); err != nil {
			return fmt.Errorf("writing accuracy chart %s: %w", htmlFn, err)
		}
		logger.Info("Wrote summary", "summary", p.SummaryFn, "chart", htmlFn)
	}

	return nil
}

// expectedAccuracy is 1 minus the mean base error probability over the QV
// window that ignores the first trim5 and last trim3 bases, where quiver QVs
// are least trustworthy. ok is false when no window remains.
func expectedAccuracy(s *linear.QSeq, trim5, trim3 int) (acc float64, ok bool) {
	n := s.Len()
	if trim5 < 0 {
		trim5 = 0
	}
	if trim3 < 0 {
		trim3 = 0
	}
	if trim5+trim3 >= n {
		return 0, false
	}
	probs := make([]float64, 0, n-trim5-trim3)
	for _, ql := range s.Seq[trim5 : n-trim3] {
		probs = append(probs, ql.Q.ProbE())
	}
	return 1 - stat.Mean(probs, nil), true
}

func (p *IceQuiverPostprocess) writeClassified(hq, lq []*linear.QSeq) error {
	outputs := []struct {
		path  string
		seqs  []*linear.QSeq
		fastq bool
	}{
		{orDefault(p.IpqOpts.HQIsoformsFA, hqFastaPath(p.RootDir)), hq, false},
		{orDefault(p.IpqOpts.HQIsoformsFQ, hqFastqPath(p.RootDir)), hq, true},
		{orDefault(p.IpqOpts.LQIsoformsFA, lqFastaPath(p.RootDir)), lq, false},
		{orDefault(p.IpqOpts.LQIsoformsFQ, lqFastqPath(p.RootDir)), lq, true},
	}
	for _, out := range outputs {
		if err := writeIsoforms(out.path, out.seqs, out.fastq); err != nil {
			return fmt.Errorf("writing %s: %w", out.path, err)
		}
	}
	return nil
}

func orDefault(path, fallback string) string {
	if path != "" {
		return path
	}
	return fallback
}

func writeIsoforms(path string, seqs []*linear.QSeq, asFastq bool) error {
	outFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if asFastq {
		w := fastq.NewWriter(outFile)
		for _, s := range seqs {
			if _, err := w.Write(s); err != nil {
				return err
			}
		}
		return nil
	}
	w := fasta.NewWriter(outFile, 60)
	for _, s := range seqs {
		if _, err := w.Write(s); err != nil {
			return err
		}
	}
	return nil
}

func readPolishedIsoforms(fastqPath string) ([]*linear.QSeq, error) {
	fq, err := os.Open(fastqPath)
	if err != nil {
		return nil, fmt.Errorf("opening polished fastq: %w", err)
	}
	defer fq.Close()

	r := fastq.NewReader(fq, linear.NewQSeq("", nil, alphabet.DNA, alphabet.Sanger))
	sc := seqio.NewScanner(r)
	var seqs []*linear.QSeq
	for sc.Next() {
		seqs = append(seqs, sc.Seq().(*linear.QSeq))
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("reading polished fastq %s: %w", fastqPath, err)
	}
	return seqs, nil
}

func hqAccuracies(accs []float64, classes []string) []float64 {
	var out []float64
	for i, class := range classes {
		if class == "HQ" {
			out = append(out, accs[i])
		}
	}
	return out
}

func writeReport(reportFn string, ids []string, lengths []int, accs []float64, classes []string) error {
	df := dataframe.New(
		series.New(ids, series.String, "isoform_id"),
		series.New(lengths, series.Int, "length"),
		series.New(accs, series.Float, "accuracy"),
		series.New(classes, series.String, "class"),
	)
	if df.Err != nil {
		return df.Err
	}
	reportFile, err := os.Create(reportFn)
	if err != nil {
		return err
	}
	defer reportFile.Close()
	return df.WriteCSV(reportFile)
}

func writeSummary(summaryFn string, numHQ, numLQ int, hqAccs []float64) error {
	summaryFile, err := os.Create(summaryFn)
	if err != nil {
		return err
	}
	defer summaryFile.Close()

	meanAcc := 0.0
	if len(hqAccs) > 0 {
		meanAcc = stat.Mean(hqAccs, nil)
	}
	_, err = fmt.Fprintf(summaryFile,
		"num_polished_isoforms: %d\nnum_hq_isoforms: %d\nnum_lq_isoforms: %d\nmean_hq_accuracy: %.4f\n",
		numHQ+numLQ, numHQ, numLQ, meanAcc)
	return err
}

func accuracyChart(accs []float64, htmlPath string) error {
	buckets := make(map[int]int)
	for _, a := range accs {
		b := int(a * 100)
		if b < 0 {
			b = 0
		}
		if b > 100 {
			b = 100
		}
		buckets[b]++
	}
	keys := maps.Keys(buckets)
	sort.Ints(keys)

	var labels []string
	var data []opts.BarData
	for _, k := range keys {
		labels = append(labels, fmt.Sprintf("%.2f", float64(k)/100))
		data = append(data, opts.BarData{Value: buckets[k]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Polished isoform expected accuracy"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Isoforms"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Expected accuracy"}),
	)
	bar.SetXAxis(labels).AddSeries("isoforms", data)

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(bar)

	htmlFile, err := os.Create(htmlPath)
	if err != nil {
		return err
	}
	defer htmlFile.Close()
	return page.Render(htmlFile)
}
