package ice

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
)

func qseq(id string, n int, qv alphabet.Qphred) *linear.QSeq {
	ql := make(alphabet.QLetters, n)
	for i := range ql {
		ql[i] = alphabet.QLetter{L: 'A', Q: qv}
	}
	return linear.NewQSeq(id, ql, alphabet.DNA, alphabet.Sanger)
}

func TestExpectedAccuracy(t *testing.T) {
	s := qseq("iso1", 200, 40)
	acc, ok := expectedAccuracy(s, 0, 0)
	if !ok {
		t.Fatal("expectedAccuracy() ok=false on full window")
	}
	if math.Abs(acc-0.9999) > 1e-9 {
		t.Errorf("expectedAccuracy(Q40) = %v, want 0.9999", acc)
	}
}

func TestExpectedAccuracyTrimsEnds(t *testing.T) {
	// noisy ends, clean middle: the trimmed window must only see the middle
	ql := make(alphabet.QLetters, 100)
	for i := range ql {
		q := alphabet.Qphred(40)
		if i < 10 || i >= 90 {
			q = 2
		}
		ql[i] = alphabet.QLetter{L: 'A', Q: q}
	}
	s := linear.NewQSeq("iso1", ql, alphabet.DNA, alphabet.Sanger)

	accFull, _ := expectedAccuracy(s, 0, 0)
	accTrimmed, ok := expectedAccuracy(s, 10, 10)
	if !ok {
		t.Fatal("expectedAccuracy() ok=false with valid window")
	}
	if accTrimmed <= accFull {
		t.Errorf("trimmed accuracy %v should exceed untrimmed %v", accTrimmed, accFull)
	}
	if math.Abs(accTrimmed-0.9999) > 1e-9 {
		t.Errorf("trimmed accuracy = %v, want 0.9999", accTrimmed)
	}
}

func TestExpectedAccuracyNoWindow(t *testing.T) {
	s := qseq("iso1", 50, 40)
	if _, ok := expectedAccuracy(s, 100, 30); ok {
		t.Error("expectedAccuracy() ok=true when trims cover the whole isoform")
	}
}

func TestPostprocessRun(t *testing.T) {
	rootDir := t.TempDir()

	// one clean isoform (Q40 throughout) and one noisy one (Q2 throughout)
	fq := "@hq_isoform\n" + strings.Repeat("ACGT", 30) + "\n+\n" + strings.Repeat("I", 120) + "\n" +
		"@lq_isoform\n" + strings.Repeat("ACGT", 30) + "\n+\n" + strings.Repeat("#", 120) + "\n"
	if err := os.WriteFile(mergedFastqPath(rootDir), []byte(fq), 0644); err != nil {
		t.Fatalf("writing merged fastq: %v", err)
	}

	opts := HQLQOpts{QVTrim5: 10, QVTrim3: 10, HQMinAccuracy: 0.99}
	reportFn := filepath.Join(rootDir, "report.csv")
	summaryFn := filepath.Join(rootDir, "summary.txt")

	p := NewIceQuiverPostprocess(rootDir, false, false, opts, reportFn, summaryFn)
	if err := p.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	hqFasta, err := os.ReadFile(hqFastaPath(rootDir))
	if err != nil {
		t.Fatalf("reading HQ fasta: %v", err)
	}
	if !strings.Contains(string(hqFasta), "hq_isoform") {
		t.Errorf("HQ fasta missing clean isoform:\n%s", hqFasta)
	}
	if strings.Contains(string(hqFasta), "lq_isoform") {
		t.Errorf("HQ fasta contains noisy isoform:\n%s", hqFasta)
	}

	lqFastq, err := os.ReadFile(lqFastqPath(rootDir))
	if err != nil {
		t.Fatalf("reading LQ fastq: %v", err)
	}
	if !strings.Contains(string(lqFastq), "lq_isoform") {
		t.Errorf("LQ fastq missing noisy isoform:\n%s", lqFastq)
	}

	report, err := os.ReadFile(reportFn)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	for _, frag := range []string{"isoform_id", "hq_isoform", "lq_isoform", "HQ", "LQ"} {
		if !strings.Contains(string(report), frag) {
			t.Errorf("report missing %q:\n%s", frag, report)
		}
	}

	summary, err := os.ReadFile(summaryFn)
	if err != nil {
		t.Fatalf("reading summary: %v", err)
	}
	for _, frag := range []string{"num_polished_isoforms: 2", "num_hq_isoforms: 1", "num_lq_isoforms: 1"} {
		if !strings.Contains(string(summary), frag) {
			t.Errorf("summary missing %q:\n%s", frag, summary)
		}
	}

	chartFn := strings.TrimSuffix(summaryFn, ".txt") + ".accuracy.html"
	if _, err := os.Stat(chartFn); err != nil {
		t.Errorf("accuracy chart not written: %v", err)
	}
}

func TestPostprocessOutputOverrides(t *testing.T) {
	rootDir := t.TempDir()
	fq := "@iso\n" + strings.Repeat("ACGT", 30) + "\n+\n" + strings.Repeat("I", 120) + "\n"
	if err := os.WriteFile(mergedFastqPath(rootDir), []byte(fq), 0644); err != nil {
		t.Fatalf("writing merged fastq: %v", err)
	}

	opts := HQLQOpts{
		QVTrim5:       0,
		QVTrim3:       0,
		HQMinAccuracy: 0.99,
		HQIsoformsFA:  filepath.Join(rootDir, "custom_hq.fasta"),
	}
	p := NewIceQuiverPostprocess(rootDir, false, false, opts, "", "")
	if err := p.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if _, err := os.Stat(opts.HQIsoformsFA); err != nil {
		t.Errorf("HQ fasta override not written: %v", err)
	}
}

func TestPostprocessQuitIfNotDone(t *testing.T) {
	p := NewIceQuiverPostprocess(t.TempDir(), false, true, DefaultHQLQOpts(), "", "")
	if err := p.Run(); err == nil {
		t.Fatal("Run() = nil with polishing not done and quitIfNotDone set")
	}
}

func TestPostprocessRecoversFromBins(t *testing.T) {
	rootDir := t.TempDir()
	bin := "c0to0"
	if err := os.MkdirAll(binDir(rootDir, bin), 0755); err != nil {
		t.Fatalf("creating bin dir: %v", err)
	}
	fq := "@iso\n" + strings.Repeat("ACGT", 30) + "\n+\n" + strings.Repeat("I", 120) + "\n"
	if err := os.WriteFile(binFastqPath(rootDir, bin), []byte(fq), 0644); err != nil {
		t.Fatalf("writing bin fastq: %v", err)
	}

	opts := HQLQOpts{QVTrim5: 0, QVTrim3: 0, HQMinAccuracy: 0.99}
	p := NewIceQuiverPostprocess(rootDir, false, false, opts, "", "")
	if err := p.Run(); err != nil {
		t.Fatalf("Run() should re-merge completed bins, got error: %v", err)
	}
	if _, err := os.Stat(hqFastaPath(rootDir)); err != nil {
		t.Errorf("HQ fasta not written after recovery: %v", err)
	}
}
