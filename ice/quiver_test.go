package ice

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/answer19831020/cDNA-primer/sge"
)

// makeClusterDir lays out a minimal cluster output directory with a draft
// consensus fasta and two fofn manifests listing real files.
func makeClusterDir(t *testing.T) (rootDir, basFofn, fastaFofn string) {
	t.Helper()
	rootDir = t.TempDir()

	if err := os.MkdirAll(filepath.Join(rootDir, "output"), 0755); err != nil {
		t.Fatalf("creating output dir: %v", err)
	}
	draft := ">c0\nACGTACGTACGT\n>c1\nGGGTTTAAACCC\n"
	if err := os.WriteFile(draftConsensusPath(rootDir), []byte(draft), 0644); err != nil {
		t.Fatalf("writing draft consensus: %v", err)
	}

	basFile := filepath.Join(rootDir, "movie1.bax.h5")
	fastaFile := filepath.Join(rootDir, "movie1.subreads.fasta")
	for _, f := range []string{basFile, fastaFile} {
		if err := os.WriteFile(f, []byte("x"), 0644); err != nil {
			t.Fatalf("writing %s: %v", f, err)
		}
	}

	basFofn = filepath.Join(rootDir, "bas.fofn")
	fastaFofn = filepath.Join(rootDir, "fasta.fofn")
	if err := os.WriteFile(basFofn, []byte(basFile+"\n"), 0644); err != nil {
		t.Fatalf("writing bas fofn: %v", err)
	}
	if err := os.WriteFile(fastaFofn, []byte(fastaFile+"\n"), 0644); err != nil {
		t.Fatalf("writing fasta fofn: %v", err)
	}
	return rootDir, basFofn, fastaFofn
}

func TestValidateInputs(t *testing.T) {
	rootDir, basFofn, fastaFofn := makeClusterDir(t)

	iq := NewIceQuiver(rootDir, basFofn, fastaFofn, DefaultSgeOpts())
	if err := iq.ValidateInputs(); err != nil {
		t.Fatalf("ValidateInputs() on complete inputs: %v", err)
	}
}

func TestValidateInputsMissingFofnEntry(t *testing.T) {
	rootDir, basFofn, fastaFofn := makeClusterDir(t)

	gone := filepath.Join(rootDir, "no_such_movie.bax.h5")
	if err := os.WriteFile(basFofn, []byte(gone+"\n"), 0644); err != nil {
		t.Fatalf("rewriting bas fofn: %v", err)
	}

	iq := NewIceQuiver(rootDir, basFofn, fastaFofn, DefaultSgeOpts())
	err := iq.ValidateInputs()
	if err == nil {
		t.Fatal("ValidateInputs() = nil, want error for missing fofn entry")
	}
	if !strings.Contains(err.Error(), gone) {
		t.Errorf("error %q does not name the missing file %q", err, gone)
	}
}

func TestValidateInputsMissingDraft(t *testing.T) {
	rootDir, basFofn, fastaFofn := makeClusterDir(t)
	if err := os.Remove(draftConsensusPath(rootDir)); err != nil {
		t.Fatalf("removing draft: %v", err)
	}

	iq := NewIceQuiver(rootDir, basFofn, fastaFofn, DefaultSgeOpts())
	if err := iq.ValidateInputs(); err == nil {
		t.Fatal("ValidateInputs() = nil, want error for missing draft consensus")
	}
}

func TestBinCmds(t *testing.T) {
	sgeOpts := DefaultSgeOpts()
	sgeOpts.BlasrNproc = 6
	sgeOpts.QuiverNproc = 4
	iq := NewIceQuiver("/out", "bas.fofn", "fa.fofn", sgeOpts)

	cmds := iq.binCmds("c0to99")
	if len(cmds) == 0 {
		t.Fatal("binCmds() returned no commands")
	}
	joined := strings.Join(cmds, "\n")
	for _, frag := range []string{
		"blasr fa.fofn",
		"--nproc 6",
		"quiver -j 4",
		"c0to99.quivered.fastq",
	} {
		if !strings.Contains(joined, frag) {
			t.Errorf("binCmds() missing %q:\n%s", frag, joined)
		}
	}
	if !strings.HasPrefix(cmds[0], "blasr ") {
		t.Errorf("first command should be the blasr alignment, got %q", cmds[0])
	}
	if !strings.HasPrefix(cmds[len(cmds)-1], "quiver ") {
		t.Errorf("last command should be quiver, got %q", cmds[len(cmds)-1])
	}
}

func TestReadDraftIsoforms(t *testing.T) {
	rootDir, _, _ := makeClusterDir(t)

	seqs, err := readDraftIsoforms(rootDir)
	if err != nil {
		t.Fatalf("readDraftIsoforms() error: %v", err)
	}
	if len(seqs) != 2 {
		t.Fatalf("readDraftIsoforms() = %d isoforms, want 2", len(seqs))
	}
	if seqs[0].ID != "c0" || seqs[1].ID != "c1" {
		t.Errorf("isoform IDs = %q, %q, want c0, c1", seqs[0].ID, seqs[1].ID)
	}
}

func TestMergeQuivered(t *testing.T) {
	rootDir := t.TempDir()
	records := map[string]string{
		"c0to99":    "@c0\nACGT\n+\nIIII\n",
		"c100to199": "@c100\nGGTT\n+\nIIII\n",
	}
	for bin, rec := range records {
		if err := os.MkdirAll(binDir(rootDir, bin), 0755); err != nil {
			t.Fatalf("creating bin dir: %v", err)
		}
		if err := os.WriteFile(binFastqPath(rootDir, bin), []byte(rec), 0644); err != nil {
			t.Fatalf("writing bin fastq: %v", err)
		}
	}

	merged, err := mergeQuivered(rootDir)
	if err != nil {
		t.Fatalf("mergeQuivered() error: %v", err)
	}
	if merged != 2 {
		t.Errorf("mergeQuivered() = %d bins, want 2", merged)
	}

	data, err := os.ReadFile(mergedFastqPath(rootDir))
	if err != nil {
		t.Fatalf("reading merged fastq: %v", err)
	}
	for _, id := range []string{"@c0\n", "@c100\n"} {
		if !strings.Contains(string(data), id) {
			t.Errorf("merged fastq missing record %q", id)
		}
	}
}

func TestRunSkipsCompletedBins(t *testing.T) {
	rootDir, basFofn, fastaFofn := makeClusterDir(t)

	// both draft isoforms fall into one bin
	bin := "c0to1"
	if err := os.MkdirAll(binDir(rootDir, bin), 0755); err != nil {
		t.Fatalf("creating bin dir: %v", err)
	}
	fq := "@c0\nACGTACGTACGT\n+\nIIIIIIIIIIII\n@c1\nGGGTTTAAACCC\n+\nIIIIIIIIIIII\n"
	if err := os.WriteFile(binFastqPath(rootDir, bin), []byte(fq), 0644); err != nil {
		t.Fatalf("writing bin fastq: %v", err)
	}

	logRecord := `{"time":"2025-08-20T21:20:17.30+02:00","level":"INFO","msg":"Completed quiver bin","bin":"c0to1","processKey":"Quiver:c0to1"}` + "\n"
	if err := os.MkdirAll(filepath.Dir(runLogPath(rootDir)), 0755); err != nil {
		t.Fatalf("creating log dir: %v", err)
	}
	if err := os.WriteFile(runLogPath(rootDir), []byte(logRecord), 0644); err != nil {
		t.Fatalf("writing run log: %v", err)
	}

	// blasr and quiver are not installed in the test environment, so Run
	// can only succeed by skipping the already-completed bin.
	iq := NewIceQuiver(rootDir, basFofn, fastaFofn, DefaultSgeOpts())
	if err := iq.Run(); err != nil {
		t.Fatalf("Run() should skip the completed bin, got: %v", err)
	}

	merged, err := os.ReadFile(mergedFastqPath(rootDir))
	if err != nil {
		t.Fatalf("merged fastq not written: %v", err)
	}
	for _, id := range []string{"@c0\n", "@c1\n"} {
		if !strings.Contains(string(merged), id) {
			t.Errorf("merged fastq missing record %q", id)
		}
	}
	if _, err := os.Stat(doneSentinelPath(rootDir)); err != nil {
		t.Errorf("sentinel not written after resumed run: %v", err)
	}
}

func TestRunRequiresScheduler(t *testing.T) {
	if sge.Available() {
		t.Skip("an SGE scheduler is installed here")
	}
	rootDir, basFofn, fastaFofn := makeClusterDir(t)

	sgeOpts := DefaultSgeOpts()
	sgeOpts.UseSGE = true
	iq := NewIceQuiver(rootDir, basFofn, fastaFofn, sgeOpts)

	err := iq.Run()
	if err == nil {
		t.Fatal("Run() = nil with use_sge set and no scheduler on PATH")
	}
	if !strings.Contains(err.Error(), "SGE") {
		t.Errorf("error %q should name the missing scheduler", err)
	}
}

func TestMergeQuiveredNoBins(t *testing.T) {
	if _, err := mergeQuivered(t.TempDir()); err == nil {
		t.Fatal("mergeQuivered() = nil on empty directory, want error")
	}
}
