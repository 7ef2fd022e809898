package ice

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/answer19831020/cDNA-primer/sge"
	"github.com/answer19831020/cDNA-primer/utils"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// quiverBinSize is the number of draft isoforms polished per bin. Each bin
// becomes one blasr+quiver job, locally or on the scheduler.
const quiverBinSize = 100

// IceQuiver polishes the draft consensus isoforms of a cluster output
// directory with quiver, one bin of isoforms at a time.
type IceQuiver struct {
	RootDir   string
	BasFofn   string
	FastaFofn string
	SgeOpts   SgeOpts
}

func NewIceQuiver(rootDir, basFofn, fastaFofn string, sgeOpts SgeOpts) *IceQuiver {
	return &IceQuiver{
		RootDir:   rootDir,
		BasFofn:   basFofn,
		FastaFofn: fastaFofn,
		SgeOpts:   sgeOpts,
	}
}

// ValidateInputs fails loudly if the upstream clustering artifacts this
// stage needs are missing: the cluster directory, both fofn manifests with
// every file they list, and the draft consensus fasta.
func (iq *IceQuiver) ValidateInputs() error {
	rootInfo, err := os.Stat(iq.RootDir)
	if err != nil {
		return fmt.Errorf("cluster output directory %s: %w", iq.RootDir, err)
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf("cluster output directory %s is not a directory", iq.RootDir)
	}

	for _, fofn := range []string{iq.BasFofn, iq.FastaFofn} {
		entries, err := utils.ReadFofn(fofn)
		if err != nil {
			return fmt.Errorf("reading fofn %s: %w", fofn, err)
		}
		for _, entry := range entries {
			if _, err := os.Stat(entry); err != nil {
				return fmt.Errorf("fofn %s lists missing file %s: %w", fofn, entry, err)
			}
		}
	}

	draft := draftConsensusPath(iq.RootDir)
	if _, err := os.Stat(draft); err != nil {
		return fmt.Errorf("draft consensus %s not found, run clustering first: %w", draft, err)
	}
	return nil
}

// Run polishes every bin of draft isoforms and merges the per-bin polished
// fastq into <root>/all_quivered.fastq. Bins already recorded as completed
// in the run log are skipped, so an interrupted run resumes where it left
// off.
func (iq *IceQuiver) Run() error {
	if iq.SgeOpts.UseSGE && !sge.Available() {
		return fmt.Errorf("use_sge requested but no SGE scheduler (qsub) found on PATH")
	}

	logPath := runLogPath(iq.RootDir)
	completed, err := utils.CompletedProcesses(logPath)
	if err != nil {
		return fmt.Errorf("reading run log %s: %w", logPath, err)
	}

	logger, closeLog, err := utils.NewRunLogger(logPath)
	if err != nil {
		return fmt.Errorf("opening run log %s: %w", logPath, err)
	}
	defer closeLog()

	seqs, err := readDraftIsoforms(iq.RootDir)
	if err != nil {
		return err
	}
	if len(seqs) == 0 {
		return fmt.Errorf("draft consensus %s contains no isoforms", draftConsensusPath(iq.RootDir))
	}

	logger.Info("Starting quiver polishing", "isoforms", len(seqs), "useSGE", iq.SgeOpts.UseSGE)

	bins := lo.Chunk(seqs, quiverBinSize)

	maxJobs := iq.SgeOpts.MaxSGEJobs
	if maxJobs < 1 {
		maxJobs = 1
	}
	var g errgroup.Group
	g.SetLimit(maxJobs)

	for i, binSeqs := range bins {
		start := i * quiverBinSize
		bin := fmt.Sprintf("c%dto%d", start, start+len(binSeqs)-1)
		binSeqs := binSeqs
		g.Go(func() error {
			processKey := fmt.Sprintf("Quiver:%s", bin)
			if _, done := completed[processKey]; done {
				logger.Info("Skipping quiver bin (already completed)", "bin", bin)
				return nil
			}

			logger.Info("Starting quiver bin", "bin", bin, "isoforms", len(binSeqs))
			if err := os.MkdirAll(binDir(iq.RootDir, bin), 0755); err != nil {
				return fmt.Errorf("creating bin directory for %s: %w", bin, err)
			}
			if err := writeBinRef(binRefPath(iq.RootDir, bin), binSeqs); err != nil {
				return fmt.Errorf("writing bin reference for %s: %w", bin, err)
			}

			cmds := iq.binCmds(bin)
			if iq.SgeOpts.UseSGE {
				script := strings.Join(cmds, "\n")
				if err := sge.SubmitAndWait(scriptDirPath(iq.RootDir), "quiver_"+bin, script, iq.SgeOpts.QuiverNproc); err != nil {
					return fmt.Errorf("quiver bin %s: %w", bin, err)
				}
			} else {
				for _, cmdStr := range cmds {
					fmt.Println(cmdStr)
					// samtools progress is noise here; blasr and quiver
					// output is worth keeping on the terminal.
					run := utils.RunBashCmdVerbose
					if strings.HasPrefix(cmdStr, "samtools ") {
						run = utils.RunBashCmd
					}
					if err := run(cmdStr); err != nil {
						return fmt.Errorf("quiver bin %s: %q: %w", bin, cmdStr, err)
					}
				}
			}

			if _, err := os.Stat(binFastqPath(iq.RootDir, bin)); err != nil {
				return fmt.Errorf("quiver bin %s produced no polished fastq: %w", bin, err)
			}
			logger.Info("Completed quiver bin", "bin", bin, "processKey", processKey)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	merged, err := mergeQuivered(iq.RootDir)
	if err != nil {
		return err
	}
	logger.Info("Merged polished bins", "bins", merged, "out", mergedFastqPath(iq.RootDir))

	stamp := time.Now().Format(time.RFC3339) + "\n"
	if err := os.WriteFile(doneSentinelPath(iq.RootDir), []byte(stamp), 0644); err != nil {
		return fmt.Errorf("writing sentinel: %w", err)
	}
	return nil
}

// binCmds builds the shell pipeline polishing one bin: align the subread
// fasta files onto the bin reference with blasr, sort and index the
// alignment, then call quiver for the polished fastq.
func (iq *IceQuiver) binCmds(bin string) []string {
	ref := binRefPath(iq.RootDir, bin)
	sam := filepath.Join(binDir(iq.RootDir, bin), "blasr.sam")
	bam := filepath.Join(binDir(iq.RootDir, bin), "blasr.sorted.bam")
	fq := binFastqPath(iq.RootDir, bin)

	return []string{
		fmt.Sprintf("blasr %s %s --nproc %d --bestn 5 --sam --clipping soft --out %s",
			iq.FastaFofn, ref, iq.SgeOpts.BlasrNproc, sam),
		fmt.Sprintf("samtools faidx %s", ref),
		fmt.Sprintf("samtools sort -@ %d -o %s %s", iq.SgeOpts.BlasrNproc, bam, sam),
		fmt.Sprintf("samtools index %s", bam),
		fmt.Sprintf("quiver -j %d -r %s -o %s %s", iq.SgeOpts.QuiverNproc, ref, fq, bam),
	}
}

func readDraftIsoforms(rootDir string) ([]*linear.Seq, error) {
	draft := draftConsensusPath(rootDir)
	fna, err := os.Open(draft)
	if err != nil {
		return nil, fmt.Errorf("opening draft consensus: %w", err)
	}
	defer fna.Close()

	r := fasta.NewReader(fna, linear.NewSeq("", nil, alphabet.DNA))
	sc := seqio.NewScanner(r)
	var seqs []*linear.Seq
	for sc.Next() {
		seqs = append(seqs, sc.Seq().(*linear.Seq))
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("reading draft consensus %s: %w", draft, err)
	}
	return seqs, nil
}

func writeBinRef(refPath string, seqs []*linear.Seq) error {
	refFile, err := os.Create(refPath)
	if err != nil {
		return err
	}
	defer refFile.Close()

	w := fasta.NewWriter(refFile, 60)
	for _, s := range seqs {
		if _, err := w.Write(s); err != nil {
			return err
		}
	}
	return nil
}

// mergeQuivered concatenates every per-bin polished fastq into
// <root>/all_quivered.fastq and returns the number of bins merged.
func mergeQuivered(rootDir string) (int, error) {
	binFastqs, err := filepath.Glob(filepath.Join(quiveredDir(rootDir), "*", "*.quivered.fastq"))
	if err != nil {
		return 0, err
	}
	if len(binFastqs) == 0 {
		return 0, fmt.Errorf("no polished bins under %s", quiveredDir(rootDir))
	}
	sort.Strings(binFastqs)

	out, err := os.Create(mergedFastqPath(rootDir))
	if err != nil {
		return 0, err
	}
	defer out.Close()

	for _, fq := range binFastqs {
		in, err := os.Open(fq)
		if err != nil {
			return 0, err
		}
		_, err = io.Copy(out, in)
		in.Close()
		if err != nil {
			return 0, fmt.Errorf("merging %s: %w", fq, err)
		}
	}
	return len(binFastqs), nil
}
