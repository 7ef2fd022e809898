package ice

import "path/filepath"

// Layout of a cluster output directory, as produced by the upstream
// clustering run and extended by the polishing stages:
//
//	<root>/output/final.consensus.fasta   draft isoforms from clustering
//	<root>/quivered/<bin>/                per-bin scratch and polished fastq
//	<root>/log/ice_quiver.log             JSON run log, also resume state
//	<root>/all_quivered.fastq             merged polished isoforms
//	<root>/quivered.done                  sentinel written after merging

func draftConsensusPath(rootDir string) string {
	return filepath.Join(rootDir, "output", "final.consensus.fasta")
}

func quiveredDir(rootDir string) string {
	return filepath.Join(rootDir, "quivered")
}

func binDir(rootDir, bin string) string {
	return filepath.Join(quiveredDir(rootDir), bin)
}

func binRefPath(rootDir, bin string) string {
	return filepath.Join(binDir(rootDir, bin), "ref.fasta")
}

func binFastqPath(rootDir, bin string) string {
	return filepath.Join(binDir(rootDir, bin), bin+".quivered.fastq")
}

func runLogPath(rootDir string) string {
	return filepath.Join(rootDir, "log", "ice_quiver.log")
}

func scriptDirPath(rootDir string) string {
	return filepath.Join(rootDir, "scripts")
}

func mergedFastqPath(rootDir string) string {
	return filepath.Join(rootDir, "all_quivered.fastq")
}

func doneSentinelPath(rootDir string) string {
	return filepath.Join(rootDir, "quivered.done")
}

func hqFastaPath(rootDir string) string {
	return filepath.Join(rootDir, "all_quivered_hq.fasta")
}

func hqFastqPath(rootDir string) string {
	return filepath.Join(rootDir, "all_quivered_hq.fastq")
}

func lqFastaPath(rootDir string) string {
	return filepath.Join(rootDir, "all_quivered_lq.fasta")
}

func lqFastqPath(rootDir string) string {
	return filepath.Join(rootDir, "all_quivered_lq.fastq")
}
