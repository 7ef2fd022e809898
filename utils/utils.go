package utils

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

type Config struct {
	RootDir   string
	BasFofn   string
	FastaFofn string
	Report    string
	Summary   string

	UseSGE      bool
	MaxSGEJobs  int
	BlasrNproc  int
	QuiverNproc int

	// Pointer knobs distinguish "not in the config" from a configured
	// zero, which is legitimate for all three.
	UniqueID *int
	QVTrim5  *int
	QVTrim3  *int

	HQMinAccuracy float64
}

func ReadConfig(configPath string) (Config, error) {
	configFile, err := os.Open(configPath)
	if err != nil {
		return Config{}, err
	}
	defer configFile.Close()
	var cfg Config

	scanner := bufio.NewScanner(configFile)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "RootDir":
			cfg.RootDir = value
		case "bas_fofn":
			cfg.BasFofn = value
		case "fasta_fofn":
			cfg.FastaFofn = value
		case "report":
			cfg.Report = value
		case "summary":
			cfg.Summary = value
		case "use_sge":
			cfg.UseSGE = value == "true" || value == "1"
		case "max_sge_jobs":
			cfg.MaxSGEJobs, _ = strconv.Atoi(value)
		case "unique_id":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.UniqueID = &v
			}
		case "blasr_nproc":
			cfg.BlasrNproc, _ = strconv.Atoi(value)
		case "quiver_nproc":
			cfg.QuiverNproc, _ = strconv.Atoi(value)
		case "qv_trim_5":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.QVTrim5 = &v
			}
		case "qv_trim_3":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.QVTrim3 = &v
			}
		case "hq_quiver_min_accuracy":
			cfg.HQMinAccuracy, _ = strconv.ParseFloat(value, 64)
		}
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil

}

// ReadFofn reads a file-of-filenames manifest, one path per line.
// Blank lines and lines starting with # are skipped.
func ReadFofn(fofnPath string) ([]string, error) {
	fofnFile, err := os.Open(fofnPath)
	if err != nil {
		return nil, err
	}
	defer fofnFile.Close()

	var paths []string
	scanner := bufio.NewScanner(fofnFile)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

// CheckDeps verifies that the external tools the polishing pipeline shells
// out to are on PATH. Pass withSGE=true to also require qsub/qstat.
func CheckDeps(withSGE bool) error {
	deps := []string{"blasr", "samtools", "quiver"}
	if withSGE {
		deps = append(deps, "qsub", "qstat")
	}
	var missing []string
	for _, dep := range deps {
		if _, err := exec.LookPath(dep); err != nil {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tools not found on PATH: %s", strings.Join(missing, ", "))
	}
	return nil
}

func RunBashCmdVerbose(cmdStr string) error {
	cmd := exec.Command("bash", "-c", cmdStr)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err != nil {
		return err
	}
	return nil
}

// RunBashCmd runs a command through bash without inheriting stdout, for
// pipeline steps whose tools write more progress to the terminal than useful.
func RunBashCmd(cmdStr string) error {
	cmd := exec.Command("bash", "-c", cmdStr)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
