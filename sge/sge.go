// Package sge submits polishing jobs to a Sun Grid Engine scheduler.
package sge

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/answer19831020/cDNA-primer/utils"
	"github.com/google/uuid"
)

// Available reports whether an SGE scheduler is reachable from this host.
func Available() bool {
	_, err := exec.LookPath("qsub")
	return err == nil
}

// SubmitAndWait writes script into scriptDir as an executable job script and
// submits it with a blocking qsub (-sync y), so the call returns when the
// job finishes. slots is the parallel-environment slot count requested for
// the job. A non-zero job exit status surfaces as qsub's own exit error.
func SubmitAndWait(scriptDir, jobName, script string, slots int) error {
	if err := os.MkdirAll(scriptDir, 0755); err != nil {
		return err
	}
	if slots < 1 {
		slots = 1
	}

	jobID := fmt.Sprintf("%s_%s", jobName, uuid.New().String()[:8])
	scriptPath := filepath.Join(scriptDir, jobID+".sh")
	content := "#!/bin/bash\nset -e\n" + script + "\n"
	if err := os.WriteFile(scriptPath, []byte(content), 0755); err != nil {
		return err
	}

	qsubCmd := fmt.Sprintf("qsub -sync y -cwd -V -b n -pe smp %d -N %s -o %s.out -e %s.err %s",
		slots, jobID, scriptPath, scriptPath, scriptPath)
	fmt.Println(qsubCmd)
	if err := utils.RunBashCmdVerbose(qsubCmd); err != nil {
		return fmt.Errorf("qsub job %s failed: %w", jobID, err)
	}
	return nil
}
