package utils

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// NewRunLogger opens the per-run JSON log file under logPath and returns a
// logger that fans out to the file and to stderr. The JSON file doubles as
// the resume state for the run: CompletedProcesses scans it on restart.
func NewRunLogger(logPath string) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, nil, err
	}
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, err
	}

	jsonHandler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo})
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(slogmulti.Fanout(jsonHandler, textHandler))
	return logger, logFile.Close, nil
}

// CompletedProcesses reads the JSON run log and returns the processKey of
// every step that logged a "Completed ..." record. A missing log file means
// a fresh run and yields an empty map.
func CompletedProcesses(logPath string) (map[string]struct{}, error) {
	completed := make(map[string]struct{})
	logFile, err := os.Open(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return completed, nil
		}
		return nil, err
	}
	defer logFile.Close()

	scanner := bufio.NewScanner(logFile)
	for scanner.Scan() {
		line := scanner.Text()
		var logEntry struct {
			Level      string `json:"level"`
			Msg        string `json:"msg"`
			ProcessKey string `json:"processKey"`
		}
		if err := json.Unmarshal([]byte(line), &logEntry); err == nil {
			if logEntry.Level == "INFO" && strings.HasPrefix(logEntry.Msg, "Completed") && logEntry.ProcessKey != "" {
				completed[logEntry.ProcessKey] = struct{}{}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return completed, nil
}
