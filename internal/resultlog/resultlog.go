// Package resultlog appends spec §6's tab-separated result line to a
// log file and, optionally, a richer JSON snapshot of the same run
// alongside it.
package resultlog

import (
	"fmt"
	"os"

	"github.com/cliquecount/pkg/compression"
	apperrors "github.com/cliquecount/pkg/errors"
	"github.com/cliquecount/pkg/model"
	"github.com/cliquecount/pkg/writer"
)

// rotateThresholdBytes is the size past which AppendLine gzips the
// existing log file before appending, so a long-lived log file never
// grows unbounded on a machine that runs the CLI repeatedly.
const rotateThresholdBytes = 10 * 1024 * 1024

// Logger appends one tab-separated line per completed run to a fixed
// path (spec §6's `-o`/`--log-file` flag).
type Logger struct {
	path string
}

// New returns a Logger writing to path. An empty path makes every
// method a no-op, matching spec §6's "appended if configured".
func New(path string) *Logger {
	return &Logger{path: path}
}

// AppendLine rotates the log file if it has grown past
// rotateThresholdBytes, then appends one line:
// num_processes, threshold, elapsed_seconds, total_cliques,
// help_sent, help_accepted, help_rejected.
func (l *Logger) AppendLine(summary *model.RunSummary) error {
	if l.path == "" {
		return nil
	}
	if err := l.rotateIfNeeded(); err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeConfigError, fmt.Sprintf("opening log file %s", l.path), err)
	}
	defer f.Close()

	line := fmt.Sprintf("%d\t%d\t%.6f\t%d\t%d\t%d\t%d\n",
		summary.NumRanks, summary.Threshold, summary.ElapsedSeconds, summary.TotalCliques,
		summary.HelpSent, summary.HelpAccepted, summary.HelpRejected)
	if _, err := f.WriteString(line); err != nil {
		return apperrors.Wrap(apperrors.CodeConfigError, fmt.Sprintf("writing log file %s", l.path), err)
	}
	return nil
}

// rotateIfNeeded gzips the current log file to path+".gz" (overwriting
// any prior rotation) and removes the original, once it crosses
// rotateThresholdBytes. A missing file is not rotated.
func (l *Logger) rotateIfNeeded() error {
	info, err := os.Stat(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return apperrors.Wrap(apperrors.CodeConfigError, fmt.Sprintf("stat log file %s", l.path), err)
	}
	if info.Size() < rotateThresholdBytes {
		return nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeConfigError, fmt.Sprintf("reading log file %s for rotation", l.path), err)
	}

	compressed, err := compression.NewGzipCompressor(compression.LevelDefault).Compress(data)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeConfigError, "compressing rotated log file", err)
	}

	rotatedPath := l.path + ".gz"
	if err := os.WriteFile(rotatedPath, compressed, 0644); err != nil {
		return apperrors.Wrap(apperrors.CodeConfigError, fmt.Sprintf("writing rotated log file %s", rotatedPath), err)
	}
	return os.Remove(l.path)
}

// SnapshotPath derives a JSON-snapshot sibling path from a log file
// path (e.g. "./cliquecount.log" -> "./cliquecount.log.json"), empty
// if logPath is empty.
func SnapshotPath(logPath string) string {
	if logPath == "" {
		return ""
	}
	return logPath + ".json"
}

// WriteSnapshot persists a full JSON snapshot of summary, for callers
// that want the richer record (per-size breakdown, donation stats,
// dataset identity) the tab-separated line can't carry.
func WriteSnapshot(path string, summary *model.RunSummary) error {
	if path == "" {
		return nil
	}
	w := writer.NewPrettyJSONWriter[*model.RunSummary]()
	if err := w.WriteToFile(summary, path); err != nil {
		return apperrors.Wrap(apperrors.CodeConfigError, fmt.Sprintf("writing snapshot %s", path), err)
	}
	return nil
}
