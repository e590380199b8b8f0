package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process logger. It is usable before Init and logs at info level
// to stderr until then.
var Log = logrus.New()

func init() {
	Log.SetOutput(os.Stderr)
}

// lineFormatter writes "[TIME] [LEVL] msg key=value ...".
type lineFormatter struct{}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s", entry.Time.Format("2006-01-02 15:04:05"), level, entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// Init configures Log. An unknown level falls back to info. When filePath is
// set, entries are also appended to that file; the returned closer releases it.
func Init(levelStr string, filePath string) (io.Closer, error) {
	Log.SetFormatter(&lineFormatter{})

	level, err := logrus.ParseLevel(strings.TrimSpace(levelStr))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	writers := []io.Writer{os.Stderr}
	var closer io.Closer = nopCloser{}
	if filePath != "" {
		if dir := filepath.Dir(filePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, file)
		closer = file
	}
	Log.SetOutput(io.MultiWriter(writers...))

	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
