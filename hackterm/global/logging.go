package global

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

const (
	mb         = 1000000
	maxLogSize = 2.5 * mb
	maxLogs    = 2
)

// rollingFileWriter appends to name.log until it passes maxSize, then shifts it to name-1.log,
// name-1.log to name-2.log and so on. Only maxFiles files are kept, counting the live one.
type rollingFileWriter struct {
	files         afero.Fs
	FileDirectory string
	FileName      string

	maxSize  int64
	maxFiles int
}

func NewRollingFileWriter(files afero.Fs, fileDir string, fileName string) (rollingFileWriter, error) {
	absFileDir, err := filepath.Abs(fileDir)
	if err != nil {
		return rollingFileWriter{}, err
	}

	if err := files.MkdirAll(absFileDir, 0750); err != nil {
		return rollingFileWriter{}, err
	}

	return rollingFileWriter{
		files:         files,
		FileDirectory: absFileDir,
		FileName:      fileName,
		maxSize:       maxLogSize,
		maxFiles:      maxLogs,
	}, nil
}

func (w rollingFileWriter) getFullFilePath() string {
	return filepath.Join(w.FileDirectory, fmt.Sprintf("%s.log", w.FileName))
}

func (w rollingFileWriter) indexedLog(fileName string, index int64) string {
	return filepath.Join(w.FileDirectory, fmt.Sprintf("%s-%d.log", fileName, index))
}

// archivedLogs returns every name-N.log, oldest (highest N) last.
func (w rollingFileWriter) archivedLogs() ([]string, error) {
	matches, err := afero.Glob(w.files, filepath.Join(w.FileDirectory, w.FileName+"-*.log"))
	if err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b string) int {
		return int(getLogIndex(w.FileName, a) - getLogIndex(w.FileName, b))
	})

	return matches, nil
}

func (w rollingFileWriter) Write(b []byte) (n int, err error) {
	stats, err := w.files.Stat(w.getFullFilePath())
	if err == nil && stats.Size() >= w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	mainLogFile, err := w.files.OpenFile(w.getFullFilePath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, err
	}
	defer mainLogFile.Close()

	return mainLogFile.Write(b)
}

// rotate shifts every archived log up one index, drops the ones past maxFiles and archives the
// live log as name-1.log.
func (w rollingFileWriter) rotate() error {
	archived, err := w.archivedLogs()
	if err != nil {
		return err
	}

	// get rid of messed up log files
	broken, valid := lo.FilterReject(archived, func(log string, _ int) bool { return getLogIndex(w.FileName, log) < 0 })
	for _, log := range broken {
		if err := w.files.Remove(log); err != nil {
			return err
		}
	}

	// highest index first so renames never collide
	for i := len(valid) - 1; i >= 0; i-- {
		index := getLogIndex(w.FileName, valid[i]) + 1

		if index >= int64(w.maxFiles) {
			if err := w.files.Remove(valid[i]); err != nil {
				return err
			}
			continue
		}

		if err := w.files.Rename(valid[i], w.indexedLog(w.FileName, index)); err != nil {
			return err
		}
	}

	if w.maxFiles <= 1 {
		return w.files.Remove(w.getFullFilePath())
	}

	return w.files.Rename(w.getFullFilePath(), w.indexedLog(w.FileName, 1))
}

// getLogIndex returns N for name-N.log, or -1 when the file name does not carry a number.
func getLogIndex(baseFileName string, filePath string) int64 {
	fileName, _ := strings.CutSuffix(filepath.Base(filePath), ".log")
	indexStr, ok := strings.CutPrefix(fileName, baseFileName+"-")
	if !ok {
		return -1
	}

	index, err := strconv.ParseInt(indexStr, 10, 32)
	if err != nil || index < 1 {
		return -1
	}

	return index
}
