// package formatter writes exported achievement data to CSV files and builds their file names
package formatter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/desertthunder/steamx/internal/models"
	"github.com/desertthunder/steamx/internal/shared"
)

const (
	AchievedMark   = "✅"
	UnachievedMark = "❌"

	// DefaultDirName is the export directory created under the home directory when none is configured.
	DefaultDirName = "steam_export"
	// MultiGameFilename is used whenever the selection holds more than one game.
	MultiGameFilename = "SteamGames_achievements.csv"
)

var (
	utf8BOM   = []byte{0xEF, 0xBB, 0xBF}
	csvHeader = []string{"groupName", "entryName", "description", "achievedStatus"}
)

// CSVSink streams [models.AchievementRecord] rows to a CSV file.
//
// Every Append is flushed before returning, so the file on disk always holds the header plus complete rows.
type CSVSink struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	writer *csv.Writer
	rows   int
	closed bool
}

// OpenCSV creates (or truncates) the file at path, creating the parent directory, and writes the UTF-8 BOM.
func OpenCSV(path string) (*CSVSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: failed to create directory %s: %v", shared.ErrIO, dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create %s: %v", shared.ErrIO, path, err)
	}

	if _, err := f.Write(utf8BOM); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: failed to write BOM: %v", shared.ErrIO, err)
	}

	return &CSVSink{path: path, file: f, writer: csv.NewWriter(f)}, nil
}

// Path returns the destination file path.
func (s *CSVSink) Path() string { return s.path }

// Rows returns the number of data rows written so far.
func (s *CSVSink) Rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

// WriteHeader writes the column header row.
func (s *CSVSink) WriteHeader() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(csvHeader)
}

// Append writes one record and flushes it to disk.
func (s *CSVSink) Append(r models.AchievementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeLocked([]string{r.GameName, r.Name, r.Description, StatusMark(r.Achieved)}); err != nil {
		return err
	}
	s.rows++
	return nil
}

func (s *CSVSink) writeLocked(record []string) error {
	if s.closed {
		return fmt.Errorf("%w: write to closed sink %s", shared.ErrIO, s.path)
	}

	if err := s.writer.Write(record); err != nil {
		return fmt.Errorf("%w: failed to write CSV record: %v", shared.ErrIO, err)
	}

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("%w: failed to flush CSV record: %v", shared.ErrIO, err)
	}
	return nil
}

// Close flushes and closes the file. Calling it again is a no-op.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.writer.Flush()
	flushErr := s.writer.Error()
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %v", shared.ErrIO, s.path, err)
	}
	if flushErr != nil {
		return fmt.Errorf("%w: CSV writer error: %v", shared.ErrIO, flushErr)
	}
	return nil
}

// StatusMark renders the achievedStatus column.
func StatusMark(achieved bool) string {
	if achieved {
		return AchievedMark
	}
	return UnachievedMark
}

// SafeFilename turns a game name into something every major filesystem accepts.
//
// Non-printable runes are dropped, reserved characters become "_", trailing dots and spaces are trimmed,
// and an empty result falls back to "game". Applying it twice yields the same string.
func SafeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case !unicode.IsPrint(r):
			continue
		case strings.ContainsRune(`\/*?:"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimRight(b.String(), ". ")
	if cleaned == "" {
		return "game"
	}
	return cleaned
}

// ExportFilename picks the CSV name for a selection.
func ExportFilename(selection []models.Game) string {
	if len(selection) == 1 {
		return SafeFilename(selection[0].Title()) + "_achievements.csv"
	}
	return MultiGameFilename
}

// ResolveOutputDir returns base when set, otherwise "<home>/steam_export" (or "./steam_export" without a home directory).
func ResolveOutputDir(base string) string {
	if strings.TrimSpace(base) != "" {
		return base
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}
