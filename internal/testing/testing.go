// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/steamx/internal/models"
	"github.com/desertthunder/steamx/internal/services"
)

// MockCatalog is a test double for [services.Catalog]
type MockCatalog struct {
	mu      sync.Mutex
	Games   []models.Game
	Err     error
	Release chan struct{} // when set, OwnedGames blocks until it is closed
	calls   int
}

func (m *MockCatalog) OwnedGames(ctx context.Context, creds services.Credentials) ([]models.Game, error) {
	m.mu.Lock()
	m.calls++
	release := m.Release
	m.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.Games, m.Err
}

func (m *MockCatalog) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// FetchCall records one [MockFetcher.FetchAchievements] invocation.
type FetchCall struct {
	AppID int
	At    time.Time
}

// MockFetcher is a test double for [services.AchievementSource].
//
// Results are looked up by AppID; unknown ids report FetchNoData. OnFetch runs before the result is returned.
type MockFetcher struct {
	mu      sync.Mutex
	Results map[int]services.FetchResult
	OnFetch func(appID int)
	calls   []FetchCall
}

func (m *MockFetcher) FetchAchievements(ctx context.Context, creds services.Credentials, appID int) services.FetchResult {
	m.mu.Lock()
	m.calls = append(m.calls, FetchCall{AppID: appID, At: time.Now()})
	res, ok := m.Results[appID]
	hook := m.OnFetch
	m.mu.Unlock()

	if hook != nil {
		hook(appID)
	}
	if !ok {
		return services.NoData("not scripted")
	}
	return res
}

func (m *MockFetcher) Calls() []FetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FetchCall(nil), m.calls...)
}

// AchievementsFor builds an OK result with n definitions for a game, unlocking the first `unlocked`.
func AchievementsFor(displayName string, n, unlocked int) services.FetchResult {
	set := models.AchievementSet{DisplayName: displayName, Achieved: map[string]bool{}}
	for i := range n {
		key := "ACH_" + string(rune('A'+i%26)) + string(rune('0'+i/26%10))
		set.Definitions = append(set.Definitions, models.AchievementDef{Key: key, Label: "Achievement " + key, Description: "desc " + key})
		if i < unlocked {
			set.Achieved[key] = true
		}
	}
	return services.Fetched(set)
}

// MemorySink collects rows in memory. FailOn makes the Nth Append (1-based) fail.
type MemorySink struct {
	mu      sync.Mutex
	Header  bool
	Rows    []models.AchievementRecord
	FailOn  int
	Closes  int
	appends int
}

func (s *MemorySink) WriteHeader() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Header = true
	return nil
}

func (s *MemorySink) Append(r models.AchievementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appends++
	if s.FailOn > 0 && s.appends == s.FailOn {
		return errors.New("disk full")
	}
	s.Rows = append(s.Rows, r)
	return nil
}

func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closes++
	return nil
}

func (s *MemorySink) Snapshot() []models.AchievementRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AchievementRecord(nil), s.Rows...)
}

func (s *MemorySink) CloseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Closes
}

// Recorder collects values emitted from other goroutines.
type Recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

func (r *Recorder[T]) Add(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *Recorder[T]) All() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// Eventually polls cond until it holds or the timeout passes.
func Eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, msg)
}
