package formatter

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/steamx/internal/models"
	"github.com/desertthunder/steamx/internal/shared"
	th "github.com/desertthunder/steamx/internal/testing"
)

func TestCSVSink(t *testing.T) {
	t.Run("writes BOM header and rows", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "Portal_achievements.csv")

		sink, err := OpenCSV(path)
		if err != nil {
			t.Fatalf("OpenCSV failed: %v", err)
		}
		th.AssertDirExists(t, filepath.Dir(path))

		if err := sink.WriteHeader(); err != nil {
			t.Fatalf("WriteHeader failed: %v", err)
		}
		rows := []models.AchievementRecord{
			{GameName: "Portal", Name: "Lab Rat", Description: "Complete the tests", Achieved: true},
			{GameName: "Portal", Name: "Fratricide", Description: "Do what you must, \"cake\"", Achieved: false},
		}
		for _, r := range rows {
			if err := sink.Append(r); err != nil {
				t.Fatalf("Append failed: %v", err)
			}
		}
		if sink.Rows() != 2 {
			t.Errorf("expected 2 rows, got %d", sink.Rows())
		}
		if err := sink.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		if !strings.HasPrefix(content, "\xEF\xBB\xBF") {
			t.Fatal("file should start with a UTF-8 BOM")
		}

		records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(content, "\xEF\xBB\xBF"))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}

		want := [][]string{
			{"groupName", "entryName", "description", "achievedStatus"},
			{"Portal", "Lab Rat", "Complete the tests", "✅"},
			{"Portal", "Fratricide", "Do what you must, \"cake\"", "❌"},
		}
		if len(records) != len(want) {
			t.Fatalf("expected %d lines, got %d", len(want), len(records))
		}
		for i := range want {
			if strings.Join(records[i], "|") != strings.Join(want[i], "|") {
				t.Errorf("line %d = %v, want %v", i, records[i], want[i])
			}
		}
	})

	t.Run("rows are on disk before Close", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "partial.csv")
		sink, err := OpenCSV(path)
		if err != nil {
			t.Fatalf("OpenCSV failed: %v", err)
		}
		defer sink.Close()

		if err := sink.WriteHeader(); err != nil {
			t.Fatalf("WriteHeader failed: %v", err)
		}
		if err := sink.Append(models.AchievementRecord{GameName: "G", Name: "A", Achieved: true}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		if lines := strings.Count(content, "\n"); lines != 2 {
			t.Errorf("expected header plus one flushed row, got %d lines: %q", lines, content)
		}
	})

	t.Run("truncates an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "old.csv")
		if err := os.WriteFile(path, []byte("stale data that should vanish\n"), 0644); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		sink, err := OpenCSV(path)
		if err != nil {
			t.Fatalf("OpenCSV failed: %v", err)
		}
		sink.Close()

		if content := th.MustReadFile(t, path); content != "\xEF\xBB\xBF" {
			t.Errorf("expected only the BOM, got %q", content)
		}
	})

	t.Run("Close is idempotent and blocks further writes", func(t *testing.T) {
		sink, err := OpenCSV(filepath.Join(t.TempDir(), "c.csv"))
		if err != nil {
			t.Fatalf("OpenCSV failed: %v", err)
		}
		if err := sink.Close(); err != nil {
			t.Fatalf("first Close failed: %v", err)
		}
		if err := sink.Close(); err != nil {
			t.Errorf("second Close should be a no-op, got %v", err)
		}
		if err := sink.Append(models.AchievementRecord{}); !errors.Is(err, shared.ErrIO) {
			t.Errorf("expected ErrIO after close, got %v", err)
		}
	})

	t.Run("unwritable destination is ErrIO", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, nil, 0644); err != nil {
			t.Fatalf("failed to create blocker: %v", err)
		}

		_, err := OpenCSV(filepath.Join(blocker, "sub", "out.csv"))
		if !errors.Is(err, shared.ErrIO) {
			t.Errorf("expected ErrIO, got %v", err)
		}
	})
}

func TestSafeFilename(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{name: "reserved characters", in: "Foo/Bar:Baz*", want: "Foo_Bar_Baz_"},
		{name: "all reserved", in: `a\b/c*d?e:f"g<h>i|j`, want: "a_b_c_d_e_f_g_h_i_j"},
		{name: "trailing dots and spaces", in: "Game. . ", want: "Game"},
		{name: "control characters removed", in: "Half\x00-Life\t2\n", want: "Half-Life2"},
		{name: "empty", in: "", want: "game"},
		{name: "only dots", in: "...", want: "game"},
		{name: "unicode kept", in: "ポータル 2", want: "ポータル 2"},
		{name: "leading space kept", in: " Spaced", want: " Spaced"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeFilename(tt.in)
			if got != tt.want {
				t.Errorf("SafeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := SafeFilename(got); again != got {
				t.Errorf("SafeFilename is not idempotent: %q -> %q", got, again)
			}
			if strings.ContainsAny(got, `\/*?:"<>|`) {
				t.Errorf("result %q still contains reserved characters", got)
			}
		})
	}
}

func TestExportFilename(t *testing.T) {
	tc := []struct {
		name      string
		selection []models.Game
		want      string
	}{
		{name: "single game", selection: []models.Game{{AppID: 400, Name: "Portal"}}, want: "Portal_achievements.csv"},
		{name: "single game sanitized", selection: []models.Game{{AppID: 1, Name: "Foo/Bar:Baz*"}}, want: "Foo_Bar_Baz__achievements.csv"},
		{name: "unnamed game", selection: []models.Game{{AppID: 12345}}, want: "AppID 12345_achievements.csv"},
		{name: "several games", selection: []models.Game{{AppID: 1, Name: "A"}, {AppID: 2, Name: "B"}}, want: MultiGameFilename},
		{name: "empty selection", selection: nil, want: MultiGameFilename},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExportFilename(tt.selection); got != tt.want {
				t.Errorf("ExportFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveOutputDir(t *testing.T) {
	t.Run("configured base wins", func(t *testing.T) {
		if got := ResolveOutputDir("/data/exports"); got != "/data/exports" {
			t.Errorf("expected configured dir, got %s", got)
		}
	})

	t.Run("defaults under home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("USERPROFILE", home)

		if got := ResolveOutputDir(""); got != filepath.Join(home, DefaultDirName) {
			t.Errorf("expected %s, got %s", filepath.Join(home, DefaultDirName), got)
		}
	})
}

func TestStatusMark(t *testing.T) {
	if StatusMark(true) != "✅" || StatusMark(false) != "❌" {
		t.Errorf("unexpected marks %q %q", StatusMark(true), StatusMark(false))
	}
}
