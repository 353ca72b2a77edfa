package models

import "testing"

func TestGameTitle(t *testing.T) {
	tc := []struct {
		name string
		game Game
		want string
	}{
		{name: "named", game: Game{AppID: 440, Name: "Team Fortress 2"}, want: "Team Fortress 2"},
		{name: "empty name", game: Game{AppID: 12345}, want: "AppID 12345"},
		{name: "blank name", game: Game{AppID: 7, Name: "  "}, want: "AppID 7"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.game.Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAchievementSetRecords(t *testing.T) {
	set := AchievementSet{
		Definitions: []AchievementDef{
			{Key: "A1", Label: "First", Description: "d1"},
			{Key: "A2", Label: "Second", Description: "d2"},
			{Key: "A3", Label: "Third"},
		},
		Achieved: map[string]bool{"A1": true, "A2": false},
	}

	t.Run("falls back to group name", func(t *testing.T) {
		records := set.Records("Portal")
		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}

		want := []AchievementRecord{
			{GameName: "Portal", Name: "First", Description: "d1", Achieved: true},
			{GameName: "Portal", Name: "Second", Description: "d2", Achieved: false},
			{GameName: "Portal", Name: "Third", Achieved: false},
		}
		for i := range want {
			if records[i] != want[i] {
				t.Errorf("record %d = %+v, want %+v", i, records[i], want[i])
			}
		}
	})

	t.Run("prefers schema display name", func(t *testing.T) {
		named := set
		named.DisplayName = "Portal (Schema)"
		for _, r := range named.Records("Portal") {
			if r.GameName != "Portal (Schema)" {
				t.Errorf("expected schema name, got %q", r.GameName)
			}
		}
	})
}

func TestExportJob(t *testing.T) {
	t.Run("NewExportJob is running and valid", func(t *testing.T) {
		job := NewExportJob(1, 3, "/tmp/out.csv")
		if job.Status() != JobStatusRunning {
			t.Errorf("expected running, got %s", job.Status())
		}
		if job.Terminal() {
			t.Error("new job should not be terminal")
		}
		if err := job.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("Finish", func(t *testing.T) {
		job := NewExportJob(1, 3, "/tmp/out.csv")
		job.Finish(JobStatusCanceledPartial, 2, 10, "")

		if !job.Terminal() {
			t.Error("finished job should be terminal")
		}
		if job.CompletedAt() == nil {
			t.Error("completed_at should be set")
		}
		if job.GamesAttempted() != 2 || job.RowsWritten() != 10 {
			t.Errorf("unexpected counts: %d attempted, %d rows", job.GamesAttempted(), job.RowsWritten())
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			mutate  func(*ExportJob)
			wantErr bool
		}{
			{name: "unknown status", mutate: func(j *ExportJob) { j.SetStatus("paused") }, wantErr: true},
			{name: "negative rows", mutate: func(j *ExportJob) { j.SetRowsWritten(-1) }, wantErr: true},
			{name: "attempted exceeds total", mutate: func(j *ExportJob) { j.SetGamesAttempted(4) }, wantErr: true},
			{name: "failed is valid", mutate: func(j *ExportJob) { j.SetStatus(JobStatusFailed) }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				job := NewExportJob(1, 3, "out.csv")
				tt.mutate(job)
				if err := job.Validate(); (err != nil) != tt.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			})
		}
	})
}
