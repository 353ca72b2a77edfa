package shared

import (
	"slices"
	"testing"
)

func TestOpenCommand(t *testing.T) {
	orig := getRuntime
	t.Cleanup(func() { getRuntime = orig })

	tc := []struct {
		goos    string
		want    []string
		wantErr bool
	}{
		{goos: "darwin", want: []string{"open", "out.csv"}},
		{goos: "linux", want: []string{"xdg-open", "out.csv"}},
		{goos: "windows", want: []string{"cmd", "/c", "start", "", "out.csv"}},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			getRuntime = func() string { return tt.goos }

			cmd, err := openCommand("out.csv")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unsupported platform")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(cmd.Args, tt.want) {
				t.Errorf("args = %v, want %v", cmd.Args, tt.want)
			}
		})
	}

	t.Run("Open unsupported", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if err := Open(APIKeyURL); err == nil {
			t.Error("expected Open to fail on unsupported platform")
		}
	})
}
