package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtifact(t *testing.T) {
	tests := []struct {
		name  string
		runID string
		path  string
		want  string
	}{
		{"plain file", "abc", "ipcam_map.html", "runs/abc/ipcam_map.html"},
		{"nested path keeps base", "abc", "out/dir/ipcam_data.csv", "runs/abc/ipcam_data.csv"},
		{"spaces and case", "Run 1", "My Cameras.xlsx", "runs/run-1/my-cameras.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Artifact(tt.runID, tt.path))
		})
	}
}
