package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogFilePath(t *testing.T) {
	runStart := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		runName string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "logs",
			runName: "gemv2",
			want:    filepath.Join("logs", "gemv2.20260212_213836.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./logs",
			runName: "gemv2",
			want:    filepath.Join(".", "logs", "gemv2.20260212_213836.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "gemv2"),
			runName: "gemv2",
			want:    filepath.Join("/var", "log", "gemv2", "gemv2.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogFilePath(tt.logsDir, tt.runName, runStart)
			assert.Equal(t, tt.want, got)
		})
	}
}
