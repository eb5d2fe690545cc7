package entrypoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestGormLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logger.LogLevel
	}{
		{"", logger.Silent},
		{"silent", logger.Silent},
		{"error", logger.Error},
		{"WARN", logger.Warn},
		{"warning", logger.Warn},
		{" info ", logger.Info},
		{"verbose", logger.Silent},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, gormLogLevel(tt.in))
		})
	}
}
