package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("period loaded", slog.String("period", "9月"))
		logger.Error("load failed", slog.Int("code", 500))

		assert.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("period loaded"))
		assert.True(t, handler.ContainsAttr("period", "9月"))
	})

	t.Run("keeps attrs from derived loggers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "loader")).Info("loading")

		assert.True(t, handler.ContainsAttr("component", "loader"))
	})

	t.Run("prefixes grouped attrs", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.WithGroup("trend").Info("fitted", slog.Int("entities", 3))

		assert.True(t, handler.ContainsAttr("trend.entities", int64(3)))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})
}
