package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_Options(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, 500*time.Millisecond, gl.slowThreshold)
	assert.False(t, gl.ignoreRecordNotFoundError)

	changed, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, changed.logLevel)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
}

func TestGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) { return "SELECT * FROM payments", 3 }
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-5")

	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		begin     time.Time
		err       error
		wantMsg   string
		wantLevel zapcore.Level
	}{
		{"query at info", gormlogger.Info, time.Now(), nil, "SQL Query", zapcore.DebugLevel},
		{"error", gormlogger.Error, time.Now(), errors.New("connection refused"), "SQL Error", zapcore.ErrorLevel},
		{"slow query", gormlogger.Warn, time.Now().Add(-time.Second), nil, "SLOW SQL >= 200ms", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			gl := NewGormLogger(zap.New(core), tt.level)

			gl.Trace(ctx, tt.begin, query, tt.err)

			entries := recorded.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantMsg, entries[0].Message)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
			fields := entries[0].ContextMap()
			assert.Equal(t, "SELECT * FROM payments", fields["sql"])
			assert.Equal(t, int64(3), fields["rows"])
			assert.Equal(t, "req-5", fields["request_id"])
		})
	}
}

func TestGormLogger_TraceSkips(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	query := func() (string, int64) { return "SELECT 1", 0 }

	NewGormLogger(zap.New(core), gormlogger.Silent).Trace(context.Background(), time.Now(), query, errors.New("x"))
	NewGormLogger(zap.New(core), gormlogger.Error).Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)
	NewGormLogger(zap.New(core), gormlogger.Warn).Trace(context.Background(), time.Now(), query, nil)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Messages(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info)

	gl.Info(context.Background(), "migrated %d tables", 4)
	gl.Warn(context.Background(), "deprecated %s", "option")
	gl.Error(context.Background(), "failed: %v", errors.New("boom"))

	entries := recorded.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "migrated 4 tables", entries[0].Message)
	assert.Equal(t, "gorm", entries[0].LoggerName)
	assert.Equal(t, "failed: boom", entries[2].Message)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("ERROR"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}
