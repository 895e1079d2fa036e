package logger

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	originalLoggerErrorMsg = "should return original logger"
	testMessage            = "test message"
)

func newBufferLogger(buf *bytes.Buffer) *ZeroLogger {
	zl := zerolog.New(buf).With().Timestamp().Logger()
	return &ZeroLogger{zlog: &zl}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		pretty        bool
		expectedLevel zerolog.Level
	}{
		{
			name:          "info_level_pretty",
			level:         "info",
			pretty:        true,
			expectedLevel: zerolog.InfoLevel,
		},
		{
			name:          "debug_level_not_pretty",
			level:         "debug",
			pretty:        false,
			expectedLevel: zerolog.DebugLevel,
		},
		{
			name:          "warn_level_not_pretty",
			level:         "warn",
			pretty:        false,
			expectedLevel: zerolog.WarnLevel,
		},
		{
			name:          "disabled_level",
			level:         "disabled",
			pretty:        false,
			expectedLevel: zerolog.Disabled,
		},
		{
			name:          "invalid_level_defaults_to_info",
			level:         "invalid_level",
			pretty:        false,
			expectedLevel: zerolog.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level, tt.pretty)

			require.NotNil(t, log)
			require.NotNil(t, log.zlog)
			assert.Equal(t, tt.expectedLevel, log.zlog.GetLevel())
		})
	}
}

func TestWithContext(t *testing.T) {
	log := New("info", false)

	tests := []struct {
		name     string
		ctx      any
		expected string
	}{
		{
			name:     "context_with_logger",
			ctx:      zerolog.New(os.Stdout).WithContext(context.Background()),
			expected: "should return logger bound to context logger",
		},
		{
			name:     "context_without_logger",
			ctx:      context.Background(),
			expected: originalLoggerErrorMsg,
		},
		{
			name:     "context_with_disabled_logger",
			ctx:      zerolog.New(io.Discard).Level(zerolog.Disabled).WithContext(context.Background()),
			expected: originalLoggerErrorMsg,
		},
		{
			name:     "non_context_value",
			ctx:      "not a context",
			expected: originalLoggerErrorMsg,
		},
		{
			name:     "nil_context",
			ctx:      nil,
			expected: originalLoggerErrorMsg,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := log.WithContext(tt.ctx)

			require.NotNil(t, result)
			assert.Implements(t, (*Logger)(nil), result)

			if tt.name == "context_with_logger" {
				assert.NotEqual(t, log, result, tt.expected)
			} else {
				assert.Equal(t, log, result, tt.expected)
			}
		})
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	withFields := log.WithFields(map[string]any{
		"service": "billing",
		"count":   42,
	})
	require.NotNil(t, withFields)
	assert.NotEqual(t, log, withFields)

	withFields.Info().Msg(testMessage)

	output := buf.String()
	assert.Contains(t, output, `"service":"billing"`)
	assert.Contains(t, output, `"count":42`)
	assert.Contains(t, output, testMessage)
}

func TestEventFieldChaining(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.Info().
		Str("method", "GET").
		Int("status", 200).
		Int64("size", 512).
		Dur("elapsed", 150*time.Millisecond).
		Bytes("preview", []byte("ok")).
		Interface("meta", map[string]string{"env": "dev"}).
		Msg(testMessage)

	output := buf.String()
	assert.Contains(t, output, `"method":"GET"`)
	assert.Contains(t, output, `"status":200`)
	assert.Contains(t, output, `"size":512`)
	assert.Contains(t, output, `"elapsed":150`)
	assert.Contains(t, output, `"preview":"ok"`)
	assert.Contains(t, output, `"env":"dev"`)
	assert.Contains(t, output, testMessage)
}

func TestEventErr(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.Error().Err(errors.New("connection refused")).Msg("request failed")

	output := buf.String()
	assert.Contains(t, output, "connection refused")
	assert.Contains(t, output, "request failed")
}

func TestEventMsgf(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.Warn().Msgf("retry %d of %d", 2, 5)

	assert.Contains(t, buf.String(), "retry 2 of 5")
}

func TestDisabledLoggerEmitsNothing(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(zerolog.Disabled)
	log := &ZeroLogger{zlog: &zl}

	log.Info().Str("key", "value").Msg(testMessage)
	log.Error().Msg(testMessage)

	assert.Empty(t, buf.String())
}
