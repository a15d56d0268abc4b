package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
		expectJSON  bool
	}{
		{name: "debug text", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info json", level: "info", format: "json", expectLevel: logrus.InfoLevel, expectJSON: true},
		{name: "warn text", level: "warn", format: "text", expectLevel: logrus.WarnLevel},
		{name: "invalid level defaults to info", level: "loud", format: "text", expectLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			_, isJSON := adapter.logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.expectJSON, isJSON)
		})
	}
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	logger := NewLogrusAdapterFromLogger(nil)
	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
}

func TestLogrusAdapter_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("debug", "json", &buf)

	logger.
		WithField(FieldOperation, "simulate").
		WithError(errors.New("boom")).
		Warn("simulation degraded", Field{Key: FieldMonths, Value: 12})

	out := buf.String()
	assert.Contains(t, out, `"msg":"simulation degraded"`)
	assert.Contains(t, out, `"operation":"simulate"`)
	assert.Contains(t, out, `"months":12`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestLogrusAdapter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("warn", "text", &buf)

	logger.Info("hidden")
	logger.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConvertFields(t *testing.T) {
	fields := convertFields([]Field{{Key: "a", Value: 1}, {Key: "b", Value: true}})
	assert.Len(t, fields, 2)
	assert.Equal(t, 1, fields["a"])
	assert.Equal(t, true, fields["b"])
	assert.Len(t, convertFields(nil), 0)
}

func TestGetLogger_DefaultAndOverride(t *testing.T) {
	assert.NotNil(t, GetLogger())

	mock := NewMockLogger()
	SetDefaultLogger(mock)
	t.Cleanup(func() { SetDefaultLogger(NewLogrusAdapter("info", "text")) })

	GetLogger().Info("through default")
	assert.True(t, mock.HasEntry("INFO", "through default"))

	SetDefaultLogger(nil)
	assert.Same(t, mock, GetLogger())
}

func TestSetAllLogLevels(t *testing.T) {
	SetDefaultLogger(NewLogrusAdapter("info", "text"))
	SetAllLogLevels(logrus.DebugLevel)

	adapter, ok := GetLogger().(*LogrusAdapter)
	require.True(t, ok)
	assert.Equal(t, logrus.DebugLevel, adapter.logger.Level)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	SetAllLogLevels(logrus.InfoLevel)
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
