package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	for _, lvl := range []string{"", "debug", "INFO", "warn", "error"} {
		l, err := NewLogger(lvl, "json")
		require.NoError(t, err, lvl)
		assert.NotNil(t, l.Zap())
	}

	_, err := NewLogger("loud", "json")
	assert.Error(t, err)
}

func TestLogger_KeyValues(t *testing.T) {
	l, observed := NewTestLogger()

	l.With("workflow_id", "wf_1").Info("answer accepted", "field_id", "field_0")
	l.Warn("render conflict", "placeholder", "Name")

	entries := observed.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "wf_1", entries[0].ContextMap()["workflow_id"])
	assert.Equal(t, "field_0", entries[0].ContextMap()["field_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
