package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "warn")
	require.NoError(t, err)

	log.Info("booking created id=%s", "a1")
	assert.Empty(t, buf.String())

	log.Warn("slot unavailable doctor=%s time=%s", "d1", "10:00")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "slot unavailable doctor=d1 time=10:00")
}

func TestLogger_UnknownLevel(t *testing.T) {
	_, err := NewWithWriter(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestLogger_Nop(t *testing.T) {
	log := NewNop()
	log.Error("nothing %d", 1)
	assert.NoError(t, log.Close())
}
