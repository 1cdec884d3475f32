package shared

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&buf, false)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger = NewLogger(&buf, true)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
	logger.Debug("shown", "round", 3)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "round=3")
}
