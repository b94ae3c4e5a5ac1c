package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestTransition(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "json")
	defer Initialize("info", "text")

	Transition(7, 42, "PENDING_MANAGER", "PENDING_CUSTOMER", 2, "MANAGER")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Quote transition", entry["msg"])
	assert.Equal(t, float64(7), entry["quote_id"])
	assert.Equal(t, "PENDING_CUSTOMER", entry["to"])
	assert.Equal(t, "MANAGER", entry["actor"])
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "text")
	defer Initialize("info", "text")

	EnterMethod("quoteService.CreateQuote", "rentalID", 42)
	assert.Empty(t, buf.String())

	ExitMethodRejected("quoteService.CreateQuote", assert.AnError, "rentalID", 42)
	assert.Contains(t, buf.String(), "Method rejected request")
}
