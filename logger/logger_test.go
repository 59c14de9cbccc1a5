package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerWritesTagsAndMessage(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf)
	l.Info("dispatched", "operation", "MyQuery")

	out := buf.String()
	assert.True(t, strings.Contains(out, "INFO"))
	assert.True(t, strings.Contains(out, "dispatched"))
	assert.True(t, strings.Contains(out, "MyQuery"))
}

func TestWithPrependsTags(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf).With("requestID", "abc123")
	l.Warn("long query")

	out := buf.String()
	assert.True(t, strings.Contains(out, "abc123"))
	assert.True(t, strings.Contains(out, "long query"))
}

func TestNopDiscardsEverything(t *testing.T) {
	l := NewNop()
	// Should not panic, and With should keep returning a nop.
	l.With("a", "b").Error("whatever")
}
