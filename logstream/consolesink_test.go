package logstream

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleSinkRendering(t *testing.T) {
	var out, steps bytes.Buffer
	s := &ConsoleSink{Out: &out, Steps: &steps}

	s.Status("connected", map[string]interface{}{"url": "wss://example.com"})
	s.Status("starting", map[string]interface{}{"command": "nextflow run ."})
	s.Status("started", map[string]interface{}{"pid": float64(42)})
	s.Output("N E X T F L O W\n")
	s.Output("no trailing newline")
	s.Status("error", map[string]interface{}{"error": "boom"})
	s.Status("completed", map[string]interface{}{"exit_code": float64(0)})
	s.Status("disconnected", map[string]interface{}{"reason": "Connection closed by server"})

	assert.Equal(t, "N E X T F L O W\nno trailing newline", out.String())
	expected := strings.Join([]string{
		"Connected! Streaming messages...",
		"Press Ctrl+C to disconnect",
		strings.Repeat("=", 50),
		"Starting: nextflow run .",
		"Started with PID: 42",
		"Error: boom",
		"Completed with exit code: 0",
		"Connection closed by server",
	}, "\n") + "\n"
	assert.Equal(t, expected, steps.String())
}

func TestConsoleSinkMissingFields(t *testing.T) {
	var out, steps bytes.Buffer
	s := &ConsoleSink{Out: &out, Steps: &steps}
	s.Status("starting", nil)
	assert.Equal(t, "Starting: \n", steps.String())
}
