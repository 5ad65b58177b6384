package logstream

import (
	"fmt"
	"io"
	"strings"
)

// ConsoleSink renders stream content for an interactive console.
// Process output is written to Out verbatim, so the remote process
// controls its own line structure and ANSI rendering. Lifecycle statuses
// become one-line steps on Steps.
type ConsoleSink struct {
	Out   io.Writer
	Steps io.Writer
}

func (s *ConsoleSink) Output(data string) {
	fmt.Fprint(s.Out, data)
}

func (s *ConsoleSink) Status(phase string, fields map[string]interface{}) {
	switch phase {
	case "starting":
		s.step("Starting: %v", field(fields, "command"))
	case "started":
		s.step("Started with PID: %v", field(fields, "pid"))
	case "connected":
		s.step("Connected! Streaming messages...")
		s.step("Press Ctrl+C to disconnect")
		s.step(strings.Repeat("=", 50))
	case "completed":
		s.step("Completed with exit code: %v", field(fields, "exit_code"))
	case "error":
		s.step("Error: %v", field(fields, "error"))
	case "disconnected":
		s.step("%v", field(fields, "reason"))
	default:
		if len(fields) == 0 {
			s.step("%s", phase)
		} else {
			s.step("%s: %v", phase, fields)
		}
	}
}

func (s *ConsoleSink) step(format string, args ...interface{}) {
	fmt.Fprintf(s.Steps, format+"\n", args...)
}

func field(fields map[string]interface{}, key string) interface{} {
	if v, ok := fields[key]; ok && v != nil {
		return v
	}
	return ""
}
