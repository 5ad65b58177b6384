package logstream

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Message is one decoded frame from the streaming endpoint.
//
// Frames are JSON objects carrying a "type" discriminator. Anything that
// does not parse as a JSON object degrades to Output, so a server
// writing plain text still streams.
type Message interface {
	message()
}

// Output carries a chunk of process output, exactly as emitted.
type Output struct {
	Data string
}

// Status signals a phase change of the remote process, such as
// "starting", "started" or "completed". Fields carries the extra payload
// of the frame, like the command line or process ID.
type Status struct {
	Phase  string
	Fields map[string]interface{}
}

// ServerError is a failure the server reported over the stream. It ends
// the stream; no frames after it are delivered.
type ServerError struct {
	Message string
	Code    string
	Data    interface{}
}

// Unknown is a well-formed frame with a type this client does not
// recognize.
type Unknown struct {
	Type string
	Raw  string
}

func (Output) message()       {}
func (Status) message()       {}
func (*ServerError) message() {}
func (Unknown) message()      {}

func (e *ServerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server reported error [%s]: %s", e.Code, e.Message)
	}
	return "server reported error: " + e.Message
}

// IsServerError reports whether err was caused by a failure the server
// reported over the stream.
func IsServerError(err error) bool {
	_, ok := errors.Cause(err).(*ServerError)
	return ok
}

// ExitCode reads the exit_code field of a completed status, defaulting
// to 0 when absent or unreadable.
func (s Status) ExitCode() int {
	switch v := s.Fields["exit_code"].(type) {
	case float64:
		return int(v)
	case string:
		if code, err := strconv.Atoi(v); err == nil {
			return code
		}
	}
	return 0
}

// Decode parses a received frame into a Message. It never fails:
// non-JSON and non-object frames come back as Output with the raw frame
// as data.
func Decode(frame []byte) Message {
	var fields map[string]interface{}
	if err := json.Unmarshal(frame, &fields); err != nil || fields == nil {
		return Output{Data: string(frame)}
	}
	typ, _ := fields["type"].(string)
	switch typ {
	case "output":
		data, _ := fields["data"].(string)
		return Output{Data: data}
	case "status":
		phase, _ := fields["status"].(string)
		delete(fields, "type")
		delete(fields, "status")
		return Status{Phase: phase, Fields: fields}
	case "error":
		message, _ := fields["message"].(string)
		return &ServerError{
			Message: message,
			Code:    stringify(fields["code"]),
			Data:    fields["data"],
		}
	default:
		return Unknown{Type: typ, Raw: string(frame)}
	}
}

func stringify(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
