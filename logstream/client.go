// Package logstream implements the client side of the streaming protocol
// spoken by the PTY server wrapping the workflow engine in the remote
// job. It authenticates with a session token, decodes the typed message
// stream, and extracts the process exit status from in-band signaling.
package logstream

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/atomics"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/util"
)

var debug = util.Debug("logstream")

const (
	// handshakeTimeout bounds the websocket upgrade, not the stream.
	handshakeTimeout = 30 * time.Second
	// maxMessageSize guards against a runaway frame from the server.
	maxMessageSize = 4 * 1024 * 1024
	// maxErrorBody bounds how much of a rejected handshake response
	// gets quoted in the error.
	maxErrorBody = 4 * 1024
)

var dialer = websocket.Dialer{
	HandshakeTimeout: handshakeTimeout,
}

// Error kinds classifying why a stream could not be established.
var (
	ErrAuthenticationFailed = errors.New("authentication against the streaming endpoint failed")
	ErrInvalidEndpoint      = errors.New("invalid streaming endpoint URL")
	ErrConnectionFailed     = errors.New("failed to connect to the streaming endpoint")
)

// TokenSource provides session tokens for endpoint authentication. It
// must be safe for concurrent use.
type TokenSource interface {
	SessionToken() (string, error)
}

// Sink receives decoded stream content. Both methods are called
// sequentially from the receive path, in arrival order; a slow sink
// slows the stream but never reorders it.
type Sink interface {
	Output(data string)
	Status(phase string, fields map[string]interface{})
}

// Outcome is the terminal result of a streamed run. Completed is false
// when the stream ended without the server signaling completion, in
// which case Code carries no meaning.
type Outcome struct {
	Code      int
	Completed bool
}

// Incomplete is the outcome of a stream that ended before a completion
// signal, by disconnect or by abort.
var Incomplete = Outcome{}

// Client supervises a single streaming connection.
//
// A Client is single-use: create it, call Stream once, and call Abort
// from any goroutine to stop early.
type Client struct {
	tokens  TokenSource
	sink    Sink
	monitor runtime.Monitor

	mConn   sync.Mutex
	conn    *websocket.Conn
	aborted atomics.Once
}

// New returns a Client that streams to sink, authenticating with tokens.
func New(tokens TokenSource, sink Sink, monitor runtime.Monitor) *Client {
	return &Client{tokens: tokens, sink: sink, monitor: monitor}
}

// Abort stops the stream. It is idempotent and safe to call from any
// goroutine, before as well as during Stream.
func (c *Client) Abort() {
	c.aborted.Do(func() {
		debug("abort requested")
		c.mConn.Lock()
		defer c.mConn.Unlock()
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// adopt registers the connection for Abort to close. It reports false if
// the stream was aborted while the connection was being established, in
// which case the caller owns the connection.
func (c *Client) adopt(conn *websocket.Conn) bool {
	c.mConn.Lock()
	defer c.mConn.Unlock()
	if c.aborted.IsDone() {
		return false
	}
	c.conn = conn
	return true
}

// Stream connects to endpoint and forwards decoded frames to the sink
// until the server signals completion, the connection drops, or the
// stream is aborted. A dropped connection or an abort yields the
// Incomplete outcome with a nil error; absence of a completion signal is
// never reported as a failure exit code.
func (c *Client) Stream(endpoint string) (Outcome, error) {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		return Incomplete, errors.Wrapf(ErrInvalidEndpoint, "'%s'", endpoint)
	}

	if c.aborted.IsDone() {
		return Incomplete, nil
	}

	token, err := c.tokens.SessionToken()
	if err != nil {
		return Incomplete, errors.Wrapf(ErrAuthenticationFailed, "failed to obtain session token: %s", err)
	}

	header := make(http.Header)
	header.Set("Authorization", fmt.Sprintf(`Snowflake Token="%s"`, token))

	debug("dialing %s", endpoint)
	conn, response, err := dialer.Dial(endpoint, header)
	if err != nil {
		if err == websocket.ErrBadHandshake && response != nil {
			body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
			response.Body.Close()
			if response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
				return Incomplete, errors.Wrapf(ErrAuthenticationFailed,
					"endpoint rejected the session token (HTTP %d)", response.StatusCode)
			}
			return Incomplete, errors.Wrapf(ErrConnectionFailed,
				"handshake rejected with HTTP %d: %s", response.StatusCode, bytes.TrimSpace(body))
		}
		return Incomplete, errors.Wrapf(ErrConnectionFailed, "%s", err)
	}
	if !c.adopt(conn) {
		conn.Close()
		return Incomplete, nil
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	c.monitor.Debugf("connected to '%s'", endpoint)
	c.sink.Status("connected", map[string]interface{}{"url": endpoint})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			reason := "Connection closed by server"
			if c.aborted.IsDone() {
				reason = "Disconnected by user"
			}
			debug("read loop ended: %s", err)
			c.sink.Status("disconnected", map[string]interface{}{"reason": reason})
			return Incomplete, nil
		}

		switch m := Decode(frame).(type) {
		case Output:
			c.sink.Output(m.Data)
		case Status:
			c.sink.Status(m.Phase, m.Fields)
			if m.Phase == "completed" {
				return Outcome{Code: m.ExitCode(), Completed: true}, nil
			}
		case *ServerError:
			return Incomplete, m
		case Unknown:
			c.sink.Output(fmt.Sprintf("Unknown message type '%s': %s\n", m.Type, m.Raw))
		}
	}
}
