package launcher

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	rt "runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/archive"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/logstream"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/platform"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/mocks"
)

type staticTokens string

func (s staticTokens) SessionToken() (string, error) { return string(s), nil }

// recordingSink collects stream content. Runs drive it from a single
// goroutine, so no locking.
type recordingSink struct {
	output []string
	phases []string
}

func (s *recordingSink) Output(data string) { s.output = append(s.output, data) }
func (s *recordingSink) Status(phase string, fields map[string]interface{}) {
	s.phases = append(s.phases, phase)
}

// fakeTool writes a shell script standing in for the workflow binary.
func fakeTool(t *testing.T, script string) string {
	t.Helper()
	if rt.GOOS == "windows" {
		t.Skip("fake tool scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-nextflow")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	return path
}

// configTool emits the minimal project configuration.
func configTool(t *testing.T) string {
	return fakeTool(t, `
echo "snowflake.computePool = 'MY_POOL'"
echo "snowflake.workDirStage = '@nf_stage/workdir'"
`)
}

func fakeProject(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "pipeline")
	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.nf"), []byte("workflow {}\n"), 0644))
	return dir
}

func testStorage(t *testing.T) runtime.TemporaryStorage {
	t.Helper()
	storage, err := runtime.NewTemporaryStorage(filepath.Join(t.TempDir(), "archive"))
	require.NoError(t, err)
	return storage
}

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// streamServer runs a websocket endpoint that checks the authorization
// header, sends the frames, then closes normally.
func streamServer(t *testing.T, authorization string, frames []string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != authorization {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
}

func TestRunHappyPath(t *testing.T) {
	s := streamServer(t, `Snowflake Token="tok-1"`, []string{
		`{"type": "status", "status": "started", "pid": 4242}`,
		`{"type": "output", "data": "N E X T F L O W\n"}`,
		`{"type": "status", "status": "completed", "exit_code": 3}`,
	})
	defer s.Close()
	wsURL := "ws:" + s.URL[5:]

	var localPath, stagePath, tag, jobName string
	var document []byte
	p := &platform.MockPlatform{}
	p.On("PutFile", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		localPath = args.String(0)
		stagePath = args.String(1)
	}).Return(nil)
	p.On("TagSession", mock.Anything).Run(func(args mock.Arguments) {
		tag = args.String(0)
	}).Return(nil)
	p.On("CreateJob", mock.Anything, "MY_POOL", mock.Anything, []string{"nf_eai"}).Run(func(args mock.Arguments) {
		jobName = args.String(0)
		document = args.Get(2).([]byte)
	}).Return(nil)
	p.On("AwaitReady", mock.Anything, time.Minute).Return(nil)
	p.On("UntagSession").Return(nil)
	p.On("StreamingEndpoint", mock.Anything).Return(wsURL, nil)
	p.On("DropJob", mock.Anything).Return(nil)

	sink := &recordingSink{}
	run := New(Options{
		ProjectDir:   fakeProject(t),
		Profile:      "batch",
		Image:        "/repo/nf:1.0",
		EAINames:     []string{"nf_eai"},
		ReadyTimeout: time.Minute,
		Rand:         rand.New(rand.NewSource(1)),
		Tool:         configTool(t),
		Storage:      testStorage(t),
	}, p, staticTokens("tok-1"), sink, mocks.NewMockMonitor(true))

	outcome, err := run.Execute()
	require.NoError(t, err)
	assert.Equal(t, logstream.Outcome{Code: 3, Completed: true}, outcome)

	// archive went to the run's folder under the work-directory stage
	assert.Equal(t, "@nf_stage/workdir/"+run.Token().String(), stagePath)

	// submission statements were attributed to the run
	assert.JSONEq(t, `{"NEXTFLOW_JOB_TYPE": "main", "NEXTFLOW_RUN_ID": "`+run.Token().String()+`"}`, tag)

	assert.Equal(t, run.JobName(), jobName)
	assert.True(t, strings.HasPrefix(jobName, "NXF_MAIN_"))
	assert.Contains(t, string(document), "nextflow run .")
	assert.Contains(t, string(document), "-profile batch")
	// the uploaded artifact is the one the job unpacks
	assert.Contains(t, string(document), filepath.Base(localPath))
	p.AssertCalled(t, "AwaitReady", run.JobName(), time.Minute)
	p.AssertCalled(t, "UntagSession")

	assert.Equal(t, []string{"N E X T F L O W\n"}, sink.output)
	assert.Equal(t, []string{"connected", "started", "completed"}, sink.phases)

	p.AssertNumberOfCalls(t, "DropJob", 1)
	p.AssertCalled(t, "DropJob", run.JobName())
}

func TestRunUploadFailure(t *testing.T) {
	p := &platform.MockPlatform{}
	p.On("PutFile", mock.Anything, mock.Anything).Return(errors.New("stage unreachable"))
	p.On("DropJob", mock.Anything).Return(nil)

	run := New(Options{
		ProjectDir: fakeProject(t),
		Rand:       rand.New(rand.NewSource(1)),
		Tool:       configTool(t),
	}, p, staticTokens("t"), &recordingSink{}, mocks.NewMockMonitor(true))

	outcome, err := run.Execute()
	require.Error(t, err)
	assert.Equal(t, archive.ErrUploadFailed, errors.Cause(err))
	assert.Contains(t, err.Error(), "stage 'pack' failed")
	assert.Equal(t, logstream.Incomplete, outcome)

	p.AssertNumberOfCalls(t, "CreateJob", 0)
	p.AssertNumberOfCalls(t, "DropJob", 1)
}

func TestRunSubmitFailure(t *testing.T) {
	p := &platform.MockPlatform{}
	p.On("PutFile", mock.Anything, mock.Anything).Return(nil)
	p.On("TagSession", mock.Anything).Return(nil)
	p.On("CreateJob", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("compute pool suspended"))
	p.On("DropJob", mock.Anything).Return(nil)

	run := New(Options{
		ProjectDir: fakeProject(t),
		Rand:       rand.New(rand.NewSource(1)),
		Tool:       configTool(t),
		Storage:    testStorage(t),
	}, p, staticTokens("t"), &recordingSink{}, mocks.NewMockMonitor(true))

	_, err := run.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage 'submit' failed")
	assert.Contains(t, err.Error(), "compute pool suspended")

	p.AssertNumberOfCalls(t, "StreamingEndpoint", 0)
	p.AssertNumberOfCalls(t, "UntagSession", 0)
	p.AssertNumberOfCalls(t, "DropJob", 1)
}

func TestRunAbortBeforeExecute(t *testing.T) {
	p := &platform.MockPlatform{}
	p.On("DropJob", mock.Anything).Return(nil)

	run := New(Options{
		ProjectDir: fakeProject(t),
		Rand:       rand.New(rand.NewSource(1)),
		Tool:       configTool(t),
	}, p, staticTokens("t"), &recordingSink{}, mocks.NewMockMonitor(true))

	run.Abort()
	run.Abort() // idempotent

	outcome, err := run.Execute()
	require.Error(t, err)
	assert.Equal(t, ErrAborted, errors.Cause(err))
	assert.Contains(t, err.Error(), "before stage 'resolve'")
	assert.Equal(t, logstream.Incomplete, outcome)

	p.AssertNumberOfCalls(t, "PutFile", 0)
	p.AssertNumberOfCalls(t, "DropJob", 1)
}

func TestRunCleanupFailureNeverMasksOutcome(t *testing.T) {
	s := streamServer(t, `Snowflake Token="t"`, []string{
		`{"type": "status", "status": "completed", "exit_code": 0}`,
	})
	defer s.Close()

	p := &platform.MockPlatform{}
	p.On("PutFile", mock.Anything, mock.Anything).Return(nil)
	p.On("TagSession", mock.Anything).Return(nil)
	p.On("CreateJob", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	p.On("AwaitReady", mock.Anything, DefaultReadyTimeout).Return(nil)
	p.On("UntagSession").Return(nil)
	p.On("StreamingEndpoint", mock.Anything).Return("ws:"+s.URL[5:], nil)
	p.On("DropJob", mock.Anything).Return(errors.New("drop refused"))

	run := New(Options{
		ProjectDir: fakeProject(t),
		Rand:       rand.New(rand.NewSource(1)),
		Tool:       configTool(t),
		Storage:    testStorage(t),
	}, p, staticTokens("t"), &recordingSink{}, mocks.NewMockMonitor(true))

	// ReadyTimeout was left zero, so AwaitReady gets the default
	outcome, err := run.Execute()
	require.NoError(t, err)
	assert.Equal(t, logstream.Outcome{Code: 0, Completed: true}, outcome)
	p.AssertNumberOfCalls(t, "DropJob", 1)
}

func TestAttachmentStreamsWithoutJobLifecycle(t *testing.T) {
	s := streamServer(t, `Snowflake Token="tok-2"`, []string{
		`{"type": "output", "data": "resumed\n"}`,
		`{"type": "status", "status": "completed", "exit_code": 0}`,
	})
	defer s.Close()

	p := &platform.MockPlatform{}
	p.On("StreamingEndpoint", "NXF_MAIN_abcd1234").Return("ws:"+s.URL[5:], nil)

	sink := &recordingSink{}
	a := NewAttachment("NXF_MAIN_abcd1234", p, staticTokens("tok-2"), sink, mocks.NewMockMonitor(true))

	outcome, err := a.Execute()
	require.NoError(t, err)
	assert.Equal(t, logstream.Outcome{Code: 0, Completed: true}, outcome)
	assert.Equal(t, []string{"resumed\n"}, sink.output)

	p.AssertNumberOfCalls(t, "CreateJob", 0)
	p.AssertNumberOfCalls(t, "DropJob", 0)
}

func TestAttachmentEndpointFailure(t *testing.T) {
	p := &platform.MockPlatform{}
	p.On("StreamingEndpoint", mock.Anything).Return("", errors.New("no public endpoint"))

	a := NewAttachment("NXF_MAIN_gone", p, staticTokens("t"), &recordingSink{}, mocks.NewMockMonitor(true))
	outcome, err := a.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no public endpoint")
	assert.Equal(t, logstream.Incomplete, outcome)
}
