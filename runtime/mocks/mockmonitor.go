package mocks

import (
	"fmt"
	"sort"
	"strings"

	godebug "runtime/debug"

	"github.com/pborman/uuid"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime"
	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime/util"
)

var mockMonitorLog = util.Debug("monitor")

// MockMonitor implements runtime.Monitor for use in unit tests.
type MockMonitor struct {
	tags         map[string]string
	prefix       string
	metadata     string
	panicOnError bool
}

// NewMockMonitor returns a Monitor that prints all messages using
// util.Debug(), meaning that the environment variable DEBUG='monitor' must
// be set to see the messages.
//
// If panicOnError is set this will panic if Error() or ReportError() is
// called. This is often useful when testing components that take a Monitor
// as argument.
func NewMockMonitor(panicOnError bool) *MockMonitor {
	return &MockMonitor{panicOnError: panicOnError}
}

// Measure records values for the given name
func (m *MockMonitor) Measure(name string, value ...float64) {
	m.output("MEASURE", fmt.Sprint(name, ": ", value))
}

// Count increments the counter by name with the given value
func (m *MockMonitor) Count(name string, value float64) {
	m.output("COUNT", fmt.Sprint(name, " += ", value))
}

// Time measures and records the execution time of fn
func (m *MockMonitor) Time(name string, fn func()) {
	fn()
	m.output("TIME", name)
}

// CapturePanic recovers from panic in fn and returns an incidentID, if any
func (m *MockMonitor) CapturePanic(fn func()) (incidentID string) {
	defer func() {
		if crash := recover(); crash != nil {
			incidentID = uuid.NewRandom().String()
			trace := godebug.Stack()
			text := fmt.Sprint("Recovered from panic: ", crash, "\nAt:\n", string(trace))
			m.WithTag("incidentId", incidentID).(*MockMonitor).output("PANIC", text)
			if m.panicOnError {
				panic(fmt.Sprintf("Panic: %s", text))
			}
		}
	}()
	fn()
	return
}

// ReportError records an error, and panics if panicOnError was set
func (m *MockMonitor) ReportError(err error, message ...interface{}) string {
	incidentID := uuid.NewRandom().String()
	text := fmt.Sprint(append([]interface{}{"error: ", err, " "}, message...)...)
	m.WithTag("incidentId", incidentID).(*MockMonitor).output("ERROR-REPORT", text)
	if m.panicOnError {
		panic(fmt.Sprintf("ReportError: %s", text))
	}
	return incidentID
}

// ReportWarning logs a warning
func (m *MockMonitor) ReportWarning(err error, message ...interface{}) string {
	incidentID := uuid.NewRandom().String()
	text := fmt.Sprint(append([]interface{}{"error: ", err, " "}, message...)...)
	m.WithTag("incidentId", incidentID).(*MockMonitor).output("WARNING-REPORT", text)
	return incidentID
}

func (m *MockMonitor) output(kind string, a ...interface{}) {
	mockMonitorLog("%s: %s (%s)", kind, fmt.Sprint(a...), m.metadata)
}

// Debug writes a debug message
func (m *MockMonitor) Debug(a ...interface{}) { m.output("DEBUG", a...) }

// Debugln writes a debug message
func (m *MockMonitor) Debugln(a ...interface{}) { m.Debug(fmt.Sprintln(a...)) }

// Debugf writes a debug message
func (m *MockMonitor) Debugf(f string, a ...interface{}) { m.Debug(fmt.Sprintf(f, a...)) }

// Print writes a message labelled as Print
func (m *MockMonitor) Print(a ...interface{}) { m.output("INFO", a...) }

// Println writes a message labelled as Print
func (m *MockMonitor) Println(a ...interface{}) { m.Print(fmt.Sprintln(a...)) }

// Printf writes a message labelled as Print
func (m *MockMonitor) Printf(f string, a ...interface{}) { m.Print(fmt.Sprintf(f, a...)) }

// Info writes a message labelled as Info
func (m *MockMonitor) Info(a ...interface{}) { m.output("INFO", a...) }

// Infoln writes a message labelled as Info
func (m *MockMonitor) Infoln(a ...interface{}) { m.Info(fmt.Sprintln(a...)) }

// Infof writes a message labelled as Info
func (m *MockMonitor) Infof(f string, a ...interface{}) { m.Info(fmt.Sprintf(f, a...)) }

// Warn writes a message labelled as Warn
func (m *MockMonitor) Warn(a ...interface{}) { m.output("WARN", a...) }

// Warnln writes a message labelled as Warn
func (m *MockMonitor) Warnln(a ...interface{}) { m.Warn(fmt.Sprintln(a...)) }

// Warnf writes a message labelled as Warn
func (m *MockMonitor) Warnf(f string, a ...interface{}) { m.Warn(fmt.Sprintf(f, a...)) }

// Error writes a message labelled as Error, and panics if panicOnError was set
func (m *MockMonitor) Error(a ...interface{}) {
	m.output("ERROR", a...)
	if m.panicOnError {
		panic(fmt.Sprint(a...))
	}
}

// Errorln writes a message labelled as Error, and panics if panicOnError was set
func (m *MockMonitor) Errorln(a ...interface{}) { m.Error(fmt.Sprintln(a...)) }

// Errorf writes a message labelled as Error, and panics if panicOnError was set
func (m *MockMonitor) Errorf(f string, a ...interface{}) { m.Error(fmt.Sprintf(f, a...)) }

// Panic writes a message labelled as Panic, and panics
func (m *MockMonitor) Panic(a ...interface{}) {
	m.output("PANIC", a...)
	panic(fmt.Sprint(a...))
}

// Panicln writes a message labelled as Panic, and panics
func (m *MockMonitor) Panicln(a ...interface{}) { m.Panic(fmt.Sprintln(a...)) }

// Panicf writes a message labelled as Panic, and panics
func (m *MockMonitor) Panicf(f string, a ...interface{}) { m.Panic(fmt.Sprintf(f, a...)) }

// WithTags creates a new child Monitor with the given tags
func (m *MockMonitor) WithTags(tags map[string]string) runtime.Monitor {
	allTags := make(map[string]string, len(m.tags)+len(tags))
	for k, v := range m.tags {
		allTags[k] = v
	}
	for k, v := range tags {
		allTags[k] = v
	}
	return &MockMonitor{
		tags:         allTags,
		prefix:       m.prefix,
		metadata:     mockMonitorMetadata(allTags, m.prefix),
		panicOnError: m.panicOnError,
	}
}

// WithTag creates a new child Monitor with the given tag
func (m *MockMonitor) WithTag(key, value string) runtime.Monitor {
	return m.WithTags(map[string]string{key: value})
}

// WithPrefix creates a new child Monitor with the given prefix
func (m *MockMonitor) WithPrefix(prefix string) runtime.Monitor {
	completePrefix := prefix
	if m.prefix != "" {
		completePrefix = m.prefix + "." + prefix
	}
	return &MockMonitor{
		tags:         m.tags,
		prefix:       completePrefix,
		metadata:     mockMonitorMetadata(m.tags, completePrefix),
		panicOnError: m.panicOnError,
	}
}

func mockMonitorMetadata(tags map[string]string, prefix string) string {
	pairs := make([]string, 0, len(tags)+1)
	for k, v := range tags {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(pairs)
	if prefix != "" {
		pairs = append([]string{"prefix=" + prefix}, pairs...)
	}
	return strings.Join(pairs, " ")
}
