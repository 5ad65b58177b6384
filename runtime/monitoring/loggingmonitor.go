package monitoring

import (
	"fmt"
	godebug "runtime/debug"
	"strings"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sfc-gh-hyu/snowflake-cli-nextflow/runtime"
)

type loggingMonitor struct {
	*logrus.Entry
	prefix string
}

// LogLevels lists the accepted logLevel values, for use in config schemas.
func LogLevels() []string {
	return []string{
		logrus.DebugLevel.String(),
		logrus.InfoLevel.String(),
		logrus.WarnLevel.String(),
		logrus.ErrorLevel.String(),
		logrus.FatalLevel.String(),
		logrus.PanicLevel.String(),
	}
}

// New creates a monitor that logs everything to stderr at the given level,
// with the given tags attached to every entry.
func New(logLevel string, tags map[string]string) runtime.Monitor {
	return fromLogger(newLogger(logLevel), tags)
}

// NewWithSyslog creates a monitor like New that also forwards entries to
// the local syslog daemon under the given process name.
func NewWithSyslog(logLevel, syslogName string, tags map[string]string) (runtime.Monitor, error) {
	logger := newLogger(logLevel)
	if err := setupSyslog(logger, syslogName); err != nil {
		return nil, errors.Wrap(err, "failed to set up syslog forwarding")
	}
	return fromLogger(logger, tags), nil
}

func newLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()
	switch strings.ToLower(logLevel) {
	case logrus.DebugLevel.String():
		logger.Level = logrus.DebugLevel
	case logrus.InfoLevel.String():
		logger.Level = logrus.InfoLevel
	case logrus.WarnLevel.String():
		logger.Level = logrus.WarnLevel
	case logrus.ErrorLevel.String():
		logger.Level = logrus.ErrorLevel
	case logrus.FatalLevel.String():
		logger.Level = logrus.FatalLevel
	case logrus.PanicLevel.String():
		logger.Level = logrus.PanicLevel
	default:
		panic(fmt.Sprintf("Unsupported log-level: %s", logLevel))
	}
	return logger
}

func fromLogger(logger *logrus.Logger, tags map[string]string) runtime.Monitor {
	// Convert tags to logrus.Fields
	fields := make(logrus.Fields, len(tags))
	for k, v := range tags {
		fields[k] = v
	}

	return &loggingMonitor{
		Entry: logrus.NewEntry(logger).WithFields(fields),
	}
}

// PreConfig returns a default monitor for use before the configuration is
// loaded. This logs at the INFO level to stderr.
func PreConfig() runtime.Monitor {
	return New("info", map[string]string{})
}

func (m *loggingMonitor) Measure(name string, value ...float64) {
	strs := make([]string, 0, len(value))
	for _, v := range value {
		strs = append(strs, fmt.Sprintf("%f", v))
	}
	m.Debugf("measure: %s%s recorded %s", m.prefix, name, strings.Join(strs, ","))
}

func (m *loggingMonitor) Count(name string, value float64) {
	m.Debugf("counter: %s%s incremented by %f", m.prefix, name, value)
}

func (m *loggingMonitor) Time(name string, fn func()) {
	start := time.Now()
	fn()
	m.Measure(name, time.Since(start).Seconds()*1000)
}

func (m *loggingMonitor) CapturePanic(fn func()) (incidentID string) {
	defer func() {
		if crash := recover(); crash != nil {
			message := fmt.Sprint(crash)
			incidentID = uuid.NewRandom().String()
			trace := godebug.Stack()
			m.Entry.WithField("incidentId", incidentID).WithField("panic", crash).Error(
				"Recovered from panic: ", message, "\nAt:\n", string(trace),
			)
		}
	}()
	fn()
	return
}

func (m *loggingMonitor) ReportError(err error, message ...interface{}) string {
	incidentID := uuid.NewRandom().String()
	m.Entry.WithField("incidentId", incidentID).WithError(err).Error(message...)
	return incidentID
}

func (m *loggingMonitor) ReportWarning(err error, message ...interface{}) string {
	incidentID := uuid.NewRandom().String()
	m.Entry.WithField("incidentId", incidentID).WithError(err).Warn(message...)
	return incidentID
}

func (m *loggingMonitor) WithTags(tags map[string]string) runtime.Monitor {
	// Construct fields for logrus (just satisfying the type system)
	fields := make(map[string]interface{}, len(tags))
	for k, v := range tags {
		fields[k] = v
	}
	fields["prefix"] = m.prefix // don't allow overwrite of "prefix"
	return &loggingMonitor{
		Entry:  m.Entry.WithFields(fields),
		prefix: m.prefix,
	}
}

func (m *loggingMonitor) WithTag(key, value string) runtime.Monitor {
	return m.WithTags(map[string]string{key: value})
}

func (m *loggingMonitor) WithPrefix(prefix string) runtime.Monitor {
	prefix = m.prefix + prefix
	return &loggingMonitor{
		Entry:  m.Entry.WithField("prefix", prefix),
		prefix: prefix + ".",
	}
}
