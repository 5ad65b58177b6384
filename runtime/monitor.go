package runtime

// A Monitor is responsible for structured logging, error reporting and
// light-weight metrics. Implementations are cheap to derive with tags, so
// components should create a child monitor with WithTag/WithPrefix rather
// than passing log context around by hand.
type Monitor interface {
	// Measure records values for the given metric name
	Measure(name string, value ...float64)
	// Count increments the counter for the given metric name
	Count(name string, value float64)
	// Time measures and records the execution time of fn
	Time(name string, fn func())

	// CapturePanic recovers and reports a panic in fn, returning an
	// incidentID if a panic was recovered
	CapturePanic(fn func()) (incidentID string)

	// Report error/warning and write to log, returns incidentID which
	// can be included in messages shown to users, if relevant
	ReportError(err error, message ...interface{}) string
	ReportWarning(err error, message ...interface{}) string

	// Write log messages to the system log
	Debug(...interface{})
	Debugln(...interface{})
	Debugf(string, ...interface{})
	Print(...interface{})
	Println(...interface{})
	Printf(string, ...interface{})
	Info(...interface{})
	Infoln(...interface{})
	Infof(string, ...interface{})
	Warn(...interface{})
	Warnln(...interface{})
	Warnf(string, ...interface{})
	Error(...interface{})
	Errorln(...interface{})
	Errorf(string, ...interface{})
	Panic(...interface{})
	Panicln(...interface{})
	Panicf(string, ...interface{})

	// Create a child monitor with the given tags
	WithTags(tags map[string]string) Monitor
	WithTag(key, value string) Monitor
	// Create a child monitor with the given prefix
	WithPrefix(prefix string) Monitor
}
