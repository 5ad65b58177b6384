package util

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
)

var debugPattern = func() *regexp.Regexp {
	debug := os.Getenv("DEBUG")
	if debug == "" {
		return nil
	}
	// Same matching rules as github.com/tj/go-debug: comma-separated
	// names, '*' as wildcard.
	debug = regexp.QuoteMeta(debug)
	debug = strings.Replace(debug, "\\*", ".*?", -1)
	debug = strings.Replace(debug, ",", "|", -1)
	return regexp.MustCompile("^(" + debug + ")$")
}()

var debugLock sync.Mutex

func debugDisabled(string, ...interface{}) {}

// Debug returns a debug(format, args...) function which prints messages
// to stderr if the DEBUG environment variable matches name.
//
// This is useful for development debugging only. Do not use this for
// messages that have any value in production.
func Debug(name string) func(string, ...interface{}) {
	if debugPattern == nil || !debugPattern.MatchString(name) {
		return debugDisabled
	}
	return func(format string, args ...interface{}) {
		debugLock.Lock()
		defer debugLock.Unlock()
		fmt.Fprintln(os.Stderr, name+": "+fmt.Sprintf(format, args...))
	}
}
