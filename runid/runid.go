// Package runid generates the per-invocation identifier that namespaces
// everything a run creates remotely: the uploaded project archive, the
// service name and the session query tag.
package runid

import (
	"math/rand"
	"regexp"
)

const (
	tokenLength  = 8
	jobPrefix    = "NXF_MAIN_"
	lowercase    = "abcdefghijklmnopqrstuvwxyz"
	alphanumeric = lowercase + "0123456789"
)

// Pattern matches a well-formed run token. Tokens double as Nextflow run
// names, which must start with a letter.
var Pattern = regexp.MustCompile(`^[a-z][a-z0-9]{7}$`)

var jobNamePattern = regexp.MustCompile(`^NXF_MAIN_[a-z][a-z0-9]{7}$`)

// IsJobName reports whether s has the form of a job name produced by
// ID.JobName.
func IsJobName(s string) bool {
	return jobNamePattern.MatchString(s)
}

// ID is a run token: 8 characters, the first a lowercase letter, the rest
// lowercase letters and digits.
type ID string

// New draws a fresh run token from rng. Callers own the random source, so
// tests can pass a fixed seed and concurrent runs can seed independently.
func New(rng *rand.Rand) ID {
	b := make([]byte, tokenLength)
	b[0] = lowercase[rng.Intn(len(lowercase))]
	for i := 1; i < tokenLength; i++ {
		b[i] = alphanumeric[rng.Intn(len(alphanumeric))]
	}
	return ID(b)
}

func (id ID) String() string {
	return string(id)
}

// JobName returns the name of the remote service created for this run.
func (id ID) JobName() string {
	return jobPrefix + string(id)
}
