package telemetry

import (
	"fmt"
)

// API is what pipeline stages report through. Production code passes a SlogAPI, tests pass a
// Recorder and assert on what was reported.
//
// Ids name the stage and the step, in lowercase and separated by a dot: `transformer.item`,
// `client.fetch-batches`. The package a report comes from is added by ScopedAPI, so ids are
// declared as `report_*` constants next to the code that uses them.
type API interface {
	// ReportBroken reports a failure that ended a stage, params carry the error and the inputs
	// needed to reproduce it.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something a stage recovered from, like a skipped item.
	ReportWarning(id string, params ...any)

	// ReportDebug reports progress, only visible with --verbose.
	ReportDebug(msg string, params ...any)

	// ReportCount reports how many things a stage produced in one call (batches written, items
	// read). Each report is a standalone data point.
	ReportCount(id string, count int64)
}

// ScopedAPI is a telemetry API that attaches a namespace for a given API, kind of like creating a
// "sub" logger using things like log.New(), in which you can define the prefix for the logs.
type ScopedAPI struct {
	namespace string
	inner     API
}

// NewScopedAPI creates a ScopedAPI out of a given namespace and another api.
func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s: %s", s.namespace, id), count)
}
