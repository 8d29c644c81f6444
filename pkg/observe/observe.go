// Package observe provides instrumentation for the routing engine.
//
// The engine itself performs no logging or metrics; it accepts a
// router.Recorder through router.WithRecorder and calls it around every
// rebuild and match. This package ships two implementations:
//
//   - Metrics: Prometheus counters, histograms, and a route gauge
//   - Tracing: OpenTelemetry spans for builds and matches
//
// Recorders compose, so both can be installed at once:
//
//	rec := observe.Multi(
//	    observe.Metrics(observe.WithNamespace("myapp")),
//	    observe.Tracing(),
//	)
//	r := router.NewRouter(router.WithRecorder(rec))
package observe

import (
	"time"

	"github.com/trellis-dev/trellis/pkg/router"
)

// multiRecorder fans out to several recorders in order.
type multiRecorder []router.Recorder

// Multi combines recorders into one. Nil entries are skipped.
func Multi(recs ...router.Recorder) router.Recorder {
	var m multiRecorder
	for _, r := range recs {
		if r != nil {
			m = append(m, r)
		}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m multiRecorder) RecordBuild(routes int, dur time.Duration, err error) {
	for _, r := range m {
		r.RecordBuild(routes, dur, err)
	}
}

func (m multiRecorder) RecordMatch(path, pattern string, matched bool, dur time.Duration) {
	for _, r := range m {
		r.RecordMatch(path, pattern, matched, dur)
	}
}
