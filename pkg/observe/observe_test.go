package observe

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/trellis-dev/trellis/pkg/router"
)

func TestMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := Metrics(WithRegistry(reg), WithNamespace("test"))

	rec.RecordBuild(3, 5*time.Millisecond, nil)
	rec.RecordBuild(0, time.Millisecond, errors.New("boom"))
	rec.RecordMatch("/users/42", "/users/[id]", true, time.Millisecond)
	rec.RecordMatch("/nope", "", false, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	found := make(map[string]bool)
	for _, f := range families {
		found[f.GetName()] = true
	}

	for _, want := range []string{
		"test_router_builds_total",
		"test_router_build_duration_seconds",
		"test_router_routes",
		"test_router_matches_total",
		"test_router_match_duration_seconds",
	} {
		if !found[want] {
			t.Errorf("metric %s not registered, have %v", want, found)
		}
	}
}

func TestMetricsRecorder_RouteGaugeSkipsFailedBuilds(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := Metrics(WithRegistry(reg))

	rec.RecordBuild(7, time.Millisecond, nil)
	rec.RecordBuild(0, time.Millisecond, errors.New("validation failed"))

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() != "trellis_router_routes" {
			continue
		}
		got := f.GetMetric()[0].GetGauge().GetValue()
		if got != 7 {
			t.Errorf("routes gauge = %v, want 7 (failed build must not reset it)", got)
		}
		return
	}
	t.Fatal("routes gauge not found")
}

func TestMetricsRecorder_ImplementsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ router.Recorder = Metrics(WithRegistry(reg))
	var _ router.Recorder = Tracing()
}

func TestTracingRecorder(t *testing.T) {
	// The global provider defaults to a no-op tracer; the recorder must
	// still be callable without panicking.
	rec := Tracing(WithTracerName("test"), WithIncludePath(false))
	rec.RecordBuild(2, time.Millisecond, nil)
	rec.RecordBuild(0, time.Millisecond, errors.New("bad pattern"))
	rec.RecordMatch("/a", "/a", true, time.Microsecond)
	rec.RecordMatch("/b", "", false, time.Microsecond)
}

func TestMulti(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Multi(nil, Metrics(WithRegistry(reg)), Tracing())

	m.RecordBuild(1, time.Millisecond, nil)
	m.RecordMatch("/x", "/x", true, time.Microsecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	if len(families) == 0 {
		t.Error("Multi did not fan out to the metrics recorder")
	}
}

func TestMultiWithRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := router.NewRouter(router.WithRecorder(Metrics(WithRegistry(reg))))

	err := r.Rebuild([]router.Declaration{
		{ID: "a", Pattern: "/a", Content: "a"},
	})
	if err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}
	if _, ok := r.Match("/a"); !ok {
		t.Fatal("Match(/a) should hit")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var sawBuild, sawMatch bool
	for _, f := range families {
		switch f.GetName() {
		case "trellis_router_builds_total":
			sawBuild = true
		case "trellis_router_matches_total":
			sawMatch = true
		}
	}
	if !sawBuild || !sawMatch {
		t.Errorf("router did not drive recorder: build=%v match=%v", sawBuild, sawMatch)
	}
}
