package versioned

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsTrackSessionActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics("versioned", reg)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	s := New(WithMetrics(metrics))
	d1 := newDataObject(newDataFields(s))

	d1.SetName("Hei")
	h, _ := s.Open(1)
	if got := testutil.ToFloat64(metrics.AmbientVersion); got != 1 {
		t.Fatalf("expected ambient gauge 1, got %v", got)
	}
	_ = d1.Name()
	_ = d1.Counter()
	d1.SetName("Verden")
	_ = d1.Name()
	_, _ = s.Open(2)
	h.Release()

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"writes base", testutil.ToFloat64(metrics.Writes.WithLabelValues("base")), 1},
		{"writes overlay", testutil.ToFloat64(metrics.Writes.WithLabelValues("overlay")), 1},
		{"reads base", testutil.ToFloat64(metrics.Reads.WithLabelValues("base")), 1},
		{"reads miss", testutil.ToFloat64(metrics.Reads.WithLabelValues("miss")), 1},
		{"reads overlay", testutil.ToFloat64(metrics.Reads.WithLabelValues("overlay")), 1},
		{"contexts opened", testutil.ToFloat64(metrics.ContextsOpened), 1},
		{"contexts rejected", testutil.ToFloat64(metrics.ContextsDenied), 1},
		{"ambient version", testutil.ToFloat64(metrics.AmbientVersion), 0},
		{"properties", testutil.ToFloat64(metrics.PropertiesTotal), 2},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
}

func TestNewMetricsRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewMetrics("versioned", reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewMetrics("versioned", reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestMetricsWithoutRegistry(t *testing.T) {
	metrics, err := NewMetrics("", nil)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	var nilMetrics *Metrics
	nilMetrics.observeWrite(Base)
	metrics.observeWrite(Base)
	if got := testutil.ToFloat64(metrics.Writes.WithLabelValues("base")); got != 1 {
		t.Fatalf("expected 1 write, got %v", got)
	}
}
