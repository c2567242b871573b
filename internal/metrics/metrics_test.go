package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSetDataSourceMode(t *testing.T) {
	SetDataSourceMode("mock", "postgres", "mock")
	if v := testutil.ToFloat64(DataSourceMode.WithLabelValues("mock")); v != 1 {
		t.Fatalf("mock gauge = %v", v)
	}
	if v := testutil.ToFloat64(DataSourceMode.WithLabelValues("postgres")); v != 0 {
		t.Fatalf("postgres gauge = %v", v)
	}
}

func TestResult(t *testing.T) {
	if Result(true) != "success" || Result(false) != "failure" {
		t.Fatal("unexpected labels")
	}
}
