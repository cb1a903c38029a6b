package stats

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveDealOperation(t *testing.T) {
	okBefore := testutil.ToFloat64(dealOperations.WithLabelValues("fund", "ok"))
	errBefore := testutil.ToFloat64(dealOperations.WithLabelValues("fund", "error"))
	rejectedBefore := testutil.ToFloat64(rejectedOperations.WithLabelValues("fund"))

	ObserveDealOperation("fund", nil)
	ObserveDealOperation("fund", errors.New("boom"))
	ObserveDealOperation("fund", context.Canceled)

	require.Equal(t, okBefore+1, testutil.ToFloat64(dealOperations.WithLabelValues("fund", "ok")))
	require.Equal(t, errBefore+2, testutil.ToFloat64(dealOperations.WithLabelValues("fund", "error")))
	require.Equal(t, rejectedBefore+1, testutil.ToFloat64(rejectedOperations.WithLabelValues("fund")))
}

func TestDumpPrometheusDefaults(t *testing.T) {
	datadir := t.TempDir()
	ObserveDealOperation("settle", nil)

	err := DumpPrometheusDefaults(datadir)
	require.NoError(t, err)

	buf, err := os.ReadFile(filepath.Join(datadir, statsFilename))
	require.NoError(t, err)
	require.Contains(t, string(buf), "zeto_deal_operations_total")
}
