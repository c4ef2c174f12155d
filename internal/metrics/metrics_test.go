package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector_Independent(t *testing.T) {
	a := NewCollector("mindmate")
	b := NewCollector("mindmate")

	a.EntriesLogged.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.EntriesLogged))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.EntriesLogged))
}

func TestHandler_Exposes(t *testing.T) {
	c := NewCollector("mindmate")
	c.EntriesDeleted.Add(2)
	c.StoreEntries.Set(5)
	c.HTTPRequests.WithLabelValues("GET", "/data/stats", "200").Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "mindmate_entries_deleted_total 2")
	assert.Contains(t, string(body), "mindmate_store_entries 5")
	assert.Contains(t, string(body), `mindmate_http_requests_total{method="GET",route="/data/stats",status="200"} 1`)
}
