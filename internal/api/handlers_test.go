package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidyserve/internal/charts"
	"tidyserve/internal/engine"
	"tidyserve/internal/models"
	"tidyserve/internal/table"
)

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	w := table.NewWideTable([]string{"John Smith", "Jane Doe", "Mary Johnson"})
	require.NoError(t, w.AddColumn("treatment_a", []float64{9, 16, 3}))
	require.NoError(t, w.AddColumn("treatment_b", []float64{2, 11, 1}))

	labels := table.Labels{Row: "person", Variable: "treatment", Value: "result"}
	long, err := table.Melt(w, labels, map[string]string{"treatment_a": "a", "treatment_b": "b"})
	require.NoError(t, err)

	store := engine.NewLongStore(long)
	return &Dataset{
		Info: models.DatasetInfo{
			ID:           uuid.NewString(),
			Source:       "treatments.csv",
			Labels:       labels,
			Rows:         w.NumRows(),
			Variables:    w.NumColumns(),
			Observations: long.Len(),
			LoadedAt:     time.Now(),
		},
		Long:    long,
		Summary: store.Summarize(),
		Box:     charts.BuildBox(store, "box"),
		Point:   charts.BuildPoint(store, "point"),
		Swarm:   charts.BuildSwarm(store, "swarm"),
	}
}

func newTestHandler(t *testing.T, data *Dataset) (*Handler, *echo.Echo) {
	t.Helper()
	h := NewHandler(slog.New(slog.NewTextHandler(testWriter{t}, nil)))
	if data != nil {
		h.SetData(data)
	}
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestUnavailableWhileLoading(t *testing.T) {
	_, e := newTestHandler(t, nil)

	for _, target := range []string{
		"/api/dataset", "/api/table/long", "/api/stats/groups",
		"/api/charts/box", "/api/charts/point", "/api/charts/swarm",
	} {
		rec := get(e, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}
}

func TestGetDataset(t *testing.T) {
	data := testDataset(t)
	_, e := newTestHandler(t, data)

	rec := get(e, "/api/dataset")
	require.Equal(t, http.StatusOK, rec.Code)

	var info models.DatasetInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, data.Info.ID, info.ID)
	assert.Equal(t, 3, info.Rows)
	assert.Equal(t, 2, info.Variables)
	assert.Equal(t, 6, info.Observations)
}

func TestGetLongTable(t *testing.T) {
	_, e := newTestHandler(t, testDataset(t))

	rec := get(e, "/api/table/long")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data  []map[string]any `json:"data"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 6, body.Total)
	require.Len(t, body.Data, 6)

	// Records are keyed by the configured labels, column-major order.
	first := body.Data[0]
	assert.Equal(t, "John Smith", first["person"])
	assert.Equal(t, "a", first["treatment"])
	assert.Equal(t, 9.0, first["result"])
}

func TestGetLongTablePagination(t *testing.T) {
	_, e := newTestHandler(t, testDataset(t))

	rec := get(e, "/api/table/long?limit=2&offset=4")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data   []map[string]any `json:"data"`
		Total  int              `json:"total"`
		Limit  int              `json:"limit"`
		Offset int              `json:"offset"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Limit)
	assert.Equal(t, 4, body.Offset)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Jane Doe", body.Data[0]["person"])
	assert.Equal(t, "b", body.Data[0]["treatment"])

	// Offset past the end returns an empty page, not an error.
	rec = get(e, "/api/table/long?offset=100")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Data)
}

func TestGetGroupStats(t *testing.T) {
	_, e := newTestHandler(t, testDataset(t))

	rec := get(e, "/api/stats/groups")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats []models.GroupStat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats, 2)
	assert.Equal(t, "a", stats[0].Key)

	rec = get(e, "/api/stats/groups?by=row&limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, "Jane Doe", stats[0].Key)

	rec = get(e, "/api/stats/groups?by=cell")
	require.Equal(t, http.StatusOK, rec.Code)
	var cells []models.CellStat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cells))
	assert.Len(t, cells, 6)

	rec = get(e, "/api/stats/groups?by=country")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCharts(t *testing.T) {
	_, e := newTestHandler(t, testDataset(t))

	rec := get(e, "/api/charts/box")
	require.Equal(t, http.StatusOK, rec.Code)
	var box charts.ChartConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &box))
	assert.Equal(t, "box", box.ChartType)
	assert.Len(t, box.Boxes, 2)

	rec = get(e, "/api/charts/point")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(e, "/api/charts/swarm")
	require.Equal(t, http.StatusOK, rec.Code)
	var swarm charts.ChartConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &swarm))
	assert.Len(t, swarm.Series, 2)
}
