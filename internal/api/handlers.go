package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"

	"tidyserve/internal/charts"
	"tidyserve/internal/models"
	"tidyserve/internal/table"
)

// Dataset is one immutable snapshot of everything the API serves. The
// background ETL builds a complete snapshot and swaps it in atomically,
// so handlers never see a half-loaded dataset.
type Dataset struct {
	Info    models.DatasetInfo
	Long    *table.LongTable
	Summary *models.SummaryData
	Box     *charts.ChartConfig
	Point   *charts.ChartConfig
	Swarm   *charts.ChartConfig
}

type Handler struct {
	mu   sync.RWMutex
	data *Dataset
	log  *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{log: logger}
}

// SetData publishes a new snapshot. Called by the ETL goroutine.
func (h *Handler) SetData(d *Dataset) {
	h.mu.Lock()
	h.data = d
	h.mu.Unlock()
	h.log.Info("dataset published",
		"id", d.Info.ID,
		"rows", d.Info.Rows,
		"variables", d.Info.Variables,
		"observations", d.Info.Observations)
}

func (h *Handler) snapshot() *Dataset {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.data
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/dataset", h.GetDataset)
	api.GET("/table/long", h.GetLongTable)
	api.GET("/stats/groups", h.GetGroupStats)
	api.GET("/charts/box", h.GetBoxChart)
	api.GET("/charts/point", h.GetPointChart)
	api.GET("/charts/swarm", h.GetSwarmChart)
}

// --- HANDLERS ---

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// errLoading is returned while the background ETL has not published a
// dataset yet. The API is live immediately; data arrives later.
var errLoading = echo.NewHTTPError(http.StatusServiceUnavailable, "dataset is still loading")

func (h *Handler) GetDataset(c echo.Context) error {
	d := h.snapshot()
	if d == nil {
		return errLoading
	}
	return c.JSON(http.StatusOK, d.Info)
}

// GetLongTable serves the tidy records. Field names in each record
// follow the configured labels, so downstream consumers group and
// average by the same identifiers the reshaper wrote.
func (h *Handler) GetLongTable(c echo.Context) error {
	d := h.snapshot()
	if d == nil {
		return errLoading
	}

	total := d.Long.Len()
	limit, offset := getPaginationParams(c, total)

	labels := d.Long.Labels
	records := []map[string]any{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		for _, r := range d.Long.Records[offset:end] {
			records = append(records, map[string]any{
				labels.Row:      r.Row,
				labels.Variable: r.Variable,
				labels.Value:    r.Value,
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"labels": labels,
		"data":   records,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetGroupStats serves split-apply-combine results. ?by=variable (the
// default) groups observations by variable, ?by=row by subject, and
// ?by=cell serves the per-(row, variable) means.
func (h *Handler) GetGroupStats(c echo.Context) error {
	d := h.snapshot()
	if d == nil {
		return errLoading
	}

	by := c.QueryParam("by")
	if by == "" {
		by = "variable"
	}

	switch by {
	case "variable":
		return h.pagedStats(c, d.Summary.ByVariable)
	case "row":
		return h.pagedStats(c, d.Summary.ByRow)
	case "cell":
		cells := d.Summary.Cells
		limit, _ := getPaginationParams(c, len(cells))
		if limit < len(cells) {
			cells = cells[:limit]
		}
		return c.JSON(http.StatusOK, cells)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "by must be variable, row or cell")
	}
}

func (h *Handler) pagedStats(c echo.Context, stats []models.GroupStat) error {
	limit, _ := getPaginationParams(c, len(stats))
	if limit < len(stats) {
		stats = stats[:limit]
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetBoxChart(c echo.Context) error {
	d := h.snapshot()
	if d == nil {
		return errLoading
	}
	return c.JSON(http.StatusOK, d.Box)
}

func (h *Handler) GetPointChart(c echo.Context) error {
	d := h.snapshot()
	if d == nil {
		return errLoading
	}
	return c.JSON(http.StatusOK, d.Point)
}

func (h *Handler) GetSwarmChart(c echo.Context) error {
	d := h.snapshot()
	if d == nil {
		return errLoading
	}
	return c.JSON(http.StatusOK, d.Swarm)
}
