package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	"github.com/davicafu/makethechange/pkg/utils"
)

const (
	dayLayout = "2006-01-02"
	// MaxAnalyticsRange acota el rango de días de una consulta.
	MaxAnalyticsRange = 366 * 24 * time.Hour
)

type dailyMutationsResponse struct {
	Day       string `json:"day"`
	Aggregate string `json:"aggregate"`
	Count     int    `json:"count"`
}

// AnalyticsHandler expone el histórico de ediciones de los catálogos.
type AnalyticsHandler struct {
	repo sharedDomain.MutationAnalyticsRepository
	now  func() time.Time
	log  *zap.Logger
}

func NewAnalyticsHandler(repo sharedDomain.MutationAnalyticsRepository, log *zap.Logger) *AnalyticsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalyticsHandler{repo: repo, now: time.Now, log: log}
}

// DailyMutations endpoint GET /analytics/mutations?from=YYYY-MM-DD&to=YYYY-MM-DD.
// Sin parámetros devuelve los últimos 7 días.
func (h *AnalyticsHandler) DailyMutations(c *gin.Context) {
	today := h.now().UTC().Truncate(24 * time.Hour)
	start, end := today.AddDate(0, 0, -6), today

	var err error
	if s := c.Query("from"); s != "" {
		if start, err = time.Parse(dayLayout, s); err != nil {
			utils.SendBadRequest(c, "invalid from date, expected YYYY-MM-DD")
			return
		}
	}
	if s := c.Query("to"); s != "" {
		if end, err = time.Parse(dayLayout, s); err != nil {
			utils.SendBadRequest(c, "invalid to date, expected YYYY-MM-DD")
			return
		}
	}
	if end.Before(start) || end.Sub(start) > MaxAnalyticsRange {
		utils.SendBadRequest(c, "invalid date range")
		return
	}

	rows, err := h.repo.GetDailyMutations(c.Request.Context(), start, end.Add(24*time.Hour))
	if err != nil {
		h.log.Error("Failed to read mutation analytics", zap.Error(err))
		utils.SendInternalServerError(c, "failed to read analytics")
		return
	}

	out := make([]dailyMutationsResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dailyMutationsResponse{Day: r.Day.Format(dayLayout), Aggregate: r.Aggregate, Count: r.Count})
	}
	utils.SendSuccess(c, http.StatusOK, out)
}

// RegisterAnalyticsRoutes registra las rutas bajo "/analytics".
func RegisterAnalyticsRoutes(r *gin.RouterGroup, handler *AnalyticsHandler) {
	analytics := r.Group("/analytics")
	{
		analytics.GET("/mutations", handler.DailyMutations)
	}
}
