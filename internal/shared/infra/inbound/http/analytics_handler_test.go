package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	sharedDomain "github.com/davicafu/makethechange/internal/shared/domain"
	"github.com/davicafu/makethechange/internal/shared/infra/mocks"
)

func newAnalyticsRouter(repo *mocks.MockMutationAnalytics, now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAnalyticsHandler(repo, nil)
	h.now = func() time.Time { return now }
	r := gin.New()
	RegisterAnalyticsRoutes(r.Group("/api/v1"), h)
	return r
}

func TestAnalyticsHandler_DefaultRange(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)
	repo := &mocks.MockMutationAnalytics{}
	repo.On("GetDailyMutations", mock.Anything,
		time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
	).Return([]sharedDomain.DailyMutations{
		{Day: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), Aggregate: "product", Count: 4},
	}, nil)

	w := httptest.NewRecorder()
	newAnalyticsRouter(repo, now).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/mutations", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"day":"2025-06-09","aggregate":"product","count":4}]}`, w.Body.String())
	repo.AssertExpectations(t)
}

func TestAnalyticsHandler_BadRange(t *testing.T) {
	repo := &mocks.MockMutationAnalytics{}
	r := newAnalyticsRouter(repo, time.Now())

	for _, target := range []string{
		"/api/v1/analytics/mutations?from=ayer",
		"/api/v1/analytics/mutations?from=2025-06-10&to=2025-06-01",
		"/api/v1/analytics/mutations?from=2020-01-01&to=2025-01-01",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
	repo.AssertNotCalled(t, "GetDailyMutations", mock.Anything, mock.Anything, mock.Anything)
}
