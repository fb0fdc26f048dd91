package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/domain"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/constants"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/feed"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/store"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/store/mocks"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/service/aggregate"
)

var (
	categories = []*domain.Category{
		{ID: 1, Name: aggregate.CategoryPopulation},
		{ID: 2, Name: aggregate.CategoryGeneralInfo},
	}
	services = []*domain.Service{
		{ID: 10, Name: "Perekaman KTP", CategoryID: 1},
		{ID: 20, Name: "Konsultasi", CategoryID: 2},
	}
)

func newTestAPI(t *testing.T) (*APIService, *mocks.MockStore, *feed.Local) {
	t.Helper()
	st := mocks.NewMockStore(gomock.NewController(t))
	bus := feed.NewLocal()
	svc, err := NewAPIService(st, bus, Options{})
	require.NoError(t, err)
	return svc, st, bus
}

func do(svc *APIService, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) domain.ErrorResponse {
	t.Helper()
	var resp domain.ErrorResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestListServices_DisplayOrder(t *testing.T) {
	svc, st, _ := newTestAPI(t)
	st.EXPECT().ListCategories(gomock.Any()).Return(categories, nil)
	st.EXPECT().ListServices(gomock.Any(), store.ListServicesOpts{}).Return(services, nil)

	rec := do(svc, http.MethodGet, "/api/v1/services", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Service
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, int64(20), got[0].ID)
	assert.Equal(t, int64(10), got[1].ID)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestListServicesByCategory(t *testing.T) {
	svc, st, _ := newTestAPI(t)
	catID := int64(2)
	st.EXPECT().ListServices(gomock.Any(), store.ListServicesOpts{CategoryID: &catID}).Return(services[1:], nil)

	rec := do(svc, http.MethodGet, "/api/v1/categories/2/services", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(svc, http.MethodGet, "/api/v1/categories/abc/services", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSubmission(t *testing.T) {
	t.Run("created and signalled", func(t *testing.T) {
		svc, st, bus := newTestAPI(t)
		signals := 0
		defer bus.Subscribe(func() { signals++ })()

		st.EXPECT().CreateSubmission(gomock.Any(), int64(10), int64(0)).
			Return(&domain.Submission{ID: 7, ServiceID: 10}, nil)

		rec := do(svc, http.MethodPost, "/api/v1/submissions", `{"service_id":10,"count":0}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var got domain.Submission
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, int64(7), got.ID)
		assert.False(t, got.Verified)
		assert.Equal(t, 1, signals)
	})

	t.Run("validation", func(t *testing.T) {
		svc, _, _ := newTestAPI(t)
		for _, body := range []string{
			`{"service_id":10}`,
			`{"service_id":0,"count":1}`,
			`{"service_id":10,"count":-1}`,
			`{"service_id":`,
		} {
			rec := do(svc, http.MethodPost, "/api/v1/submissions", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
			assert.Equal(t, http.StatusBadRequest, decodeError(t, rec).Code, body)
		}
	})

	t.Run("unknown service", func(t *testing.T) {
		svc, st, _ := newTestAPI(t)
		st.EXPECT().CreateSubmission(gomock.Any(), int64(99), int64(1)).Return(nil, constants.ErrUnknownService)

		rec := do(svc, http.MethodPost, "/api/v1/submissions", `{"service_id":99,"count":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, constants.ErrUnknownService.Error(), decodeError(t, rec).Message)
	})
}

func TestMutations(t *testing.T) {
	svc, st, _ := newTestAPI(t)

	count := int64(4)
	st.EXPECT().UpdateSubmission(gomock.Any(), int64(3), store.UpdateSubmissionOpts{Count: &count}).Return(nil)
	st.EXPECT().UpdateSubmission(gomock.Any(), int64(4), gomock.Any()).Return(constants.ErrDBNotFound)
	st.EXPECT().SetVerified(gomock.Any(), int64(3)).Return(nil)
	st.EXPECT().DeleteSubmission(gomock.Any(), int64(3)).Return(nil)
	st.EXPECT().DeleteSubmission(gomock.Any(), int64(5)).Return(constants.ErrDBNotFound)

	assert.Equal(t, http.StatusNoContent, do(svc, http.MethodPut, "/api/v1/submissions/3", `{"count":4}`).Code)
	assert.Equal(t, http.StatusNotFound, do(svc, http.MethodPut, "/api/v1/submissions/4", `{"count":4}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(svc, http.MethodPut, "/api/v1/submissions/3", `{}`).Code)
	assert.Equal(t, http.StatusNoContent, do(svc, http.MethodPost, "/api/v1/submissions/3/verify", "").Code)
	assert.Equal(t, http.StatusNoContent, do(svc, http.MethodDelete, "/api/v1/submissions/3", "").Code)
	assert.Equal(t, http.StatusNotFound, do(svc, http.MethodDelete, "/api/v1/submissions/5", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(svc, http.MethodDelete, "/api/v1/submissions/x", "").Code)
}

func expectLoad(st *mocks.MockStore) {
	st.EXPECT().ListCategories(gomock.Any()).Return(categories, nil)
	st.EXPECT().ListServices(gomock.Any(), gomock.Any()).Return(services, nil)
	st.EXPECT().ListSubmissions(gomock.Any()).Return([]*domain.Submission{
		{ID: 1, ServiceID: 10, Count: 6, Verified: true},
		{ID: 2, ServiceID: 20, Count: 4},
		{ID: 3, ServiceID: 404, Count: 1},
	}, nil)
}

func TestGetDashboard(t *testing.T) {
	svc, st, _ := newTestAPI(t)
	expectLoad(st)

	rec := do(svc, http.MethodGet, "/api/v1/dashboard?view=admin", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		View         string `json:"view"`
		GlobalTotal  int64  `json:"global_total"`
		Unattributed int64  `json:"unattributed"`
		Status       []struct {
			Key   string `json:"key"`
			Value int64  `json:"value"`
		} `json:"status"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp.View)
	assert.Equal(t, int64(11), resp.GlobalTotal)
	assert.Equal(t, int64(1), resp.Unattributed)
	assert.Len(t, resp.Status, 2)

	rec = do(svc, http.MethodGet, "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "public", resp.View)
	assert.Len(t, resp.Status, 3)

	assert.Equal(t, http.StatusBadRequest, do(svc, http.MethodGet, "/api/v1/dashboard?view=root", "").Code)
}

func TestStreamDashboard(t *testing.T) {
	svc, st, _ := newTestAPI(t)
	expectLoad(st)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stream?view=public", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		svc.Handler().ServeHTTP(rec, req)
		close(done)
	}()

	hub := svc.dashboardService.Hub()
	require.Eventually(t, func() bool { return len(hub.Views()) == 1 }, 2*time.Second, time.Millisecond)
	cancel()
	<-done

	assert.Empty(t, hub.Views())
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "event: dashboard\ndata: {"), body)
	assert.Contains(t, body, `"view":"public"`)
}

func TestHealthz(t *testing.T) {
	svc, _, _ := newTestAPI(t)
	rec := do(svc, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetByID(t *testing.T) {
	svc, st, _ := newTestAPI(t)
	st.EXPECT().GetSubmission(gomock.Any(), int64(1)).Return(&domain.Submission{ID: 1, ServiceID: 10, Count: 6}, nil)
	st.EXPECT().GetSubmission(gomock.Any(), int64(2)).Return(nil, constants.ErrDBNotFound)
	st.EXPECT().GetService(gomock.Any(), int64(10)).Return(services[0], nil)

	assert.Equal(t, http.StatusOK, do(svc, http.MethodGet, "/api/v1/submissions/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(svc, http.MethodGet, "/api/v1/submissions/2", "").Code)
	assert.Equal(t, http.StatusOK, do(svc, http.MethodGet, "/api/v1/services/10", "").Code)
}

func TestDashboardDrillDown(t *testing.T) {
	svc, st, _ := newTestAPI(t)
	expectLoad(st)

	rec := do(svc, http.MethodGet, "/api/v1/dashboard/services/20?view=admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats aggregate.ServiceStats
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(4), stats.Total)
	assert.False(t, stats.IsExcluded)
	assert.Equal(t, int64(4), stats.Unverified)

	rec = do(svc, http.MethodGet, "/api/v1/dashboard/services/20?view=public", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats = aggregate.ServiceStats{}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &stats))
	assert.True(t, stats.IsExcluded, "general information services carry no public verification split")
	assert.Zero(t, stats.Unverified)

	rec = do(svc, http.MethodGet, "/api/v1/dashboard/categories/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var total aggregate.CategoryTotal
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &total))
	assert.Equal(t, aggregate.CategoryTotal{ID: 1, Name: aggregate.CategoryPopulation, Total: 6}, total)

	assert.Equal(t, http.StatusNotFound, do(svc, http.MethodGet, "/api/v1/dashboard/categories/9", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(svc, http.MethodGet, "/api/v1/dashboard/services/x", "").Code)
}
