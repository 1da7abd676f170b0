package create_requests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TrainingService/internal/api/middleware"
	"github.com/m04kA/SMC-TrainingService/internal/domain"
	createRequests "github.com/m04kA/SMC-TrainingService/internal/usecase/create_requests"
	"github.com/m04kA/SMC-TrainingService/pkg/logger"
)

type stubUseCase struct {
	got  *createRequests.Request
	resp *createRequests.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *createRequests.Request) (*createRequests.Response, error) {
	s.got = req
	return s.resp, s.err
}

func serve(uc *stubUseCase, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/trainings/{trainingId}/requests", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/trainings/7/requests", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "42")
	req.Header.Set(middleware.HeaderUserRole, "company")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleCreated(t *testing.T) {
	training := &domain.Training{ID: 7, CompanyID: 42, DailyRate: decimal.NewFromInt(800), Status: domain.TrainingStatusPublished}
	uc := &stubUseCase{resp: &createRequests.Response{
		TrainingID: 7,
		Training:   training,
		Created:    []*domain.TrainingRequest{{ID: 1, TrainingID: 7, TrainerID: 11, State: domain.Pending(domain.PartyNone), Version: 1}},
		Duplicates: []int64{12},
	}}

	rec := serve(uc, `{"trainerIds":[11,12]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []int64{11, 12}, uc.got.TrainerIDs)
	assert.Equal(t, domain.Principal{ID: 42, Role: domain.PartyCompany}, uc.got.Principal)

	var body CreateRequestsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Created, 1)
	assert.Equal(t, "pending", body.Created[0].Status)
	assert.Equal(t, "800.00", body.Created[0].FinalPrice)
	assert.Equal(t, []int64{12}, body.Duplicates)
}

func TestHandleRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{name: "empty list", body: `{"trainerIds":[]}`, want: http.StatusBadRequest},
		{name: "non-positive id", body: `{"trainerIds":[0]}`, want: http.StatusBadRequest},
		{name: "unknown trainer", body: `{"trainerIds":[11]}`, err: createRequests.ErrTrainerNotFound, want: http.StatusNotFound},
		{name: "foreign training", body: `{"trainerIds":[11]}`, err: createRequests.ErrAccessDenied, want: http.StatusForbidden},
		{name: "closed training", body: `{"trainerIds":[11]}`, err: createRequests.ErrTrainingClosed, want: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
