package transition_request

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
	transitionRequest "github.com/m04kA/SMC-TrainingService/internal/usecase/transition_request"
	"github.com/m04kA/SMC-TrainingService/pkg/logger"
)

type stubUseCase struct {
	got  *transitionRequest.Request
	resp *transitionRequest.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *transitionRequest.Request) (*transitionRequest.Response, error) {
	s.got = req
	return s.resp, s.err
}

func serve(t *testing.T, uc *stubUseCase, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/requests/{requestId}/transitions", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "11")
	req.Header.Set(middleware.HeaderUserRole, "trainer")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func acceptedResponse() *transitionRequest.Response {
	price := decimal.NewFromInt(850)
	req := &domain.TrainingRequest{ID: 5, TrainingID: 7, TrainerID: 11, State: domain.Accepted(), CounterPrice: &price, Version: 3}
	training := &domain.Training{ID: 7, CompanyID: 42, DailyRate: decimal.NewFromInt(800), Status: domain.TrainingStatusPublished}
	return &transitionRequest.Response{Request: req, Training: training, DeclinedSiblings: []int64{6, 8}}
}

func TestHandleSuccess(t *testing.T) {
	uc := &stubUseCase{resp: acceptedResponse()}

	rec := serve(t, uc, "/requests/5/transitions", `{"action":"counter","price":"850.00","expectedVersion":2}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(5), uc.got.RequestID)
	assert.Equal(t, domain.ActionCounter, uc.got.Action)
	assert.Equal(t, domain.Principal{ID: 11, Role: domain.PartyTrainer}, uc.got.Principal)
	assert.True(t, uc.got.Price.Equal(decimal.NewFromInt(850)))
	assert.Equal(t, int64(2), *uc.got.ExpectedVersion)

	var body struct {
		Request struct {
			Status     string `json:"status"`
			FinalPrice string `json:"finalPrice"`
			Version    int64  `json:"version"`
		} `json:"request"`
		DeclinedSiblings []int64 `json:"declinedSiblings"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "accepted", body.Request.Status)
	assert.Equal(t, "850.00", body.Request.FinalPrice)
	assert.Equal(t, []int64{6, 8}, body.DeclinedSiblings)
}

func TestHandleBadInput(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "bad id", path: "/requests/abc/transitions", body: `{"action":"accept"}`},
		{name: "unknown action", path: "/requests/5/transitions", body: `{"action":"steal"}`},
		{name: "counter without price", path: "/requests/5/transitions", body: `{"action":"counter"}`},
		{name: "price with accept", path: "/requests/5/transitions", body: `{"action":"accept","price":"10"}`},
		{name: "unknown field", path: "/requests/5/transitions", body: `{"action":"accept","foo":1}`},
		{name: "broken json", path: "/requests/5/transitions", body: `{"action":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := serve(t, uc, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandleErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: transitionRequest.ErrRequestNotFound, want: http.StatusNotFound},
		{name: "not a party", err: transitionRequest.ErrAccessDenied, want: http.StatusForbidden},
		{name: "terminal", err: domain.ErrTerminalState, want: http.StatusConflict},
		{name: "not allowed now", err: domain.ErrInvalidState, want: http.StatusConflict},
		{name: "slot taken", err: transitionRequest.ErrSlotTaken, want: http.StatusConflict},
		{name: "slot held", err: transitionRequest.ErrSlotHeld, want: http.StatusConflict},
		{name: "stale", err: transitionRequest.ErrStaleVersion, want: http.StatusConflict},
		{name: "domain validation", err: domain.ErrValidation, want: http.StatusBadRequest},
		{name: "internal", err: transitionRequest.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &stubUseCase{err: tt.err}, "/requests/5/transitions", `{"action":"decline"}`)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
