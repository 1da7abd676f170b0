package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		role       string
		wantStatus int
		want       domain.Principal
	}{
		{name: "trainer", userID: "11", role: "trainer", wantStatus: http.StatusOK, want: domain.Principal{ID: 11, Role: domain.PartyTrainer}},
		{name: "company upper case", userID: "42", role: "COMPANY", wantStatus: http.StatusOK, want: domain.Principal{ID: 42, Role: domain.PartyCompany}},
		{name: "missing id", role: "trainer", wantStatus: http.StatusUnauthorized},
		{name: "negative id", userID: "-1", role: "trainer", wantStatus: http.StatusUnauthorized},
		{name: "unknown role", userID: "11", role: "admin", wantStatus: http.StatusUnauthorized},
		{name: "system role", userID: "11", role: "system", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = GetPrincipal(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(HeaderUserID, tt.userID)
			req.Header.Set(HeaderUserRole, tt.role)
			rec := httptest.NewRecorder()

			Auth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}
