package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurnalku/jurnalku/internal/session"
)

func TestRequireSession(t *testing.T) {
	sessions := session.New()
	token := sessions.Create("id_1_1", "a@example.com")

	var seenUserID string
	protected := New(sessions).RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "valid token", token: token, wantStatus: http.StatusOK},
		{name: "missing token", token: "", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", token: "sess_0_bogus", wantStatus: http.StatusUnauthorized},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			seenUserID = ""
			request := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
			if test.token != "" {
				request.Header.Set(SessionHeader, test.token)
			}
			recorder := httptest.NewRecorder()

			protected.ServeHTTP(recorder, request)

			require.Equal(t, test.wantStatus, recorder.Code)
			if test.wantStatus == http.StatusOK {
				assert.Equal(t, "id_1_1", seenUserID)
			} else {
				assert.JSONEq(t, `{"error":"unauthorized"}`, recorder.Body.String())
				assert.Empty(t, seenUserID)
			}
		})
	}
}
