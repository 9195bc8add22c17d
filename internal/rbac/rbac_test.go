package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckerHas(t *testing.T) {
	c := NewChecker(nil)

	assert.True(t, c.Has("viewer", "question:view"))
	assert.False(t, c.Has("viewer", "question:create"))
	assert.False(t, c.Has("viewer", "import:run"))

	assert.True(t, c.Has("editor", "question:create"))
	assert.True(t, c.Has("editor", "question:delete"))
	assert.True(t, c.Has("editor", "import:run"))
	assert.False(t, c.Has("editor", "user:create"))

	assert.True(t, c.Has("admin", "user:create"))
	assert.True(t, c.Has("admin", "anything:at:all"))

	assert.False(t, c.Has("unknown", "question:view"))
	assert.False(t, c.Has("", "question:view"))
}

func TestCheckerAny(t *testing.T) {
	c := NewChecker(nil)
	assert.True(t, c.Any("viewer", "asset:view", "question:view"))
	assert.False(t, c.Any("viewer", "asset:create", "import:run"))
}

func TestRequireMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := Require("question:create")(ok)

	cases := []struct {
		role string
		want int
	}{
		{"editor", http.StatusNoContent},
		{"admin", http.StatusNoContent},
		{"viewer", http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/questions", nil)
		if tc.role != "" {
			req = req.WithContext(WithRole(req.Context(), tc.role))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, "role %q", tc.role)
	}
}

func TestRequireAnyMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireAny("asset:view", "question:view")(ok)

	req := httptest.NewRequest(http.MethodGet, "/assets/x", nil)
	req = req.WithContext(WithRole(req.Context(), "viewer"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
