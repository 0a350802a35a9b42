package testutil

import (
	"context"
	"net/http"

	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Student returns an admitted account for handler tests.
func Student() models.Account {
	return models.Account{ID: "uid-student", Email: "student@srmist.edu.in", DisplayName: "Test Student"}
}

// OtherStudent returns a second admitted account, distinct from Student.
func OtherStudent() models.Account {
	return models.Account{ID: "uid-other", Email: "other@srmist.edu.in", DisplayName: "Other Student"}
}

// WithAccount puts acct in the request context, bypassing the session
// middleware.
func WithAccount(r *http.Request, acct models.Account) *http.Request {
	return auth.WithTestAccount(r, &acct)
}

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	return WithChiURLParams(r, map[string]string{key: value})
}

// WithChiURLParams adds several chi URL parameters at once.
func WithChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
