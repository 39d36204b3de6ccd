package environment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nutricare/authcore/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]environment.Environment{
		"development": environment.Development,
		"DEV":         environment.Development,
		" local ":     environment.Development,
		"stage":       environment.Staging,
		"staging":     environment.Staging,
		"production":  environment.Production,
		"":            environment.Production,
		"qa":          environment.Production,
	}
	for in, want := range tests {
		assert.Equal(t, want, environment.Parse(in), "input %q", in)
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, environment.Production, environment.FromContext(context.Background()))

	ctx := environment.WithContext(context.Background(), environment.Development)
	assert.True(t, environment.FromContext(ctx).IsDevelopment())
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got environment.Environment
	h := environment.Middleware(environment.Staging)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = environment.FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, environment.Staging, got)
}
