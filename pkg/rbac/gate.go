package rbac

import (
	"context"
	"net/http"
	"slices"
)

// RoleAdmin passes every gate.
const RoleAdmin = "admin"

// Gate is an allow-list of roles.
type Gate struct {
	roles []string
}

// Require returns a gate admitting the given roles (and admin).
func Require(roles ...string) Gate {
	return Gate{roles: slices.Clone(roles)}
}

// Roles returns the listed roles.
func (g Gate) Roles() []string { return slices.Clone(g.roles) }

// Check returns nil when role may pass, otherwise a *ForbiddenError.
func (g Gate) Check(role string) error {
	if role == RoleAdmin || slices.Contains(g.roles, role) {
		return nil
	}
	return &ForbiddenError{Required: g.Roles(), Actual: role}
}

// CheckContext checks the role stored in ctx.
func (g Gate) CheckContext(ctx context.Context) error {
	role, ok := RoleFromContext(ctx)
	if !ok {
		return ErrRoleNotInContext
	}
	return g.Check(role)
}

// ErrorRenderer writes a failed check to the client.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, err error)

// Middleware rejects requests whose context role fails the gate.
func Middleware(g Gate, onError ErrorRenderer) func(http.Handler) http.Handler {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusForbidden)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := g.CheckContext(r.Context()); err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type roleKey struct{}

// WithRole stores role in ctx.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// RoleFromContext returns the stored role.
func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey{}).(string)
	return role, ok && role != ""
}
