// Package rbac gates routes on the caller's role.
//
// A Gate lists the roles allowed through. The admin role passes every gate
// regardless of the list: administrators are fully trusted and no gate can
// exclude them. Any other caller passes only when its role is listed;
// otherwise Check returns a *ForbiddenError naming both the required roles
// and the caller's role.
//
// The role is read from the request context, where the session middleware
// places it after re-resolving the caller's account.
//
//	r.With(rbac.Middleware(rbac.Require("doctor"), renderErr)).Post("/schedule", h)
package rbac
