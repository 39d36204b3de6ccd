// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a Context and a request value already decoded by
// the configured binders, and returns a Response:
//
//	type loginRequest struct {
//		Email    string `json:"email"`
//		Password string `json:"password"`
//	}
//
//	func (h *Handler) login(ctx handler.Context, req loginRequest) handler.Response {
//		tok, err := h.svc.Login(ctx, req.Email, req.Password)
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.JSON(tok)
//	}
//
//	r.Post("/login", handler.Wrap(h.login,
//		handler.WithBinders[handler.Context, loginRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, loginRequest](handler.NewErrorHandler(log)),
//	))
//
// Binding failures, Error responses and render failures all reach the
// ErrorHandler. The default one translates the error through core.Translate
// and writes the JSON error envelope. Middleware that cannot return a
// Response uses ErrorRenderer for the same envelope.
package handler
