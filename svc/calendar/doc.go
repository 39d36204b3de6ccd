// Package calendar holds the delegated Google Calendar credential and
// creates consultation events with it.
//
// A Manager moves between three states. Without a client id and secret it
// is StateUnconfigured and every operation fails with ErrNotConfigured. A
// configured manager without a usable token is StateConfiguredNoToken until
// Exchange stores one, at which point it becomes StateDelegated. A token
// that expires with no refresh token drops the manager back to
// StateConfiguredNoToken.
//
//	m := calendar.New(cfg, calendar.WithLogger(log))
//	http.Redirect(w, r, m.AuthURL(), http.StatusFound)
//	// ... on callback
//	tok, err := m.Exchange(ctx, code)
//	ev, err := m.CreateEvent(ctx, calendar.EventRequest{SubjectName: "Jane Doe", ...})
package calendar
