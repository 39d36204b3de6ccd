// Package clientip determines the caller's address for rate-limit keys and
// for the ipInfo block returned on login.
//
// Forwarding headers are honoured only when the resolver is told the service
// sits behind a trusted proxy; otherwise the TCP peer address is used, since
// a direct client can put anything in X-Forwarded-For.
package clientip
