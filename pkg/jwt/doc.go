// Package jwt signs and verifies HS256 tokens on top of
// github.com/golang-jwt/jwt/v5 and maps that library's errors onto a small
// set of sentinels callers can switch on.
//
//	svc, err := jwt.New([]byte(secret))
//	raw, err := svc.Sign(claims)
//	err = svc.Parse(raw, &claims) // ErrExpiredToken, ErrInvalidSignature, ErrInvalidToken
//
// Only HS256 is accepted when parsing, and every token must carry an exp
// claim.
package jwt
