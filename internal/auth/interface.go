package auth

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are the claims carried by a console access token.
type AdminClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier defines the interface for access token verification.
// This abstraction keeps the middleware agnostic to whether tokens are
// checked against a shared secret or a remote JWKS.
type Verifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*AdminClaims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}
