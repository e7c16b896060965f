// Package api defines the wire types shared by the HTTP server and client.
package api

// LoginRequest is the POST /login payload. Duration is the requested token
// lifetime in seconds; the server clamps it to its configured maximum.
type LoginRequest struct {
	Name     string `json:"name"`
	Pass     string `json:"pass"`
	Audience string `json:"aud"`
	Duration uint64 `json:"duration"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token string `json:"token"`
}

// UserResponse is the GET /user/{name} payload: the live revocation state,
// never the password hash.
type UserResponse struct {
	Name         string `json:"name"`
	TokenVersion uint32 `json:"token_version"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
