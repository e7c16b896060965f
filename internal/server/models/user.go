// Package models holds the persisted entities of the server.
package models

// User is one credential record. Name is immutable once created. PassHash is
// a self-describing encoded argon2id string. TokenVersion starts at zero and
// only ever increases; incrementing it invalidates every outstanding token
// issued to the user.
type User struct {
	Name         string
	PassHash     string
	TokenVersion uint32
}
