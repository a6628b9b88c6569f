package model

// Scope identifies the caller of a use case. Identity is issued upstream;
// the service only receives the user id.
type Scope struct {
	UserID string
}
