// Package tokenpkg verifies and creates access tokens issued by the
// identity system.
package tokenpkg

import "time"

// Maker is an interface for managing tokens.
type Maker interface {
	// CreateToken creates a new token for the given account and duration.
	CreateToken(accountID int32, role string, duration time.Duration) (string, *Payload, error)

	// VerifyToken checks if the token is valid or not.
	VerifyToken(token string) (*Payload, error)
}
