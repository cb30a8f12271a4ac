package model

import "time"

// User is the persisted registration record for one person, keyed by email.
// QRPNG holds the most recently rendered credential image; re-registration
// replaces the whole row including the image.
type User struct {
	ID            int64
	Name          string
	Email         string
	Phone         string
	DeviceID      string
	PaymentMethod string
	UPIID         string
	LastLogin     time.Time
	QRPNG         []byte
}

// UserSummary is the bulk-listing projection of a User. The image payload is
// deliberately excluded so listing all users stays cheap.
type UserSummary struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	LastLogin time.Time
}
