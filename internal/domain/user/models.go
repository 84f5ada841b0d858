package user

import "time"

// User is the slice of the account subsystem this core needs: an identity
// to own card links and reconciled transactions. Registration, sessions
// and profile management live elsewhere.
type User struct {
	ID        int64
	Phone     string
	Name      string
	Email     *string
	BirthDate *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
