package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"

	// RoleCreator is never assigned statically; it is derived per request
	// when the user owns the poll the action targets.
	RoleCreator Role = "creator"
)

// User is the authenticated identity attached to a request. It is produced
// by the identity adapter and treated as immutable for the request's
// duration.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
	Role    Role   `json:"role"`
}
