package auth

import "github.com/pritamgurung97/Adverts-Nepal/internal/users"

// Identity is the caller of a request, resolved once from the session
// cookie. The zero value is the anonymous identity.
type Identity struct {
	ID            uint
	Name          string
	Email         string
	Role          users.Role
	SessionID     string
	Authenticated bool
}

var Anonymous = Identity{}

func (i Identity) IsAdmin() bool {
	return IsAdmin(i)
}

// IsAdmin reports whether id may perform administrator actions.
func IsAdmin(id Identity) bool {
	return id.Authenticated && id.Role == users.RoleAdmin
}

// IsOwner reports whether id is the authenticated owner of a resource.
func IsOwner(id Identity, ownerID uint) bool {
	return id.Authenticated && ownerID != 0 && id.ID == ownerID
}
