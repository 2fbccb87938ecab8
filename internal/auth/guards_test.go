package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pritamgurung97/Adverts-Nepal/internal/users"
)

func TestIsAdmin(t *testing.T) {
	cases := []struct {
		name string
		id   Identity
		want bool
	}{
		{"anonymous", Anonymous, false},
		{"user", Identity{ID: 2, Role: users.RoleUser, Authenticated: true}, false},
		{"admin", Identity{ID: 1, Role: users.RoleAdmin, Authenticated: true}, true},
		{"admin role without session", Identity{ID: 1, Role: users.RoleAdmin}, false},
		{"id one is not enough", Identity{ID: 1, Role: users.RoleUser, Authenticated: true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsAdmin(tc.id))
			assert.Equal(t, tc.want, tc.id.IsAdmin())
		})
	}
}

func TestIsOwner(t *testing.T) {
	owner := Identity{ID: 5, Authenticated: true}

	assert.True(t, IsOwner(owner, 5))
	assert.False(t, IsOwner(owner, 6))
	assert.False(t, IsOwner(Anonymous, 0))
	assert.False(t, IsOwner(Identity{ID: 5}, 5))
}
