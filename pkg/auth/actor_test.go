package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storyhub/entities"
)

func TestActorRoles(t *testing.T) {
	admin := FromUser(&entities.User{UserID: 1, Username: "root", Roles: []string{entities.RoleAdmin}})
	tr := Actor{UserID: 2, Roles: []string{entities.RoleTranslator}}
	reader := Actor{UserID: 3}
	anon := Actor{Roles: []string{entities.RoleAdmin}}

	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.IsTranslator())
	assert.False(t, tr.IsAdmin())
	assert.True(t, tr.IsTranslator())
	assert.False(t, reader.IsStaff())
	assert.True(t, reader.Authenticated())
	assert.False(t, anon.IsAdmin(), "roles without a user id do not count")
}
