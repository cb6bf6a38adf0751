// Package auth carries the caller identity into every workflow operation.
package auth

import (
	"slices"

	"storyhub/entities"
)

// Actor is the authenticated caller with its role set. The zero value is anonymous.
type Actor struct {
	UserID   uint     `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func FromUser(u *entities.User) Actor {
	return Actor{UserID: u.UserID, Username: u.Username, Roles: slices.Clone(u.Roles)}
}

func (a Actor) Authenticated() bool { return a.UserID != 0 }

func (a Actor) HasRole(role string) bool {
	return a.Authenticated() && slices.Contains(a.Roles, role)
}

func (a Actor) IsAdmin() bool { return a.HasRole(entities.RoleAdmin) }

// IsTranslator also holds for admins.
func (a Actor) IsTranslator() bool {
	return a.HasRole(entities.RoleTranslator) || a.IsAdmin()
}

// IsStaff is true for anyone allowed to see unpublished stories.
func (a Actor) IsStaff() bool { return a.IsTranslator() }
