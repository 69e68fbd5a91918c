package service

import (
	"strings"

	"github.com/lalith-99/interskill/internal/models"
)

// Actor is the authenticated caller, taken from the bearer token.
type Actor struct {
	ID   string
	Name string
	Role string
}

func (a Actor) IsAdmin() bool {
	return strings.EqualFold(a.Role, models.RoleAdmin)
}

// Ref snapshots the actor for attribution fields.
func (a Actor) Ref() models.AuthorRef {
	return models.AuthorRef{ID: a.ID, Name: a.Name}
}
