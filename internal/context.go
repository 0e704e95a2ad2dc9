package internal

import (
	"context"
	"strings"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// Role names recognised by the dashboard.
const (
	RoleBusinessController = "Business Controller"
	RoleChangeLead         = "Change Lead"
	RoleManagerChange      = "Manager Change"
	RoleAdmin              = "Admin"
)

// User is the authenticated caller carried through request contexts.
type User struct {
	ID    int64    `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// HasRole reports role membership, ignoring case and surrounding whitespace.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	want := strings.TrimSpace(role)
	for _, r := range u.Roles {
		if strings.EqualFold(strings.TrimSpace(r), want) {
			return true
		}
	}
	return false
}

func UserFromContext(ctx context.Context) (*User, bool) {
	if ctx == nil {
		return nil, false
	}
	user, ok := ctx.Value(ContextUserKey).(*User)
	return user, ok && user != nil
}

func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, user)
}
