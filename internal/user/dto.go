package user

// MeResponse is the body of GET /users/me.
type MeResponse struct {
	ID    int64    `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

func (u *User) ToMeResponse() MeResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return MeResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Roles: roles,
	}
}
