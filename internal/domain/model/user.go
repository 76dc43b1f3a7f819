package model

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Image     string `json:"image,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
