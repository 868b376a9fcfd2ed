package users

import "time"

const (
	RoleFarmer = "agricultor"
	RoleClient = "cliente"
	RoleAdmin  = "administrador"
)

// User is an account record as stored in the usuarios collection. Password
// is plaintext, matching the documented behavior of the system; omitempty
// keeps it out of every stripped response.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"nombre"`
	Email        string    `json:"email"`
	Password     string    `json:"password,omitempty"`
	Role         string    `json:"rol"`
	RegisteredAt time.Time `json:"fechaRegistro"`
	Active       bool      `json:"activo"`
}

// WithoutPassword returns a copy safe to hand to callers.
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}

type NewUser struct {
	Name     string `json:"nombre" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"rol" validate:"required"`
}
