package users

import "time"

// User representa una cuenta del sistema.
// El rol es un tag libre; no se aplica autorización por rol en este core.
type User struct {
	ID       string
	Username string
	Email    string

	// Hash bcrypt; nunca se guarda ni se responde la contraseña plana.
	PasswordHash string

	Role string

	CreatedAt time.Time
	UpdatedAt time.Time
}
