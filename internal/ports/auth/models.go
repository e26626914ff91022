package auth

// Identity representa al usuario resuelto a partir del token.
type Identity struct {
	UserID   string
	Username string
	Email    string
	Role     string
}
