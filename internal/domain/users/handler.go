package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func RegisterRoutes(r chi.Router, svc *Service, log *zap.Logger) {
	r.Route("/api/users", func(ur chi.Router) {
		ur.Post("/register", registerHandler(svc, log))
		ur.Post("/login", loginHandler(svc, log))
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse nunca incluye el hash de la contraseña.
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func registerHandler(svc *Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		u, err := svc.Register(r.Context(), RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
		})
		if err != nil {
			var ve ValidationError
			switch {
			case errors.As(err, &ve):
				writeMessage(w, http.StatusBadRequest, ve.Error())
			case errors.Is(err, ErrEmailTaken):
				writeMessage(w, http.StatusBadRequest, "User already exists")
			default:
				log.Error("register failed", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "User registered successfully",
			"newUser": toUserResponse(u),
		})
	}
}

func loginHandler(svc *Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		u, token, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			var ve ValidationError
			switch {
			case errors.As(err, &ve):
				writeMessage(w, http.StatusBadRequest, ve.Error())
			case errors.Is(err, ErrNotFound):
				writeMessage(w, http.StatusUnauthorized, "User not found")
			case errors.Is(err, ErrInvalidCredentials):
				writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
			default:
				log.Error("login failed", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Login successful",
			"token":   token,
			"user":    toUserResponse(u),
		})
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito entre módulos (users/pets);
// todavía no amerita un helper compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
