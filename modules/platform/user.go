package platform

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/metriclab/platformkit/pkg/authn"
	"github.com/metriclab/platformkit/pkg/directory"
	"github.com/metriclab/platformkit/pkg/session"
)

type signupRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
	Type      string `json:"type"`
}

func toUserResponse(user *directory.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsActive:  user.IsActive,
		Type:      user.Type,
	}
}

// handleSignup creates a user and binds a fresh session to it. The new
// session id is returned as a bearer in the Authorization response header
// so the client is signed in immediately.
func handleSignup(users *directory.UserRepository, sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Email == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		user, err := users.Create(r.Context(), directory.CreateUserInput{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Password:  req.Password,
		})
		if err != nil {
			respondStoreError(w, err)
			return
		}

		sess, err := sessions.Create(r.Context(), &user.ID)
		if err != nil {
			// The user exists but could not be signed in; the client can
			// still authenticate later.
			respondJSON(w, http.StatusCreated, toUserResponse(user))
			return
		}

		w.Header().Set("Authorization", "Bearer "+sess.ID)
		respondJSON(w, http.StatusCreated, toUserResponse(user))
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin verifies a credential pair and binds a fresh session to the
// user. Wrong email, wrong password, and a deactivated account all produce
// the same response.
func handleLogin(users *directory.UserRepository, sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		user, err := users.GetByEmail(r.Context(), req.Email)
		if err != nil || !user.IsActive ||
			bcrypt.CompareHashAndPassword([]byte(user.CredentialHash), []byte(req.Password)) != nil {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		sess, err := sessions.Create(r.Context(), &user.ID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Authorization", "Bearer "+sess.ID)
		respondJSON(w, http.StatusOK, toUserResponse(user))
	}
}

// handleLogout revokes the current session. The bearer stops resolving
// immediately.
func handleLogout(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if err := sessions.Revoke(r.Context(), sess.ID); err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleProfile returns the authenticated user from the request context.
func handleProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := authn.UserFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		respondJSON(w, http.StatusOK, toUserResponse(user))
	}
}
