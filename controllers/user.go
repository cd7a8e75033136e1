package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"secure-shop/audit"
	"secure-shop/models"
	"secure-shop/store"
)

// Audit action tags emitted by the authentication surface.
const (
	ActionUserRegister = "USER_REGISTER"
	ActionLogin        = "LOGIN"
	ActionLoginAttempt = "LOGIN_ATTEMPT"
)

// UserController handles registration, login, and profile requests.
type UserController struct {
	Users    *store.UserStore
	Recorder *audit.Recorder
	// GenerateToken is swappable for tests; defaults to utils.GenerateJWT.
	GenerateToken func(userID, email, role string) (string, error)
}

// NewUserController creates a new UserController.
func NewUserController(users *store.UserStore, recorder *audit.Recorder, generateToken func(userID, email, role string) (string, error)) *UserController {
	return &UserController{Users: users, Recorder: recorder, GenerateToken: generateToken}
}

// Register creates a new account.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		http.Error(w, "Invalid email address", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 6 {
		http.Error(w, "Password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	exists, err := uc.Users.ExistsByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}
	if exists {
		http.Error(w, "User already exists", http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	role := req.Role
	if role == "" {
		role = "user"
	}
	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.Users.Insert(r.Context(), user); err != nil {
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	uc.Recorder.Record(r.Context(), ActionUserRegister, req.Email, audit.StatusSuccess,
		fmt.Sprintf("Role: %s", role), clientIP(r))

	respondJSON(w, http.StatusCreated, map[string]string{
		"id":       user.ID.Hex(),
		"username": user.Username,
		"role":     user.Role,
	})
}

// Login verifies credentials and issues a session token. Failed attempts are
// audited with the address they came from.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := uc.Users.FindByEmail(r.Context(), creds.Email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
		uc.Recorder.Record(r.Context(), ActionLoginAttempt, creds.Email, audit.StatusFailure,
			"Invalid credentials", clientIP(r))
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := uc.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	uc.Recorder.Record(r.Context(), ActionLogin, user.Email, audit.StatusSuccess,
		"User logged in", clientIP(r))

	respondJSON(w, http.StatusOK, map[string]string{"token": token, "role": user.Role})
}

// GetProfile returns the authenticated caller's account, minus credentials.
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	_, claims, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := uc.Users.FindByEmail(r.Context(), claims.Email)
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	user.Password = ""
	respondJSON(w, http.StatusOK, user)
}
