package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nfscan/invoice-extract-service/internal/db"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	OrgAlias string `json:"org_alias"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Nome     string `json:"nome"`
	Rol      string `json:"rol"`
	OrgAlias string `json:"org_alias"`
	OrgName  string `json:"org_name"`
}

// LoginHandler handles user authentication
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if req.OrgAlias == "" || req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"org_alias, email and password are required"}`, http.StatusBadRequest)
		return
	}

	if db.Pool == nil {
		http.Error(w, `{"error":"database not configured"}`, http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	query := `SELECT u.id::text, u.email, u.nome, u.rol, u.password_hash, o.alias, o.nome
	          FROM public.usuarios u
	          JOIN public.organizacoes o ON o.id = u.org_id
	          WHERE o.alias = $1 AND u.email = $2 AND u.ativo`

	var userID, email, nome, rol, passwordHash, orgAlias, orgName string
	err := db.Pool.QueryRow(ctx, query, req.OrgAlias, req.Email).Scan(
		&userID, &email, &nome, &rol, &passwordHash, &orgAlias, &orgName,
	)
	if err != nil {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	token, err := GenerateToken(userID, email, orgAlias, orgName, rol)
	if err != nil {
		http.Error(w, `{"error":"failed to generate token"}`, http.StatusInternalServerError)
		return
	}

	// Update last login in background
	go func() {
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		db.Pool.Exec(ctx2, "UPDATE public.usuarios SET last_login = NOW() WHERE id = $1::uuid", userID)
	}()

	json.NewEncoder(w).Encode(LoginResponse{
		Token:    token,
		UserID:   userID,
		Email:    email,
		Nome:     nome,
		Rol:      rol,
		OrgAlias: orgAlias,
		OrgName:  orgName,
	})
}
