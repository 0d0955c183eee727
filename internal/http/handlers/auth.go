package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"libraryhub/internal/auth"
	"libraryhub/internal/config"
	"libraryhub/internal/domain/user"
	"libraryhub/internal/repo/postgres"
	"libraryhub/internal/security"

	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, username, passwordHash, email, role string) (user.User, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        *auth.Manager
	log        *slog.Logger
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwtManager *auth.Manager, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwtManager,
		log:        log,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=60"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required,oneof=user admin"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Registration failed")
		return
	}

	_, err = h.userWriter.Create(cctx, req.Username, hash, req.Email, req.Role)

	if err != nil {
		// A taken username is logged but deliberately not distinguished in
		// the response, so registration cannot be used to probe usernames.
		if errors.Is(err, postgres.ErrUsernameTaken) {
			h.log.Warn("registration rejected", "cause", "username_taken")
		} else {
			h.log.Error("registration failed", "err", err)
		}

		RespondInternal(ctx, "Registration failed")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByUsername(cctx, req.Username)
	if err != nil {
		// identical response for unknown username and wrong password
		RespondUnAuthorized(ctx, "authentication_failed", "Authentication failed")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnAuthorized(ctx, "authentication_failed", "Authentication failed")
		return
	}

	token, err := h.jwt.Issue(foundUser.ID, foundUser.Role)

	if err != nil {
		RespondInternal(ctx, "Login failed")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}
