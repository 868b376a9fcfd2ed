package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"agrotec/internal/users"
	"agrotec/pkg/ctxmanage"
	"agrotec/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// Register creates a new account. Every field is required; a duplicate email
// is rejected.
func (h *Handler) Register(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var nu users.NewUser
	if err := c.ShouldBindJSON(&nu); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusBadRequest, "Todos los campos son requeridos")
		return
	}

	if err := h.validate.Struct(nu); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusBadRequest, "Todos los campos son requeridos")
		return
	}

	user, err := h.u.Register(c.Request.Context(), nu)
	if err != nil {
		if errors.Is(err, users.ErrUserExists) {
			fail(c, http.StatusBadRequest, "El usuario ya existe")
			return
		}
		slog.Error("register failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Usuario registrado exitosamente",
		"usuario": gin.H{
			"id":     user.ID,
			"nombre": user.Name,
			"rol":    user.Role,
		},
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login checks the credentials against the usuarios collection. Wrong
// credentials and inactive accounts fail the same way.
func (h *Handler) Login(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusBadRequest, "Email y contraseña son requeridos")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		fail(c, http.StatusBadRequest, "Email y contraseña son requeridos")
		return
	}

	user, err := h.u.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, "Credenciales incorrectas")
			return
		}
		slog.Error("login failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login exitoso",
		"usuario": gin.H{
			"id":     user.ID,
			"nombre": user.Name,
			"email":  user.Email,
			"rol":    user.Role,
		},
	})
}

// ListUsers returns every account, passwords stripped.
func (h *Handler) ListUsers(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	all, err := h.u.List(c.Request.Context())
	if err != nil {
		slog.Error("list users failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		fail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"usuarios": all})
}
