package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/services"
	"github.com/planmate/planmate-backend/internal/types"
)

type AuthHandler struct {
	authService services.AuthService
	log         *logger.Logger
}

func NewAuthHandler(authService services.AuthService, baseLog *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         baseLog.With("handler", "AuthHandler"),
	}
}

type registerRequest struct {
	AcademyID string `json:"academy_id" validate:"required,uuid4"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Name      string `json:"name" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=student admin"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondValidation(c, err)
		return
	}
	academyID, err := uuid.Parse(req.AcademyID)
	if err != nil {
		RespondValidation(c, err)
		return
	}

	user := &types.User{
		AcademyID: academyID,
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		Role:      req.Role,
	}
	if err := h.authService.RegisterUser(c.Request.Context(), user); err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondCreated(c, gin.H{"id": user.ID})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondValidation(c, err)
		return
	}
	accessToken, refreshToken, err := h.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(h.authService.GetAccessTTL().Seconds()),
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	accessToken, refreshToken, err := h.authService.RefreshUser(c.Request.Context())
	if err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(h.authService.GetAccessTTL().Seconds()),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.LogoutUser(c.Request.Context()); err != nil {
		RespondError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"logged_out": true})
}
