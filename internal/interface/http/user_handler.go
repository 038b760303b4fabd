package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/galeria-app/users-api/internal/application"
	"github.com/galeria-app/users-api/internal/domain/entity"
	repo "github.com/galeria-app/users-api/internal/domain/repository"
	"github.com/galeria-app/users-api/internal/interface/middleware"
	"github.com/galeria-app/users-api/pkg/response"
	"github.com/galeria-app/users-api/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,emailfmt"`
	Password string `json:"password" binding:"required,pwd"`
	FullName string `json:"fullName" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,emailfmt"`
	FullName string `json:"fullName"`
	Bio      string `json:"bio"`
}

type changePasswordRequest struct {
	Username        string `json:"username" binding:"required"`
	CurrentPassword string `json:"currentPassword" binding:"required,pwd"`
	NewPassword     string `json:"newPassword" binding:"required,pwd"`
}

// storeFailure maps non-domain store errors: a bounded timeout becomes 503,
// anything else is an internal error.
func (h *UserHandler) storeFailure(c *gin.Context, op string, err error) {
	if errors.Is(err, repo.ErrTimeout) {
		h.Logger.WithError(err).Warnf("%s: store timeout", op)
		response.Error[any](c, http.StatusServiceUnavailable, "store timeout, try again later", nil)
		return
	}
	h.Logger.WithError(err).Errorf("%s failed", op)
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}

// RegisterPage GET /users/register
func (h *UserHandler) RegisterPage(c *gin.Context) {
	response.Success[any](c, http.StatusOK, nil, "User registration page", nil)
}

// Register POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	h.Logger.WithFields(logrus.Fields{"username": req.Username, "email": req.Email}).Info("registration request")

	u, err := h.Svc.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, userapp.ErrUserExists) {
			h.Logger.WithField("username", req.Username).Warn("user already exists")
			response.Error[any](c, http.StatusBadRequest, "User already exists", nil)
			return
		}
		h.storeFailure(c, "register", err)
		return
	}

	h.Logger.WithField("username", u.Username).Info("user created")
	response.Success(c, http.StatusCreated, u, "User created successfully", nil)
}

// LoginPage GET /users/login
func (h *UserHandler) LoginPage(c *gin.Context) {
	response.Success[any](c, http.StatusOK, nil, "User login page", nil)
}

// Login POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, exp, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrUserNotFound):
			h.Logger.WithField("username", req.Username).Warn("login: user does not exist")
			response.Error[any](c, http.StatusBadRequest, "User does not exist", nil)
		case errors.Is(err, userapp.ErrInvalidCredentials):
			h.Logger.WithField("username", req.Username).Warn("login: incorrect password")
			response.Error[any](c, http.StatusUnauthorized, "Incorrect password", nil)
		default:
			h.storeFailure(c, "login", err)
		}
		return
	}

	h.Logger.WithField("username", u.Username).Info("user logged in")
	response.Success(c, http.StatusOK, gin.H{"token": token, "user": u},
		"User logged in successfully", gin.H{"expires_at": exp})
}

// GetProfile GET /users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	username := c.GetString(middleware.CtxUsernameKey)

	u, err := h.Svc.GetProfile(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "User profile not found", nil)
			return
		}
		h.storeFailure(c, "get profile", err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

// UpdateProfile PUT /users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := entity.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Bio:      req.Bio,
	}
	if in.Empty() {
		response.Error[any](c, http.StatusBadRequest, "At least one field is required for the update", nil)
		return
	}

	email := c.GetString(middleware.CtxEmailKey)
	u, err := h.Svc.UpdateProfile(c.Request.Context(), email, in)
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "User profile not found", nil)
		case errors.Is(err, userapp.ErrUserExists):
			response.Error[any](c, http.StatusBadRequest, "Username or email already taken", nil)
		default:
			h.storeFailure(c, "update profile", err)
		}
		return
	}
	response.Success(c, http.StatusOK, u, "User profile updated successfully", nil)
}

// DeleteProfile DELETE /users/profile
func (h *UserHandler) DeleteProfile(c *gin.Context) {
	username := c.GetString(middleware.CtxUsernameKey)

	if _, err := h.Svc.DeleteProfile(c.Request.Context(), username); err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "User profile not found", nil)
			return
		}
		h.storeFailure(c, "delete profile", err)
		return
	}
	h.Logger.WithField("username", username).Info("user profile deleted")
	response.Success[any](c, http.StatusOK, nil, "User profile deleted successfully", nil)
}

// ChangePassword PUT /users/change-password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	err := h.Svc.ChangePassword(c.Request.Context(), req.Username, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "User not found", nil)
		case errors.Is(err, userapp.ErrInvalidCredentials):
			response.Error[any](c, http.StatusUnauthorized, "Invalid current password", nil)
		default:
			h.storeFailure(c, "change password", err)
		}
		return
	}
	h.Logger.WithField("username", req.Username).Info("password changed")
	response.Success[any](c, http.StatusOK, nil, "Password changed successfully", nil)
}

// UploadProfilePicture POST /users/profile/picture
func (h *UserHandler) UploadProfilePicture(c *gin.Context) {
	fh, err := c.FormFile("picture")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "picture file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read picture file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	uid := c.GetString(middleware.CtxUserIDKey)
	username := c.GetString(middleware.CtxUsernameKey)
	url, err := h.Svc.UploadProfilePicture(c.Request.Context(), uid, username, f,
		fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrStorageDisabled):
			response.Error[any](c, http.StatusServiceUnavailable, "picture storage not configured", nil)
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "User profile not found", nil)
		default:
			h.storeFailure(c, "upload profile picture", err)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profilePicture": url}, "Profile picture updated", nil)
}
