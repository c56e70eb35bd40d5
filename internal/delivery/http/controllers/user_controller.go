package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "eventhubconnect/internal/delivery/http/helpers"
	"eventhubconnect/internal/delivery/http/middleware"
	"eventhubconnect/internal/domain"
)

// UpdateProfileRequest is the request body for PATCH /users/me.
// Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Name              *string `json:"name"`
	Bio               *string `json:"bio"`
	ProfileImageURL   *string `json:"profile_image_url"`
	SignatureImageURL *string `json:"signature_image_url"`
}

// Validate implements helpers.Validator.
func (u UpdateProfileRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	if u.Name == nil && u.Bio == nil && u.ProfileImageURL == nil && u.SignatureImageURL == nil {
		errs = append(errs, "at least one field is required")
	}
	return errs
}

// ChangeRoleRequest is the request body for PATCH /users/{userID}/role.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// Validate implements helpers.Validator.
func (c ChangeRoleRequest) Validate() []string {
	switch c.Role {
	case domain.RoleAdmin, domain.RoleSpeaker, domain.RoleUser:
		return nil
	default:
		return []string{"role must be one of: admin, speaker, user"}
	}
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{Logger: logger, Service: svc}
}

func (c *UserController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security SessionCookie
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [get]
func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update the authenticated user's profile
// @Description Partial update; only the provided fields change.
// @Tags users
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param body body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [patch]
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateProfileRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.UpdateProfile(r.Context(), userID, domain.ProfileUpdate{
		Name:              req.Name,
		Bio:               req.Bio,
		ProfileImageURL:   req.ProfileImageURL,
		SignatureImageURL: req.SignatureImageURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// ChangeRole godoc
// @Summary Change a user's role
// @Description Admin only. Sets the target user's role to admin, speaker, or user.
// @Tags users
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param userID path string true "Target user ID (UUID)"
// @Param body body ChangeRoleRequest true "New role"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/role [patch]
func (c *UserController) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	targetID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	var req ChangeRoleRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.ChangeRole(r.Context(), actorID, targetID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
		case errors.Is(err, domain.ErrUserNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
		case errors.Is(err, domain.ErrInvalidInput):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		default:
			c.internalError(w, r, err)
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}
