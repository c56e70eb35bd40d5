package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	h "eventhubconnect/internal/delivery/http/helpers"
	"eventhubconnect/internal/delivery/http/middleware"
	"eventhubconnect/internal/domain"
)

// GenerateCertificateRequest is the request body for POST /registrations/{registrationID}/certificate.
// SpeakerSignatureURL optionally stamps a speaker signature onto the certificate.
type GenerateCertificateRequest struct {
	SpeakerSignatureURL string `json:"speaker_signature_url"`
}

// AttendanceResponse is the payload for POST /registrations/{registrationID}/attendance.
type AttendanceResponse struct {
	Marked bool `json:"marked"`
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{Logger: logger, Service: svc}
}

func (c *RegistrationController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
}

func (c *RegistrationController) writeRegErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrRegistrationNotFound),
		errors.Is(err, domain.ErrCertificateNotFound),
		errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrEventNotOpen),
		errors.Is(err, domain.ErrDuplicateRegistration),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrAlreadyAttended),
		errors.Is(err, domain.ErrAttendanceRequired),
		errors.Is(err, domain.ErrCertificateAlreadyIssued):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	default:
		c.internalError(w, r, err)
	}
}

// Register godoc
// @Summary Register for an event
// @Description Registers the authenticated user for a published event with remaining capacity.
// @Tags registrations
// @Produce json
// @Security SessionCookie
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} helpers.APIResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not published, already registered, or full)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/register [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	reg, err := c.Service.Register(r.Context(), eventID, userID)
	if err != nil {
		c.writeRegErr(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Removes the authenticated user's registration for the event. Not allowed after attendance has been marked.
// @Tags registrations
// @Produce json
// @Security SessionCookie
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "registration cancelled"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already attended)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/register [delete]
func (c *RegistrationController) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	if err := c.Service.CancelRegistration(r.Context(), eventID, userID); err != nil {
		c.writeRegErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMine godoc
// @Summary List the authenticated user's registrations
// @Description Each registration comes with its event.
// @Tags registrations
// @Produce json
// @Security SessionCookie
// @Success 200 {object} helpers.APIResponse "data contains registrations with events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/me [get]
func (c *RegistrationController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	regs, err := c.Service.ListMyRegistrations(r.Context(), userID)
	if err != nil {
		c.writeRegErr(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, regs)
}

// ListForEvent godoc
// @Summary List an event's registrations
// @Description Admin and speaker only. Includes attendee display fields.
// @Tags registrations
// @Produce json
// @Security SessionCookie
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains registrations with attendees"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [get]
func (c *RegistrationController) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	regs, err := c.Service.ListEventRegistrations(r.Context(), eventID)
	if err != nil {
		c.writeRegErr(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, regs)
}

// MarkAttendance godoc
// @Summary Mark attendance on a registration
// @Description Admin and speaker only. Responds with marked=false when no such registration exists. Re-marking overwrites the attendance timestamp.
// @Tags registrations
// @Produce json
// @Security SessionCookie
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains {marked}"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/attendance [post]
func (c *RegistrationController) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := pathUUID(w, r, "registrationID")
	if !ok {
		return
	}
	marked, err := c.Service.MarkAttendance(r.Context(), registrationID)
	if err != nil {
		c.writeRegErr(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, AttendanceResponse{Marked: marked})
}

// GenerateCertificate godoc
// @Summary Issue the attendance certificate for a registration
// @Description Admin and speaker only. Requires marked attendance; a registration gets at most one certificate.
// @Tags certificates
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param registrationID path string true "Registration ID (UUID)"
// @Param body body GenerateCertificateRequest false "Optional speaker signature"
// @Success 201 {object} helpers.APIResponse "data contains the certificate"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (attendance not marked, or already issued)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/certificate [post]
func (c *RegistrationController) GenerateCertificate(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := pathUUID(w, r, "registrationID")
	if !ok {
		return
	}
	// The body is optional for callers that have no signature to attach.
	var req GenerateCertificateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !h.DecodeAndValidate(w, r, &req) {
			return
		}
	}
	cert, err := c.Service.GenerateCertificate(r.Context(), registrationID, req.SpeakerSignatureURL)
	if err != nil {
		c.writeRegErr(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, cert)
}

// GetCertificate godoc
// @Summary Get the certificate for a registration
// @Description Only the registration's owner or an admin may read it.
// @Tags certificates
// @Produce json
// @Security SessionCookie
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the certificate"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/certificate [get]
func (c *RegistrationController) GetCertificate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	registrationID, ok := pathUUID(w, r, "registrationID")
	if !ok {
		return
	}
	reg, err := c.Service.GetRegistration(r.Context(), registrationID)
	if err != nil {
		c.writeRegErr(w, r, err)
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	if reg.UserID != userID && role != domain.RoleAdmin {
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
		return
	}
	cert, err := c.Service.GetCertificateByRegistration(r.Context(), registrationID)
	if err != nil {
		c.writeRegErr(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, cert)
}

// DownloadCertificate godoc
// @Summary Download a certificate PDF
// @Tags certificates
// @Produce application/pdf
// @Security SessionCookie
// @Param certificateID path string true "Certificate ID (UUID)"
// @Success 200 {file} binary "the certificate PDF"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /certificates/{certificateID}/download [get]
func (c *RegistrationController) DownloadCertificate(w http.ResponseWriter, r *http.Request) {
	certificateID, ok := pathUUID(w, r, "certificateID")
	if !ok {
		return
	}
	cert, pdf, err := c.Service.DownloadCertificate(r.Context(), certificateID)
	if err != nil {
		c.writeRegErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cert.SerialNumber+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
