package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"eventhubconnect/internal/domain"
)

type registrationService struct {
	eventRepo    domain.EventRepository
	regRepo      domain.RegistrationRepository
	userRepo     domain.UserRepository
	certRepo     domain.CertificateRepository
	renderer     domain.CertificateRenderer
	store        domain.CertificateStore
	emailService domain.EmailService
	activity     domain.ActivityLogger
	logger       *slog.Logger
	baseURL      string
}

// NewRegistrationService creates the service driving the
// register -> attend -> certificate flow. emailService may be nil.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	regRepo domain.RegistrationRepository,
	userRepo domain.UserRepository,
	certRepo domain.CertificateRepository,
	renderer domain.CertificateRenderer,
	store domain.CertificateStore,
	emailService domain.EmailService,
	activity domain.ActivityLogger,
	logger *slog.Logger,
	baseURL string,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:    eventRepo,
		regRepo:      regRepo,
		userRepo:     userRepo,
		certRepo:     certRepo,
		renderer:     renderer,
		store:        store,
		emailService: emailService,
		activity:     activity,
		logger:       logger,
		baseURL:      baseURL,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status != domain.EventPublished {
		return nil, domain.ErrEventNotOpen
	}

	if _, err := s.regRepo.GetByEventAndUser(ctx, eventID, userID); err == nil {
		return nil, domain.ErrDuplicateRegistration
	} else if !errors.Is(err, domain.ErrRegistrationNotFound) {
		return nil, fmt.Errorf("get registration: %w", err)
	}

	// The count and the insert below are separate statements, so two
	// concurrent registrations at capacity-1 can both pass this check and
	// oversubscribe the event.
	count, err := s.regRepo.CountByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if count >= event.Capacity {
		return nil, domain.ErrCapacityExceeded
	}

	now := time.Now()
	reg := domain.NewRegistration(eventID, userID, now, now)
	if err := s.regRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			return nil, domain.ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.activity.LogActivity(ctx, userID, domain.ActionEventRegister,
		fmt.Sprintf("registered for event %q", event.Title))
	return reg, nil
}

func (s *registrationService) CancelRegistration(ctx context.Context, eventID, userID string) error {
	reg, err := s.regRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return domain.ErrRegistrationNotFound
		}
		return fmt.Errorf("get registration: %w", err)
	}
	if reg.Attended {
		return domain.ErrAlreadyAttended
	}
	if err := s.regRepo.Delete(ctx, reg.ID); err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return domain.ErrRegistrationNotFound
		}
		return fmt.Errorf("delete registration: %w", err)
	}

	s.activity.LogActivity(ctx, userID, domain.ActionEventCancel,
		fmt.Sprintf("cancelled registration for event %s", eventID))
	return nil
}

func (s *registrationService) MarkAttendance(ctx context.Context, registrationID string) (bool, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			// Absent registration is not an error: report false and move on.
			return false, nil
		}
		return false, fmt.Errorf("get registration: %w", err)
	}

	if err := s.regRepo.MarkAttended(ctx, reg.ID, time.Now()); err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("mark attended: %w", err)
	}

	s.activity.LogActivity(ctx, reg.UserID, domain.ActionEventAttendance,
		fmt.Sprintf("attendance marked for event %s", reg.EventID))
	return true, nil
}

func (s *registrationService) GenerateCertificate(ctx context.Context, registrationID, speakerSignatureURL string) (*domain.Certificate, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if !reg.Attended {
		return nil, domain.ErrAttendanceRequired
	}
	if reg.CertificateGenerated {
		return nil, domain.ErrCertificateAlreadyIssued
	}

	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	user, err := s.userRepo.GetByID(ctx, reg.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	now := time.Now()
	serial := uuid.NewString()
	pdf, err := s.renderer.Render(&domain.CertificateData{
		SerialNumber:        serial,
		AttendeeName:        user.Name,
		EventTitle:          event.Title,
		EventDate:           event.EventDate,
		SpeakerSignatureURL: speakerSignatureURL,
		IssuedAt:            now,
	})
	if err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}

	url, err := s.store.Save(ctx, serial+".pdf", pdf)
	if err != nil {
		return nil, fmt.Errorf("store certificate: %w", err)
	}

	cert := &domain.Certificate{
		RegistrationID:      reg.ID,
		SerialNumber:        serial,
		CertificateURL:      url,
		SpeakerSignatureURL: speakerSignatureURL,
		IssuedAt:            now,
	}
	if err := s.certRepo.Create(ctx, cert); err != nil {
		if errors.Is(err, domain.ErrCertificateAlreadyIssued) {
			return nil, domain.ErrCertificateAlreadyIssued
		}
		return nil, fmt.Errorf("create certificate: %w", err)
	}
	if err := s.regRepo.SetCertificate(ctx, reg.ID, url); err != nil {
		return nil, fmt.Errorf("update registration: %w", err)
	}

	if s.emailService != nil {
		data := &domain.CertificateIssuedEmailData{
			Email:        user.Email,
			Name:         user.Name,
			EventTitle:   event.Title,
			SerialNumber: serial,
			DownloadURL:  fmt.Sprintf("%s/certificates/%s/download", s.baseURL, cert.ID),
		}
		if err := s.emailService.SendCertificateIssued(ctx, data); err != nil {
			s.logger.ErrorContext(ctx, "certificate email failed", "registration_id", reg.ID, "err", err)
		}
	}

	s.activity.LogActivity(ctx, reg.UserID, domain.ActionCertificateIssue,
		fmt.Sprintf("certificate issued for event %q", event.Title))
	return cert, nil
}

func (s *registrationService) GetRegistration(ctx context.Context, registrationID string) (*domain.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) GetCertificateByRegistration(ctx context.Context, registrationID string) (*domain.Certificate, error) {
	cert, err := s.certRepo.GetByRegistrationID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrCertificateNotFound) {
			return nil, domain.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return cert, nil
}

func (s *registrationService) DownloadCertificate(ctx context.Context, certificateID string) (*domain.Certificate, []byte, error) {
	cert, err := s.certRepo.GetByID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, domain.ErrCertificateNotFound) {
			return nil, nil, domain.ErrCertificateNotFound
		}
		return nil, nil, fmt.Errorf("get certificate: %w", err)
	}
	pdf, err := s.store.Open(ctx, cert.CertificateURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open certificate artifact: %w", err)
	}
	return cert, pdf, nil
}

func (s *registrationService) ListMyRegistrations(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	regs, err := s.regRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	// Fetch events one by one (N+1). Registration lists per user are small.
	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.RegistrationWithEvent, 0, len(regs))
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrEventNotFound) {
					// Event deleted but registration remains; skip this entry.
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.RegistrationWithEvent{
			Registration: reg,
			Event:        ev,
		})
	}
	return result, nil
}

func (s *registrationService) ListEventRegistrations(ctx context.Context, eventID string) ([]*domain.RegistrationWithUser, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	items, err := s.regRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return items, nil
}
