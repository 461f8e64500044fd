package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/kaushalkumar0001/StressLess/models"
	"github.com/kaushalkumar0001/StressLess/repository"
)

// AppointmentService books and cancels counsellor sessions.
type AppointmentService interface {
	BookAppointment(ctx context.Context, userID, doctorName, slot string) (*models.Appointment, error)
	GetAppointments(ctx context.Context, userID string) ([]*models.Appointment, error)
	CancelAppointment(ctx context.Context, userID, appointmentID string) error
}

type appointmentService struct {
	repo repository.AppointmentRepository
}

// NewAppointmentService creates a new instance of AppointmentService.
func NewAppointmentService(repo repository.AppointmentRepository) AppointmentService {
	return &appointmentService{repo: repo}
}

// BookAppointment records a session with doctorName at slot.
func (s *appointmentService) BookAppointment(ctx context.Context, userID, doctorName, slot string) (*models.Appointment, error) {
	if userID == "" {
		log.Printf("WARN: [AppointmentService] BookAppointment called with empty userID.")
		return nil, errors.New("userID cannot be empty")
	}
	doctorName, slot = strings.TrimSpace(doctorName), strings.TrimSpace(slot)
	if doctorName == "" || slot == "" {
		return nil, fmt.Errorf("%w: doctorName and slot are required", ErrContractViolation)
	}

	appointment := &models.Appointment{UserID: userID, DoctorName: doctorName, Slot: slot}
	if err := s.repo.CreateAppointment(ctx, appointment); err != nil {
		errMsg := fmt.Sprintf("failed to book appointment for userID %s", userID)
		log.Printf("ERROR: [AppointmentService] %s: %v", errMsg, err)
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return appointment, nil
}

// GetAppointments lists the user's appointments, newest first.
func (s *appointmentService) GetAppointments(ctx context.Context, userID string) ([]*models.Appointment, error) {
	appointments, err := s.repo.GetAppointmentsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointments for userID %s: %w", userID, err)
	}
	return appointments, nil
}

// CancelAppointment soft-deletes one of the user's appointments.
func (s *appointmentService) CancelAppointment(ctx context.Context, userID, appointmentID string) error {
	appointment, err := s.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("failed to get appointment %s: %w", appointmentID, err)
	}
	if appointment == nil {
		return fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
	}
	if appointment.UserID != userID {
		log.Printf("WARN: [AppointmentService] UserID '%s' attempted to cancel appointment %s of another user.", userID, appointmentID)
		return fmt.Errorf("appointment %s: %w", appointmentID, ErrForbidden)
	}
	if err := s.repo.DeleteAppointment(ctx, appointmentID, false); err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
		}
		return fmt.Errorf("failed to cancel appointment %s: %w", appointmentID, err)
	}
	log.Printf("INFO: [AppointmentService] UserID '%s' cancelled appointment %s.", userID, appointmentID)
	return nil
}
