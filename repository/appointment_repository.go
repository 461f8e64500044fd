package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kaushalkumar0001/StressLess/models"

	"gorm.io/gorm"
)

// ErrAppointmentNotFound is returned by DeleteAppointment when nothing was deleted.
var ErrAppointmentNotFound = errors.New("appointment not found")

// AppointmentRepository defines the interface for interacting with appointment data.
type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
	GetAppointmentByID(ctx context.Context, id string) (*models.Appointment, error)
	GetAppointmentsByUserID(ctx context.Context, userID string) ([]*models.Appointment, error)
	DeleteAppointment(ctx context.Context, id string, hardDelete bool) error
}

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new instance of AppointmentRepository.
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

// CreateAppointment creates a new appointment in the database.
func (r *appointmentRepository) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	if appointment == nil {
		log.Printf("ERROR: [AppointmentRepository] CreateAppointment: appointment cannot be nil")
		return errors.New("appointment cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(appointment).Error; err != nil {
		log.Printf("ERROR: [AppointmentRepository] Failed to create appointment for userID %s: %v", appointment.UserID, err)
		return fmt.Errorf("failed to create appointment for userID %s: %w", appointment.UserID, err)
	}
	log.Printf("INFO: [AppointmentRepository] Created appointment ID %s for userID %s with %s at %s.", appointment.ID, appointment.UserID, appointment.DoctorName, appointment.Slot)
	return nil
}

// GetAppointmentByID returns (nil, nil) when the appointment does not exist or was cancelled.
func (r *appointmentRepository) GetAppointmentByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("INFO: [AppointmentRepository] Appointment with ID %s not found.", id)
			return nil, nil
		}
		log.Printf("ERROR: [AppointmentRepository] Failed to retrieve appointment ID %s: %v", id, err)
		return nil, fmt.Errorf("failed to retrieve appointment ID %s: %w", id, err)
	}
	return &appointment, nil
}

// GetAppointmentsByUserID retrieves all appointments for a user, newest first.
func (r *appointmentRepository) GetAppointmentsByUserID(ctx context.Context, userID string) ([]*models.Appointment, error) {
	var appointments []*models.Appointment
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp desc").Find(&appointments).Error
	if err != nil {
		log.Printf("ERROR: [AppointmentRepository] Failed to retrieve appointments for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve appointments for userID %s: %w", userID, err)
	}
	return appointments, nil
}

// DeleteAppointment deletes an appointment by its ID.
func (r *appointmentRepository) DeleteAppointment(ctx context.Context, id string, hardDelete bool) error {
	dbQuery := r.db.WithContext(ctx)
	action := "soft-deleted"
	if hardDelete {
		dbQuery = dbQuery.Unscoped()
		action = "hard-deleted (permanently)"
	}
	tx := dbQuery.Delete(&models.Appointment{}, "id = ?", id)
	if tx.Error != nil {
		log.Printf("ERROR: [AppointmentRepository] Failed to delete appointment ID %s: %v", id, tx.Error)
		return fmt.Errorf("failed to delete appointment ID %s: %w", id, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("delete appointment ID %s: %w", id, ErrAppointmentNotFound)
	}
	log.Printf("INFO: [AppointmentRepository] Successfully %s appointment ID %s.", action, id)
	return nil
}
