package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kaushalkumar0001/StressLess/models"
	"github.com/kaushalkumar0001/StressLess/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAppointmentService_BookAppointment(t *testing.T) {
	repo := new(MockAppointmentRepository)
	repo.On("CreateAppointment", mock.Anything, mock.MatchedBy(func(a *models.Appointment) bool {
		return a.UserID == "user-1" && a.DoctorName == "Dr. Mehta" && a.Slot == "Mon 10:00 AM"
	})).Return(nil).Once()
	svc := NewAppointmentService(repo)

	appointment, err := svc.BookAppointment(context.Background(), "user-1", " Dr. Mehta ", "Mon 10:00 AM")

	require.NoError(t, err)
	assert.Equal(t, "Dr. Mehta", appointment.DoctorName)
	repo.AssertExpectations(t)
}

func TestAppointmentService_BookAppointmentValidation(t *testing.T) {
	repo := new(MockAppointmentRepository)
	svc := NewAppointmentService(repo)

	_, err := svc.BookAppointment(context.Background(), "user-1", "", "Mon 10:00 AM")
	assert.True(t, errors.Is(err, ErrContractViolation))

	_, err = svc.BookAppointment(context.Background(), "user-1", "Dr. Mehta", "  ")
	assert.True(t, errors.Is(err, ErrContractViolation))

	_, err = svc.BookAppointment(context.Background(), "", "Dr. Mehta", "Mon 10:00 AM")
	assert.Error(t, err)

	repo.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything)
}

func TestAppointmentService_GetAppointments(t *testing.T) {
	repo := new(MockAppointmentRepository)
	stored := []*models.Appointment{{ID: "a1", UserID: "user-1"}}
	repo.On("GetAppointmentsByUserID", mock.Anything, "user-1").Return(stored, nil).Once()
	repo.On("GetAppointmentsByUserID", mock.Anything, "user-2").Return(nil, errors.New("db down")).Once()
	svc := NewAppointmentService(repo)

	appointments, err := svc.GetAppointments(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, stored, appointments)

	_, err = svc.GetAppointments(context.Background(), "user-2")
	assert.Error(t, err)
}

func TestAppointmentService_CancelAppointment(t *testing.T) {
	repo := new(MockAppointmentRepository)
	repo.On("GetAppointmentByID", mock.Anything, "mine").Return(&models.Appointment{ID: "mine", UserID: "user-1"}, nil)
	repo.On("GetAppointmentByID", mock.Anything, "theirs").Return(&models.Appointment{ID: "theirs", UserID: "user-2"}, nil)
	repo.On("GetAppointmentByID", mock.Anything, "gone").Return(nil, nil)
	repo.On("GetAppointmentByID", mock.Anything, "raced").Return(&models.Appointment{ID: "raced", UserID: "user-1"}, nil)
	repo.On("DeleteAppointment", mock.Anything, "mine", false).Return(nil).Once()
	repo.On("DeleteAppointment", mock.Anything, "raced", false).
		Return(fmt.Errorf("delete appointment ID raced: %w", repository.ErrAppointmentNotFound)).Once()
	svc := NewAppointmentService(repo)

	require.NoError(t, svc.CancelAppointment(context.Background(), "user-1", "mine"))
	assert.True(t, errors.Is(svc.CancelAppointment(context.Background(), "user-1", "theirs"), ErrForbidden))
	assert.True(t, errors.Is(svc.CancelAppointment(context.Background(), "user-1", "gone"), ErrNotFound))
	assert.True(t, errors.Is(svc.CancelAppointment(context.Background(), "user-1", "raced"), ErrNotFound))

	repo.AssertNotCalled(t, "DeleteAppointment", mock.Anything, "theirs", mock.Anything)
	repo.AssertExpectations(t)
}
