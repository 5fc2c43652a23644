package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/clinixnote/backend/internal/model"
	"github.com/clinixnote/backend/internal/service"
)

// Stub stores, just enough behavior for the handler under test.

type stubScheduleStore struct {
	schedule *model.DoctorSchedule
}

func (s *stubScheduleStore) Create(context.Context, *model.DoctorSchedule) error { return nil }

func (s *stubScheduleStore) GetByID(_ context.Context, id int64) (*model.DoctorSchedule, error) {
	if s.schedule != nil && s.schedule.ID == id {
		return s.schedule, nil
	}
	return nil, nil
}

func (s *stubScheduleStore) GetByDoctorID(context.Context, int64) ([]*model.DoctorSchedule, error) {
	return nil, nil
}

func (s *stubScheduleStore) Update(context.Context, *model.DoctorSchedule) error { return nil }

type stubSlotStore struct{}

func (stubSlotStore) GetByID(context.Context, int64) (*model.TimeSlot, error) { return nil, nil }

func (stubSlotStore) FindAvailable(context.Context, int64, time.Time) ([]*model.TimeSlot, error) {
	return nil, nil
}

func (stubSlotStore) FindExactAvailable(context.Context, int64, time.Time, string) (*model.TimeSlot, error) {
	return nil, nil
}

func (stubSlotStore) ListByDoctorRange(context.Context, int64, time.Time, time.Time) ([]*model.TimeSlot, error) {
	return nil, nil
}

func (stubSlotStore) Book(context.Context, int64, int64) error { return nil }

func (stubSlotStore) ReplaceRange(_ context.Context, _ int64, _, _ time.Time, newSlots []*model.TimeSlot) (int, error) {
	return len(newSlots), nil
}

func (stubSlotStore) DeleteFreeBefore(context.Context, time.Time) (int64, error) { return 0, nil }

type stubAppointmentStore struct{}

func (stubAppointmentStore) Create(context.Context, *model.Appointment) error { return nil }

func (stubAppointmentStore) GetByID(context.Context, int64) (*model.Appointment, error) {
	return nil, nil
}

func (stubAppointmentStore) ListAll(context.Context) ([]*model.Appointment, error) { return nil, nil }

func (stubAppointmentStore) ListByDoctor(context.Context, int64) ([]*model.Appointment, error) {
	return nil, nil
}

func (stubAppointmentStore) ListByContact(context.Context, string) ([]*model.Appointment, error) {
	return nil, nil
}

func (stubAppointmentStore) ListByDoctorDateRange(context.Context, int64, time.Time, time.Time) ([]*model.Appointment, error) {
	return nil, nil
}

func (stubAppointmentStore) Reassign(context.Context, int64, string, bool) error { return nil }

func (stubAppointmentStore) MarkUnresolved(context.Context, int64) error { return nil }

func (stubAppointmentStore) SetStatus(context.Context, int64, model.AppointmentStatus) error {
	return nil
}

func (stubAppointmentStore) SetDoctorConfirmed(context.Context, int64) error { return nil }

func (stubAppointmentStore) Delete(context.Context, int64) error { return nil }

func (stubAppointmentStore) Count(context.Context) (int64, error) { return 0, nil }

type stubMailer struct{}

func (stubMailer) Send(context.Context, string, string, string) error { return nil }

func TestGenerateSlotsRespondsCreated(t *testing.T) {
	schedule := &model.DoctorSchedule{
		ID:                  7,
		DoctorID:            1,
		Mode:                model.ScheduleModeUniform,
		DayRules:            []model.DayRule{{StartTime: "09:00", EndTime: "10:00"}},
		SlotDurationMinutes: 30,
		ValidFrom:           time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		ValidTo:             time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
	}
	svc := service.NewScheduleService(
		&stubScheduleStore{schedule: schedule},
		stubSlotStore{},
		stubAppointmentStore{},
		stubMailer{},
		service.NewDoctorLocks(),
		zap.NewNop(),
	)
	ct := &Controller{schedules: svc, logger: zap.NewNop()}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/doctor/generate-slots", strings.NewReader(`{"scheduleId":7}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := ct.GenerateSlots(e.NewContext(req, rec)); err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if !strings.Contains(rec.Body.String(), `"slotsGenerated":2`) {
		t.Errorf("body = %s, want 2 generated slots", rec.Body.String())
	}
}
