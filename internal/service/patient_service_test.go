package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/clinixnote/backend/internal/model"
)

type patientFixture struct {
	patients *memPatientStore
	appts    *memAppointmentStore
	users    *memUserStore
	reports  *memReportStore
	svc      *PatientService
}

func newPatientFixture() *patientFixture {
	f := &patientFixture{
		patients: &memPatientStore{},
		appts:    newMemAppointmentStore(),
		users:    newMemUserStore(),
		reports:  newMemReportStore(),
	}
	f.svc = NewPatientService(f.patients, f.appts, f.users, f.reports, zap.NewNop())
	return f
}

func (f *patientFixture) addDoctor(t *testing.T, name string) *model.User {
	t.Helper()
	doctor := &model.User{Name: name, Email: name + "@example.com", Role: model.RoleDoctor}
	if err := f.users.Create(context.Background(), doctor); err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	return doctor
}

func (f *patientFixture) addAppointment(t *testing.T, doctor *model.User, name, contact string) *model.Appointment {
	t.Helper()
	appt := &model.Appointment{
		PatientName:   name,
		Contact:       contact,
		DoctorID:      doctor.ID,
		DoctorName:    doctor.Name,
		PreferredDate: date(2024, time.June, 10),
		PreferredTime: "09:00",
		Status:        model.AppointmentStatusPending,
	}
	if err := f.appts.Create(context.Background(), appt); err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return appt
}

func TestAddPatientFromAppointment(t *testing.T) {
	f := newPatientFixture()
	ctx := context.Background()
	doctor := f.addDoctor(t, "Dr. Smith")
	appt := f.addAppointment(t, doctor, "Alice", "01711111111")

	patient, err := f.svc.AddFromAppointment(ctx, appt.ID)
	if err != nil {
		t.Fatalf("AddFromAppointment: %v", err)
	}
	if patient.Name != "Alice" || patient.Contact != "01711111111" {
		t.Errorf("patient identity = %q/%q", patient.Name, patient.Contact)
	}
	if patient.Doctor != "Dr. Smith" {
		t.Errorf("patient doctor = %q, want Dr. Smith", patient.Doctor)
	}
	if patient.AppointmentTime != "09:00" {
		t.Errorf("appointment time = %q, want 09:00", patient.AppointmentTime)
	}

	stored, _ := f.appts.GetByID(ctx, appt.ID)
	if !stored.DoctorConfirmed {
		t.Error("appointment not marked doctor confirmed")
	}
}

func TestAddPatientTwiceRejected(t *testing.T) {
	f := newPatientFixture()
	ctx := context.Background()
	doctor := f.addDoctor(t, "Dr. Smith")
	appt := f.addAppointment(t, doctor, "Alice", "01711111111")

	if _, err := f.svc.AddFromAppointment(ctx, appt.ID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := f.svc.AddFromAppointment(ctx, appt.ID); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second add err = %v, want ErrDuplicate", err)
	}
}

func TestAddPatientUnknownAppointment(t *testing.T) {
	f := newPatientFixture()

	if _, err := f.svc.AddFromAppointment(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMyPatientsFiltersAndSorts(t *testing.T) {
	f := newPatientFixture()
	ctx := context.Background()
	smith := f.addDoctor(t, "Dr. Smith")
	f.addDoctor(t, "Dr. Jones")

	seed := []*model.Patient{
		{Name: "Carol", Contact: "3", Doctor: "Dr. Smith", AppointmentDate: date(2024, time.June, 12), AppointmentTime: "10:00"},
		{Name: "Alice", Contact: "1", Doctor: "Dr. Smith", AppointmentDate: date(2024, time.June, 10), AppointmentTime: "11:00"},
		{Name: "Bob", Contact: "2", Doctor: "Dr. Smith", AppointmentDate: date(2024, time.June, 10), AppointmentTime: "09:00"},
		{Name: "Dave", Contact: "4", Doctor: "Dr. Jones", AppointmentDate: date(2024, time.June, 9), AppointmentTime: "09:00"},
	}
	for _, p := range seed {
		if err := f.patients.Create(ctx, p); err != nil {
			t.Fatalf("seed patient %s: %v", p.Name, err)
		}
	}

	patients, err := f.svc.MyPatients(ctx, smith.ID)
	if err != nil {
		t.Fatalf("MyPatients: %v", err)
	}
	var names []string
	for _, p := range patients {
		names = append(names, p.Name)
	}
	want := []string{"Bob", "Alice", "Carol"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestMyPatientsUnknownDoctor(t *testing.T) {
	f := newPatientFixture()

	if _, err := f.svc.MyPatients(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRemovePatientByDetails(t *testing.T) {
	f := newPatientFixture()
	ctx := context.Background()
	p := &model.Patient{
		Name: "Alice", Contact: "01711111111", Doctor: "Dr. Smith",
		AppointmentDate: date(2024, time.June, 10), AppointmentTime: "09:00",
	}
	if err := f.patients.Create(ctx, p); err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	key := model.PatientKey{
		Name: "Alice", Contact: "01711111111", Doctor: "Dr. Smith",
		// The date may carry a time component, removal only cares about
		// the day.
		AppointmentDate: time.Date(2024, time.June, 10, 15, 30, 0, 0, time.UTC),
		AppointmentTime: "09:00",
	}
	if err := f.svc.Remove(ctx, key); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if err := f.svc.Remove(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second remove err = %v, want ErrNotFound", err)
	}
}

func TestSetImage(t *testing.T) {
	f := newPatientFixture()
	ctx := context.Background()
	p := &model.Patient{Name: "Alice", Contact: "1", Doctor: "Dr. Smith"}
	if err := f.patients.Create(ctx, p); err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	if err := f.svc.SetImage(ctx, p.ID.Hex(), "/uploads/patients/a.png"); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	stored, _ := f.patients.ListAll(ctx)
	if stored[0].Image != "/uploads/patients/a.png" {
		t.Errorf("image = %q", stored[0].Image)
	}

	if err := f.svc.SetImage(ctx, "", "x.png"); !IsValidation(err) {
		t.Errorf("empty id err = %v, want validation error", err)
	}
}

func TestExamFindings(t *testing.T) {
	f := newPatientFixture()
	ctx := context.Background()
	if _, err := f.reports.Upsert(ctx, "p-1", model.ReportUpdate{
		ExamFindings: []model.TextEntry{{Content: "BP 120/80", Date: time.Now()}},
	}); err != nil {
		t.Fatalf("seed report: %v", err)
	}

	findings, err := f.svc.ExamFindings(ctx, "p-1")
	if err != nil {
		t.Fatalf("ExamFindings: %v", err)
	}
	if len(findings) != 1 || findings[0].Content != "BP 120/80" {
		t.Errorf("findings = %+v", findings)
	}

	if _, err := f.svc.ExamFindings(ctx, "p-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing report err = %v, want ErrNotFound", err)
	}
}
