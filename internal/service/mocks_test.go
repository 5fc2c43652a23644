package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinixnote/backend/internal/model"
)

// In-memory fakes standing in for the pgx repositories.

type memSlotStore struct {
	mu     sync.Mutex
	nextID int64
	slots  map[int64]*model.TimeSlot
}

func newMemSlotStore() *memSlotStore {
	return &memSlotStore{slots: make(map[int64]*model.TimeSlot)}
}

func (m *memSlotStore) add(slot *model.TimeSlot) *model.TimeSlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *slot
	cp.ID = m.nextID
	m.slots[cp.ID] = &cp
	return &cp
}

func (m *memSlotStore) GetByID(_ context.Context, id int64) (*model.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[id]
	if !ok {
		return nil, nil
	}
	cp := *slot
	return &cp, nil
}

func (m *memSlotStore) FindAvailable(_ context.Context, doctorID int64, date time.Time) ([]*model.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.TimeSlot
	for _, slot := range m.slots {
		if slot.DoctorID == doctorID && slot.Date.Equal(date) && !slot.IsBooked {
			cp := *slot
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (m *memSlotStore) FindExactAvailable(_ context.Context, doctorID int64, date time.Time, startTime string) (*model.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, slot := range m.slots {
		if slot.DoctorID == doctorID && slot.Date.Equal(date) && slot.StartTime == startTime && !slot.IsBooked {
			cp := *slot
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memSlotStore) ListByDoctorRange(_ context.Context, doctorID int64, from, to time.Time) ([]*model.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.TimeSlot
	for _, slot := range m.slots {
		if slot.DoctorID == doctorID && !slot.Date.Before(from) && !slot.Date.After(to) {
			cp := *slot
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (m *memSlotStore) Book(_ context.Context, slotID, bookedBy int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[slotID]
	if !ok {
		return ErrNotFound
	}
	if slot.IsBooked {
		return ErrAlreadyBooked
	}
	slot.IsBooked = true
	slot.BookedBy = &bookedBy
	return nil
}

func (m *memSlotStore) ReplaceRange(_ context.Context, doctorID int64, from, to time.Time, newSlots []*model.TimeSlot) (int, error) {
	m.mu.Lock()
	for id, slot := range m.slots {
		if slot.DoctorID == doctorID && !slot.Date.Before(from) && !slot.Date.After(to) {
			delete(m.slots, id)
		}
	}
	m.mu.Unlock()
	for _, slot := range newSlots {
		m.add(slot)
	}
	return len(newSlots), nil
}

func (m *memSlotStore) DeleteFreeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, slot := range m.slots {
		if slot.Date.Before(cutoff) && !slot.IsBooked {
			delete(m.slots, id)
			removed++
		}
	}
	return removed, nil
}

func (m *memSlotStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

type memScheduleStore struct {
	mu        sync.Mutex
	nextID    int64
	schedules map[int64]*model.DoctorSchedule
}

func newMemScheduleStore() *memScheduleStore {
	return &memScheduleStore{schedules: make(map[int64]*model.DoctorSchedule)}
}

func (m *memScheduleStore) Create(_ context.Context, schedule *model.DoctorSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	schedule.ID = m.nextID
	cp := *schedule
	m.schedules[cp.ID] = &cp
	return nil
}

func (m *memScheduleStore) GetByID(_ context.Context, id int64) (*model.DoctorSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	schedule, ok := m.schedules[id]
	if !ok {
		return nil, nil
	}
	cp := *schedule
	return &cp, nil
}

func (m *memScheduleStore) GetByDoctorID(_ context.Context, doctorID int64) ([]*model.DoctorSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.DoctorSchedule
	for _, schedule := range m.schedules {
		if schedule.DoctorID == doctorID {
			cp := *schedule
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memScheduleStore) Update(_ context.Context, schedule *model.DoctorSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[schedule.ID]; !ok {
		return ErrNotFound
	}
	cp := *schedule
	m.schedules[cp.ID] = &cp
	return nil
}

type memAppointmentStore struct {
	mu     sync.Mutex
	nextID int64
	appts  map[int64]*model.Appointment
}

func newMemAppointmentStore() *memAppointmentStore {
	return &memAppointmentStore{appts: make(map[int64]*model.Appointment)}
}

func (m *memAppointmentStore) Create(_ context.Context, appt *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	appt.ID = m.nextID
	cp := *appt
	m.appts[cp.ID] = &cp
	return nil
}

func (m *memAppointmentStore) GetByID(_ context.Context, id int64) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.appts[id]
	if !ok {
		return nil, nil
	}
	cp := *appt
	return &cp, nil
}

func (m *memAppointmentStore) ListAll(_ context.Context) ([]*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Appointment
	for _, appt := range m.appts {
		cp := *appt
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memAppointmentStore) ListByDoctor(_ context.Context, doctorID int64) ([]*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Appointment
	for _, appt := range m.appts {
		if appt.DoctorID == doctorID {
			cp := *appt
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAppointmentStore) ListByContact(_ context.Context, contact string) ([]*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Appointment
	for _, appt := range m.appts {
		if appt.Contact == contact {
			cp := *appt
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAppointmentStore) ListByDoctorDateRange(_ context.Context, doctorID int64, from, to time.Time) ([]*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Appointment
	for _, appt := range m.appts {
		if appt.DoctorID == doctorID && !appt.PreferredDate.Before(from) && !appt.PreferredDate.After(to) {
			cp := *appt
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memAppointmentStore) Reassign(_ context.Context, id int64, preferredTime string, unresolved bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.appts[id]
	if !ok {
		return ErrNotFound
	}
	appt.PreferredTime = preferredTime
	appt.UnresolvedConflict = unresolved
	return nil
}

func (m *memAppointmentStore) MarkUnresolved(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.appts[id]
	if !ok {
		return ErrNotFound
	}
	appt.UnresolvedConflict = true
	return nil
}

func (m *memAppointmentStore) SetStatus(_ context.Context, id int64, status model.AppointmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.appts[id]
	if !ok {
		return ErrNotFound
	}
	appt.Status = status
	return nil
}

func (m *memAppointmentStore) SetDoctorConfirmed(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.appts[id]
	if !ok {
		return ErrNotFound
	}
	appt.DoctorConfirmed = true
	return nil
}

func (m *memAppointmentStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.appts[id]; !ok {
		return ErrNotFound
	}
	delete(m.appts, id)
	return nil
}

func (m *memAppointmentStore) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.appts)), nil
}

type memUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*model.User)}
}

func (m *memUserStore) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.users[cp.ID] = &cp
	return nil
}

func (m *memUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) GetByEmailAndRole(_ context.Context, email string, role model.Role) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email && user.Role == role {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) ListByRole(_ context.Context, role model.Role, status model.DoctorStatus) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.User
	for _, user := range m.users {
		if user.Role != role {
			continue
		}
		if status != "" && user.Status != status {
			continue
		}
		cp := *user
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memUserStore) GetByVerifyToken(_ context.Context, token string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.VerifyToken != nil && *user.VerifyToken == token &&
			user.VerifyExpires != nil && user.VerifyExpires.After(time.Now()) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) GetByResetToken(_ context.Context, token string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ResetToken != nil && *user.ResetToken == token &&
			user.ResetExpires != nil && user.ResetExpires.After(time.Now()) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) MarkVerified(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	user.IsVerified = true
	user.VerifyToken = nil
	user.VerifyExpires = nil
	return nil
}

func (m *memUserStore) Approve(_ context.Context, id int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	user.Status = model.DoctorStatusApproved
	user.PasswordHash = passwordHash
	return nil
}

func (m *memUserStore) SetResetToken(_ context.Context, id int64, token string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	user.ResetToken = &token
	user.ResetExpires = &expires
	return nil
}

func (m *memUserStore) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.ResetToken = nil
	user.ResetExpires = nil
	return nil
}

func (m *memUserStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUserStore) CountByRole(_ context.Context, role model.Role) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, user := range m.users {
		if user.Role == role {
			n++
		}
	}
	return n, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type memMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *memMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return context.DeadlineExceeded
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func (m *memMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type memPaymentStore struct {
	mu       sync.Mutex
	nextID   int64
	payments map[int64]*model.Payment
}

func newMemPaymentStore() *memPaymentStore {
	return &memPaymentStore{payments: make(map[int64]*model.Payment)}
}

func (m *memPaymentStore) Create(_ context.Context, p *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	cp := *p
	m.payments[cp.ID] = &cp
	return nil
}

func (m *memPaymentStore) UpdateStatus(_ context.Context, tranID string, status model.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.TranID == tranID {
			p.Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (m *memPaymentStore) List(_ context.Context) ([]*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Payment
	for _, p := range m.payments {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPaymentStore) HasPaid(_ context.Context, patientName, contact string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.PatientName == patientName && p.PatientContact == contact && p.Status == model.PaymentStatusPaid {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPaymentStore) TotalRevenue(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, p := range m.payments {
		if p.Status == model.PaymentStatusPaid {
			total += p.Amount
		}
	}
	return total, nil
}

type fakeGateway struct {
	mu       sync.Mutex
	sessions []PaymentSession
	fail     bool
}

func (g *fakeGateway) CreateSession(_ context.Context, s PaymentSession) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return "", context.DeadlineExceeded
	}
	g.sessions = append(g.sessions, s)
	return "https://sandbox.sslcommerz.test/checkout/" + s.TranID, nil
}

type memPatientStore struct {
	mu       sync.Mutex
	patients []*model.Patient
}

func (m *memPatientStore) Create(_ context.Context, p *model.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.patients {
		if existing.Name == p.Name && existing.Contact == p.Contact {
			return ErrDuplicate
		}
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	cp := *p
	m.patients = append(m.patients, &cp)
	return nil
}

func (m *memPatientStore) ListByDoctor(_ context.Context, doctorName string) ([]*model.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Patient
	for _, p := range m.patients {
		if p.Doctor == doctorName {
			out = append(out, p)
		}
	}
	sortPatients(out)
	return out, nil
}

func (m *memPatientStore) ListAll(_ context.Context) ([]*model.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]*model.Patient(nil), m.patients...)
	sortPatients(out)
	return out, nil
}

func (m *memPatientStore) SetImage(_ context.Context, id, image string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.patients {
		if p.ID.Hex() == id {
			p.Image = image
			return nil
		}
	}
	return ErrNotFound
}

func (m *memPatientStore) DeleteByDetails(_ context.Context, key model.PatientKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.patients {
		if p.Name == key.Name && p.Contact == key.Contact && p.Doctor == key.Doctor &&
			p.AppointmentDate.Equal(key.AppointmentDate) && p.AppointmentTime == key.AppointmentTime {
			m.patients = append(m.patients[:i], m.patients[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func sortPatients(patients []*model.Patient) {
	sort.Slice(patients, func(i, j int) bool {
		if !patients[i].AppointmentDate.Equal(patients[j].AppointmentDate) {
			return patients[i].AppointmentDate.Before(patients[j].AppointmentDate)
		}
		return patients[i].AppointmentTime < patients[j].AppointmentTime
	})
}

type memReportStore struct {
	mu      sync.Mutex
	reports map[string]*model.PatientReport
}

func newMemReportStore() *memReportStore {
	return &memReportStore{reports: make(map[string]*model.PatientReport)}
}

func (m *memReportStore) Upsert(_ context.Context, patientID string, upd model.ReportUpdate) (*model.PatientReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.reports[patientID]
	if !ok {
		report = &model.PatientReport{PatientID: patientID}
		m.reports[patientID] = report
	}
	if upd.PatientName != "" {
		report.PatientName = upd.PatientName
	}
	if upd.DoctorName != "" {
		report.DoctorName = upd.DoctorName
	}
	report.ExamFindings = append(report.ExamFindings, upd.ExamFindings...)
	report.Notes = append(report.Notes, upd.Notes...)
	report.Timestamp = time.Now()
	return report, nil
}

func (m *memReportStore) FindByPatientID(_ context.Context, patientID string) ([]*model.PatientReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.reports[patientID]
	if !ok {
		return nil, nil
	}
	return []*model.PatientReport{report}, nil
}
