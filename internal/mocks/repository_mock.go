// Package mocks provides in-memory implementations of the port interfaces for
// tests. Each mock records its calls and supports error injection.
package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
)

// MockPatientRepository implements ports.PatientRepository.
type MockPatientRepository struct {
	mu       sync.RWMutex
	patients map[int64]domain.Patient
	nextID   int64

	FindByIDCalls   []int64
	SaveCalls       []domain.Patient
	DeleteByIDCalls []int64

	FindByIDError   error
	FindAllError    error
	SaveError       error
	DeleteByIDError error
}

var _ ports.PatientRepository = (*MockPatientRepository)(nil)

func NewMockPatientRepository() *MockPatientRepository {
	return &MockPatientRepository{
		patients: make(map[int64]domain.Patient),
		nextID:   1,
	}
}

// SeedPatient stores a patient as-is for test setup.
func (m *MockPatientRepository) SeedPatient(p domain.Patient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patients[p.ID] = p
	if p.ID >= m.nextID {
		m.nextID = p.ID + 1
	}
}

func (m *MockPatientRepository) Has(id int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.patients[id]
	return ok
}

func (m *MockPatientRepository) FindByID(ctx context.Context, id int64) (*domain.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindByIDCalls = append(m.FindByIDCalls, id)

	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}
	p, ok := m.patients[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MockPatientRepository) FindAll(ctx context.Context) ([]domain.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindAllError != nil {
		return nil, m.FindAllError
	}
	out := make([]domain.Patient, 0, len(m.patients))
	for _, p := range m.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockPatientRepository) Save(ctx context.Context, p domain.Patient) (*domain.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, p)

	if m.SaveError != nil {
		return nil, m.SaveError
	}
	if p.ID == 0 {
		p.ID = m.nextID
		m.nextID++
	}
	m.patients[p.ID] = p
	return &p, nil
}

func (m *MockPatientRepository) DeleteByID(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteByIDCalls = append(m.DeleteByIDCalls, id)

	if m.DeleteByIDError != nil {
		return m.DeleteByIDError
	}
	if _, ok := m.patients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.patients, id)
	return nil
}

// MockAppointmentRepository implements ports.AppointmentRepository.
type MockAppointmentRepository struct {
	mu           sync.RWMutex
	appointments map[int64]domain.Appointment
	nextID       int64

	SaveCalls       []domain.Appointment
	DeleteByIDCalls []int64
	DeleteAllCalls  [][]domain.Appointment

	FindByIDError   error
	FindAllError    error
	SaveError       error
	DeleteByIDError error
	DeleteAllError  error
}

var _ ports.AppointmentRepository = (*MockAppointmentRepository)(nil)

func NewMockAppointmentRepository() *MockAppointmentRepository {
	return &MockAppointmentRepository{
		appointments: make(map[int64]domain.Appointment),
		nextID:       1,
	}
}

func (m *MockAppointmentRepository) SeedAppointment(a domain.Appointment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments[a.ID] = a
	if a.ID >= m.nextID {
		m.nextID = a.ID + 1
	}
}

func (m *MockAppointmentRepository) Has(id int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.appointments[id]
	return ok
}

func (m *MockAppointmentRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.appointments)
}

func (m *MockAppointmentRepository) FindByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}
	a, ok := m.appointments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *MockAppointmentRepository) FindAll(ctx context.Context) ([]domain.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindAllError != nil {
		return nil, m.FindAllError
	}
	out := make([]domain.Appointment, 0, len(m.appointments))
	for _, a := range m.appointments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockAppointmentRepository) Save(ctx context.Context, a domain.Appointment) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, a)

	if m.SaveError != nil {
		return nil, m.SaveError
	}
	if a.ID == 0 {
		a.ID = m.nextID
		m.nextID++
	}
	m.appointments[a.ID] = a
	return &a, nil
}

func (m *MockAppointmentRepository) DeleteByID(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteByIDCalls = append(m.DeleteByIDCalls, id)

	if m.DeleteByIDError != nil {
		return m.DeleteByIDError
	}
	if _, ok := m.appointments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.appointments, id)
	return nil
}

func (m *MockAppointmentRepository) DeleteAll(ctx context.Context, appointments []domain.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteAllCalls = append(m.DeleteAllCalls, appointments)

	if m.DeleteAllError != nil {
		return m.DeleteAllError
	}
	for _, a := range appointments {
		delete(m.appointments, a.ID)
	}
	return nil
}

// MockUserRepository implements ports.UserRepository.
type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]domain.User
	nextID int64

	FindByIDCalls         []int64
	FindByUsernameCalls   []string
	FindOwningUserIDCalls []int64
	SaveCalls             []domain.User
	DeleteCalls           []domain.User

	FindByIDError         error
	FindByUsernameError   error
	FindOwningUserIDError error
	SaveError             error
	DeleteError           error

	// FindOwningUserIDFunc, when set, replaces the scan over seeded users.
	FindOwningUserIDFunc func(patientID int64) (int64, bool, error)
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[int64]domain.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) SeedUser(u domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	if u.ID >= m.nextID {
		m.nextID = u.ID + 1
	}
}

func (m *MockUserRepository) Has(id int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[id]
	return ok
}

// LookupCount is the number of read calls made against the repository.
func (m *MockUserRepository) LookupCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.FindByIDCalls) + len(m.FindByUsernameCalls) + len(m.FindOwningUserIDCalls)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindByIDCalls = append(m.FindByIDCalls, id)

	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindByUsernameCalls = append(m.FindByUsernameCalls, username)

	if m.FindByUsernameError != nil {
		return nil, m.FindByUsernameError
	}
	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) Save(ctx context.Context, u domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, u)

	if m.SaveError != nil {
		return nil, m.SaveError
	}
	for _, existing := range m.users {
		if existing.Username == u.Username && existing.ID != u.ID {
			return nil, domain.ErrConflict
		}
	}
	if u.ID == 0 {
		u.ID = m.nextID
		m.nextID++
	}
	m.users[u.ID] = u
	return &u, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, u)

	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, u.ID)
	return nil
}

func (m *MockUserRepository) FindOwningUserID(ctx context.Context, patientID int64) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindOwningUserIDCalls = append(m.FindOwningUserIDCalls, patientID)

	if m.FindOwningUserIDError != nil {
		return 0, false, m.FindOwningUserIDError
	}
	if m.FindOwningUserIDFunc != nil {
		return m.FindOwningUserIDFunc(patientID)
	}
	for _, u := range m.users {
		if u.LinkedPatientID != nil && *u.LinkedPatientID == patientID {
			return u.ID, true, nil
		}
	}
	return 0, false, nil
}
