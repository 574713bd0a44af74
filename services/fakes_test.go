package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/anjiri1684/pickleball_coach/events"
	"github.com/anjiri1684/pickleball_coach/models"
	"github.com/anjiri1684/pickleball_coach/payments"
	"github.com/anjiri1684/pickleball_coach/repository"
	"github.com/google/uuid"
)

type memUsers struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newMemUsers(users ...models.User) *memUsers {
	m := &memUsers{users: map[uint]*models.User{}}
	for i := range users {
		u := users[i]
		m.users[u.ID] = &u
		if u.ID > m.nextID {
			m.nextID = u.ID
		}
	}
	return m
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) List(_ context.Context, role models.Role, page, pageSize int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		if role == "" || u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	start := (page - 1) * pageSize
	if start >= len(out) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (m *memUsers) SetActive(_ context.Context, id uint, active bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return false, nil
	}
	u.IsActive = active
	return true, nil
}

func (m *memUsers) UpdateProfile(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	u.FullName = user.FullName
	u.ProfilePictureURL = user.ProfilePictureURL
	return nil
}

func (m *memUsers) ListActiveCoaches(ctx context.Context, page, pageSize int) ([]models.User, error) {
	all, _ := m.List(ctx, models.RoleCoach, 1, 1000)
	var out []models.User
	for _, u := range all {
		if u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

type memReviews struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.VideoReviewRequest
}

func newMemReviews() *memReviews {
	return &memReviews{rows: map[uint]models.VideoReviewRequest{}}
}

func (m *memReviews) Create(_ context.Context, req *models.VideoReviewRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	req.ID = m.nextID
	m.rows[req.ID] = *req
	return nil
}

func (m *memReviews) GetByID(_ context.Context, id uint) (*models.VideoReviewRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *memReviews) filter(keep func(models.VideoReviewRequest) bool, less func(a, b models.VideoReviewRequest) bool) []models.VideoReviewRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.VideoReviewRequest
	for _, r := range m.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func newestFirst(a, b models.VideoReviewRequest) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (m *memReviews) ListByStudent(_ context.Context, studentID uint) ([]models.VideoReviewRequest, error) {
	return m.filter(func(r models.VideoReviewRequest) bool { return r.StudentID == studentID }, newestFirst), nil
}

func (m *memReviews) ListOpen(_ context.Context, coachID *uint) ([]models.VideoReviewRequest, error) {
	return m.filter(func(r models.VideoReviewRequest) bool {
		if r.Status != models.ReviewOpen {
			return false
		}
		if r.CoachID == nil {
			return true
		}
		return coachID != nil && *r.CoachID == *coachID
	}, func(a, b models.VideoReviewRequest) bool {
		if a.OfferedPrice != b.OfferedPrice {
			return a.OfferedPrice > b.OfferedPrice
		}
		return newestFirst(a, b)
	}), nil
}

func (m *memReviews) ListByCoach(_ context.Context, coachID uint) ([]models.VideoReviewRequest, error) {
	return m.filter(func(r models.VideoReviewRequest) bool {
		return (r.AcceptedByCoachID != nil && *r.AcceptedByCoachID == coachID) || (r.CoachID != nil && *r.CoachID == coachID)
	}, newestFirst), nil
}

func (m *memReviews) UpdateIfStatus(_ context.Context, req *models.VideoReviewRequest, from models.ReviewStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rows[req.ID]
	if !ok || stored.Status != from {
		return false, nil
	}
	m.rows[req.ID] = *req
	return true, nil
}

type memSessions struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.TrainingSession
}

func newMemSessions() *memSessions {
	return &memSessions{rows: map[uint]models.TrainingSession{}}
}

func (m *memSessions) Create(_ context.Context, s *models.TrainingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s.ID = m.nextID
	m.rows[s.ID] = *s
	return nil
}

func (m *memSessions) GetByID(_ context.Context, id uint) (*models.TrainingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memSessions) list(keep func(models.TrainingSession) bool) []models.TrainingSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TrainingSession
	for _, s := range m.rows {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out
}

func (m *memSessions) ListByCoach(_ context.Context, coachID uint) ([]models.TrainingSession, error) {
	return m.list(func(s models.TrainingSession) bool { return s.CoachID == coachID }), nil
}

func (m *memSessions) ListByStudent(_ context.Context, studentID uint) ([]models.TrainingSession, error) {
	return m.list(func(s models.TrainingSession) bool { return s.StudentID == studentID }), nil
}

func (m *memSessions) UpdateIfStatus(_ context.Context, s *models.TrainingSession, from models.SessionStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rows[s.ID]
	if !ok || stored.Status != from {
		return false, nil
	}
	m.rows[s.ID] = *s
	return true, nil
}

type memCatalog struct {
	mu        sync.Mutex
	nextID    uint
	materials map[uint]models.TrainingMaterial
	courses   map[uint]models.Course
}

func newMemCatalog() *memCatalog {
	return &memCatalog{materials: map[uint]models.TrainingMaterial{}, courses: map[uint]models.Course{}}
}

func (m *memCatalog) CreateMaterial(_ context.Context, material *models.TrainingMaterial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	material.ID = m.nextID
	m.materials[material.ID] = *material
	return nil
}

func (m *memCatalog) SaveMaterial(_ context.Context, material *models.TrainingMaterial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.materials[material.ID] = *material
	return nil
}

func (m *memCatalog) GetMaterial(_ context.Context, id uint) (*models.TrainingMaterial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	material, ok := m.materials[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &material, nil
}

func (m *memCatalog) ListMaterials(_ context.Context, coachID *uint, publishedOnly bool) ([]models.TrainingMaterial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TrainingMaterial
	for _, material := range m.materials {
		if publishedOnly && !material.IsPublished {
			continue
		}
		if coachID != nil && material.CoachID != *coachID {
			continue
		}
		out = append(out, material)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCatalog) CreateCourse(_ context.Context, course *models.Course, materialIDs []uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range materialIDs {
		material, ok := m.materials[id]
		if !ok {
			return errors.New("unknown material")
		}
		course.Materials = append(course.Materials, &material)
	}
	m.nextID++
	course.ID = m.nextID
	m.courses[course.ID] = *course
	return nil
}

func (m *memCatalog) SaveCourse(_ context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[course.ID] = *course
	return nil
}

func (m *memCatalog) GetCourse(_ context.Context, id uint) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	course, ok := m.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &course, nil
}

func (m *memCatalog) ListCourses(_ context.Context, coachID *uint, publishedOnly bool) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Course
	for _, course := range m.courses {
		if publishedOnly && !course.IsPublished {
			continue
		}
		if coachID != nil && course.CoachID != *coachID {
			continue
		}
		out = append(out, course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memPurchases struct {
	mu          sync.Mutex
	materials   []models.MaterialPurchase
	courses     []models.CoursePurchase
	receiptURLs map[uuid.UUID]string
	err         error
}

func (m *memPurchases) CreateMaterialPurchase(_ context.Context, p *models.MaterialPurchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.materials = append(m.materials, *p)
	return nil
}

func (m *memPurchases) CreateCoursePurchase(_ context.Context, p *models.CoursePurchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.courses = append(m.courses, *p)
	return nil
}

func (m *memPurchases) ListMaterialPurchasesByStudent(_ context.Context, studentID uint) ([]models.MaterialPurchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.MaterialPurchase
	for _, p := range m.materials {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPurchases) ListCoursePurchasesByStudent(_ context.Context, studentID uint) ([]models.CoursePurchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CoursePurchase
	for _, p := range m.courses {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPurchases) SumCoachEarnings(_ context.Context, coachID uint) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0.0
	for _, p := range m.materials {
		if p.CoachID == coachID {
			total += p.CoachEarnings
		}
	}
	for _, p := range m.courses {
		if p.CoachID == coachID {
			total += p.CoachEarnings
		}
	}
	return total, nil
}

func (m *memPurchases) SetMaterialReceiptURL(_ context.Context, id uuid.UUID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.receiptURLs == nil {
		m.receiptURLs = map[uuid.UUID]string{}
	}
	m.receiptURLs[id] = url
	return nil
}

func (m *memPurchases) SetCourseReceiptURL(ctx context.Context, id uuid.UUID, url string) error {
	return m.SetMaterialReceiptURL(ctx, id, url)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) kinds() []events.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Kind, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

type stubGateway struct {
	mu             sync.Mutex
	calls          int
	lastAmount     float64
	lastDesc       string
	err            error
	nextIntents    []string
	chargeOverride float64
}

func (g *stubGateway) CreatePaymentIntent(_ context.Context, amount float64, description string) (*payments.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lastAmount = amount
	g.lastDesc = description
	if g.err != nil {
		return nil, g.err
	}
	id := "pay_" + uuid.NewString()
	if len(g.nextIntents) > 0 {
		id = g.nextIntents[0]
		g.nextIntents = g.nextIntents[1:]
	}
	charged := amount
	if g.chargeOverride != 0 {
		charged = g.chargeOverride
	}
	return &payments.Intent{ID: id, ClientSecret: "secret_" + id, Amount: charged}, nil
}

var (
	student      = Actor{UserID: 1, Role: models.RoleStudent}
	otherStudent = Actor{UserID: 2, Role: models.RoleStudent}
	coach3       = Actor{UserID: 3, Role: models.RoleCoach}
	coach5       = Actor{UserID: 5, Role: models.RoleCoach}
	coach7       = Actor{UserID: 7, Role: models.RoleCoach}
	admin        = Actor{UserID: 9, Role: models.RoleAdmin}
)

func seedUsers() *memUsers {
	return newMemUsers(
		models.User{ID: 1, FullName: "Sam Student", Email: "sam@example.com", Role: models.RoleStudent, IsActive: true},
		models.User{ID: 2, FullName: "Olive Other", Email: "olive@example.com", Role: models.RoleStudent, IsActive: true},
		models.User{ID: 3, FullName: "Cora Coach", Email: "cora@example.com", Role: models.RoleCoach, IsActive: true},
		models.User{ID: 5, FullName: "Finn Five", Email: "finn@example.com", Role: models.RoleCoach, IsActive: true},
		models.User{ID: 7, FullName: "Sera Seven", Email: "sera@example.com", Role: models.RoleCoach, IsActive: true},
		models.User{ID: 8, FullName: "Ina Inactive", Email: "ina@example.com", Role: models.RoleCoach, IsActive: false},
		models.User{ID: 9, FullName: "Ada Admin", Email: "ada@example.com", Role: models.RoleAdmin, IsActive: true},
	)
}
