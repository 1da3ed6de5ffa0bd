package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roob1e/tabularium/internal/model"
	"github.com/roob1e/tabularium/internal/repository"
	pkgerrors "github.com/roob1e/tabularium/pkg/errors"
)

var errMockDB = errors.New("mock db failure")

// ── Mock GroupRepository ──

type mockGroupRepo struct {
	groups   map[int64]*model.Group
	students *mockStudentRepo
	nextID   int64
	recounts [][]int64
}

func newMockGroupRepo(students *mockStudentRepo) *mockGroupRepo {
	return &mockGroupRepo{groups: make(map[int64]*model.Group), students: students, nextID: 1}
}

func (m *mockGroupRepo) add(name string) *model.Group {
	g := &model.Group{Name: name}
	_ = m.Create(context.Background(), g)
	return g
}

func (m *mockGroupRepo) Create(_ context.Context, group *model.Group) error {
	if group.ID == 0 {
		group.ID = m.nextID
		m.nextID++
	}
	group.Version = 1
	group.CreatedAt = time.Now()
	group.UpdatedAt = group.CreatedAt
	cp := *group
	m.groups[group.ID] = &cp
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id int64) (*model.Group, error) {
	if g, ok := m.groups[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) GetByName(_ context.Context, name string) (*model.Group, error) {
	for _, g := range m.groups {
		if g.Name == name {
			cp := *g
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) List(_ context.Context) ([]model.Group, error) {
	result := make([]model.Group, 0, len(m.groups))
	for _, g := range m.groups {
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockGroupRepo) Update(_ context.Context, group *model.Group) error {
	stored, ok := m.groups[group.ID]
	if !ok || stored.Version != group.Version {
		return pkgerrors.ErrOptimisticLock
	}
	group.Version++
	cp := *group
	m.groups[group.ID] = &cp
	return nil
}

func (m *mockGroupRepo) Delete(_ context.Context, id int64) error {
	delete(m.groups, id)
	return nil
}

func (m *mockGroupRepo) CountStudents(_ context.Context, groupID int64) (int64, error) {
	var n int64
	for _, st := range m.students.students {
		if st.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

func (m *mockGroupRepo) RecountAmount(ctx context.Context, groupIDs []int64) error {
	sorted := append([]int64(nil), groupIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	m.recounts = append(m.recounts, sorted)
	for _, id := range groupIDs {
		if g, ok := m.groups[id]; ok {
			n, _ := m.CountStudents(ctx, id)
			g.Amount = int(n)
		}
	}
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students  map[int64]*model.Student
	groups    *mockGroupRepo
	nextID    int64
	createErr error
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[int64]*model.Student), nextID: 1}
}

func (m *mockStudentRepo) withGroup(st *model.Student) *model.Student {
	cp := *st
	if m.groups != nil {
		if g, ok := m.groups.groups[st.GroupID]; ok {
			gc := *g
			cp.Group = &gc
		}
	}
	return &cp
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	student.ID = m.nextID
	m.nextID++
	cp := *student
	cp.Group = nil
	m.students[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id int64) (*model.Student, error) {
	if st, ok := m.students[id]; ok {
		return m.withGroup(st), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(_ context.Context) ([]model.Student, error) {
	ids := make([]int64, 0, len(m.students))
	for id := range m.students {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]model.Student, 0, len(ids))
	for _, id := range ids {
		result = append(result, *m.withGroup(m.students[id]))
	}
	return result, nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *student
	cp.Group = nil
	m.students[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id int64) error {
	delete(m.students, id)
	return nil
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[int64]*model.Subject
	nextID   int64
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[int64]*model.Subject), nextID: 1}
}

func (m *mockSubjectRepo) Create(_ context.Context, subject *model.Subject) error {
	subject.ID = m.nextID
	m.nextID++
	cp := *subject
	m.subjects[subject.ID] = &cp
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id int64) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) List(_ context.Context) ([]model.Subject, error) {
	result := make([]model.Subject, 0, len(m.subjects))
	for _, s := range m.subjects {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockSubjectRepo) ListByIDs(_ context.Context, ids []int64) ([]model.Subject, error) {
	var result []model.Subject
	for _, id := range ids {
		if s, ok := m.subjects[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSubjectRepo) Update(_ context.Context, subject *model.Subject) error {
	cp := *subject
	m.subjects[subject.ID] = &cp
	return nil
}

func (m *mockSubjectRepo) Delete(_ context.Context, id int64) error {
	delete(m.subjects, id)
	return nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	teachers map[int64]*model.Teacher
	nextID   int64
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[int64]*model.Teacher), nextID: 1}
}

func (m *mockTeacherRepo) Create(_ context.Context, teacher *model.Teacher) error {
	teacher.ID = m.nextID
	m.nextID++
	cp := *teacher
	m.teachers[teacher.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id int64) (*model.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) List(_ context.Context) ([]model.Teacher, error) {
	result := make([]model.Teacher, 0, len(m.teachers))
	for _, t := range m.teachers {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Fullname < result[j].Fullname })
	return result, nil
}

func (m *mockTeacherRepo) Update(_ context.Context, teacher *model.Teacher) error {
	cp := *teacher
	m.teachers[teacher.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) Delete(_ context.Context, id int64) error {
	delete(m.teachers, id)
	return nil
}

// ── Mock GradeRepository ──

type mockGradeRepo struct {
	grades map[int64]*model.Grade
	nextID int64
}

func newMockGradeRepo() *mockGradeRepo {
	return &mockGradeRepo{grades: make(map[int64]*model.Grade), nextID: 1}
}

func (m *mockGradeRepo) Create(_ context.Context, grade *model.Grade) error {
	grade.ID = m.nextID
	m.nextID++
	cp := *grade
	m.grades[grade.ID] = &cp
	return nil
}

func (m *mockGradeRepo) GetByID(_ context.Context, id int64) (*model.Grade, error) {
	if g, ok := m.grades[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) List(_ context.Context) ([]model.Grade, error) {
	result := make([]model.Grade, 0, len(m.grades))
	for _, g := range m.grades {
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockGradeRepo) ListByStudent(_ context.Context, studentID int64) ([]model.Grade, error) {
	var result []model.Grade
	for _, g := range m.grades {
		if g.StudentID == studentID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGradeRepo) Update(_ context.Context, grade *model.Grade) error {
	cp := *grade
	m.grades[grade.ID] = &cp
	return nil
}

func (m *mockGradeRepo) Delete(_ context.Context, id int64) error {
	delete(m.grades, id)
	return nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
	getErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = m.nextID
	m.nextID++
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock RefreshTokenRepository ──

type mockRefreshTokenRepo struct {
	tokens map[string]*model.RefreshToken
	nextID int64
}

func newMockRefreshTokenRepo() *mockRefreshTokenRepo {
	return &mockRefreshTokenRepo{tokens: make(map[string]*model.RefreshToken), nextID: 1}
}

func (m *mockRefreshTokenRepo) Create(_ context.Context, token *model.RefreshToken) error {
	token.ID = m.nextID
	m.nextID++
	cp := *token
	m.tokens[token.Token] = &cp
	return nil
}

func (m *mockRefreshTokenRepo) GetByToken(_ context.Context, token string) (*model.RefreshToken, error) {
	if t, ok := m.tokens[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRefreshTokenRepo) Delete(_ context.Context, id int64) error {
	for k, t := range m.tokens {
		if t.ID == id {
			delete(m.tokens, k)
		}
	}
	return nil
}

func (m *mockRefreshTokenRepo) DeleteByUser(_ context.Context, userID int64) error {
	for k, t := range m.tokens {
		if t.UserID == userID {
			delete(m.tokens, k)
		}
	}
	return nil
}

func (m *mockRefreshTokenRepo) countForUser(userID int64) int {
	n := 0
	for _, t := range m.tokens {
		if t.UserID == userID {
			n++
		}
	}
	return n
}

// ── aggregate ──

type mockRepos struct {
	students      *mockStudentRepo
	groups        *mockGroupRepo
	subjects      *mockSubjectRepo
	teachers      *mockTeacherRepo
	grades        *mockGradeRepo
	users         *mockUserRepo
	refreshTokens *mockRefreshTokenRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	students := newMockStudentRepo()
	groups := newMockGroupRepo(students)
	students.groups = groups

	m := &mockRepos{
		students:      students,
		groups:        groups,
		subjects:      newMockSubjectRepo(),
		teachers:      newMockTeacherRepo(),
		grades:        newMockGradeRepo(),
		users:         newMockUserRepo(),
		refreshTokens: newMockRefreshTokenRepo(),
	}
	repo := &repository.Repository{
		Student:      m.students,
		Group:        m.groups,
		Subject:      m.subjects,
		Teacher:      m.teachers,
		Grade:        m.grades,
		User:         m.users,
		RefreshToken: m.refreshTokens,
	}
	return repo, m
}

func nopLogger() *zap.Logger { return zap.NewNop() }
