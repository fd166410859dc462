package router

import (
    "context"
    "sort"
    "strings"
    "sync"
    "time"

    "github.com/iliyamo/coursehub/internal/model"
    "github.com/iliyamo/coursehub/internal/repository"
    "github.com/iliyamo/coursehub/internal/utils"
)

// memDB is an in-memory stand-in for the MySQL repositories with the same
// sentinel errors and uniqueness rules.
type memDB struct {
    mu          sync.Mutex
    now         time.Time
    users       map[uint64]*model.User
    courses     map[uint64]*model.Course
    lessons     map[uint64]*model.Lesson
    enrollments map[[2]uint64]*model.Enrollment
    payments    map[uint64]*model.Payment
    seq         uint64
}

func newMemDB() *memDB {
    return &memDB{
        now:         time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
        users:       map[uint64]*model.User{},
        courses:     map[uint64]*model.Course{},
        lessons:     map[uint64]*model.Lesson{},
        enrollments: map[[2]uint64]*model.Enrollment{},
        payments:    map[uint64]*model.Payment{},
    }
}

func (db *memDB) nextID() uint64 { db.seq++; return db.seq }

type memUsers struct{ *memDB }

func (s memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    email = strings.ToLower(strings.TrimSpace(email))
    for _, u := range s.users {
        if u.Email == email {
            cp := *u
            return &cp, nil
        }
    }
    return nil, nil
}

func (s memUsers) FindOrFailByID(_ context.Context, id uint64) (*model.User, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    u, ok := s.users[id]
    if !ok {
        return nil, repository.ErrNotFound
    }
    cp := *u
    return &cp, nil
}

func (s memUsers) Create(ctx context.Context, in repository.NewUser) (*model.User, error) {
    hash, err := utils.HashPassword(in.Password, 4)
    if err != nil {
        return nil, err
    }
    if u, _ := s.FindByEmail(ctx, in.Email); u != nil {
        return nil, repository.ErrDuplicate
    }
    s.mu.Lock()
    role := in.Role
    if !role.Valid() {
        role = model.RoleUser
    }
    u := &model.User{
        ID:           s.nextID(),
        Email:        strings.ToLower(strings.TrimSpace(in.Email)),
        PasswordHash: hash,
        Role:         role,
        Profile:      model.Profile{FirstName: in.FirstName, LastName: in.LastName, Bio: in.Bio},
        CreatedAt:    s.now,
        UpdatedAt:    s.now,
    }
    s.users[u.ID] = u
    s.mu.Unlock()
    return s.FindOrFailByID(ctx, u.ID)
}

func (s memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
    u, err := s.FindByEmail(ctx, email)
    return u != nil, err
}

func (s memUsers) List(context.Context) ([]*model.User, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := []*model.User{}
    for _, u := range s.users {
        cp := *u
        out = append(out, &cp)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (s memUsers) UpdateProfile(ctx context.Context, id uint64, p model.Profile) (*model.User, error) {
    s.mu.Lock()
    u, ok := s.users[id]
    if ok {
        u.Profile = p
    }
    s.mu.Unlock()
    if !ok {
        return nil, repository.ErrNotFound
    }
    return s.FindOrFailByID(ctx, id)
}

func (s memUsers) Delete(_ context.Context, id uint64) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.users[id]; !ok {
        return repository.ErrNotFound
    }
    delete(s.users, id)
    return nil
}

type memCourses struct{ *memDB }

func (s memCourses) Create(_ context.Context, c *model.Course) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    c.ID = s.nextID()
    c.CreatedAt, c.UpdatedAt = s.now, s.now
    cp := *c
    s.courses[c.ID] = &cp
    return nil
}

func (s memCourses) GetByID(_ context.Context, id uint64) (*model.Course, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    c, ok := s.courses[id]
    if !ok {
        return nil, repository.ErrNotFound
    }
    cp := *c
    return &cp, nil
}

func (s memCourses) List(context.Context) ([]*model.Course, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := []*model.Course{}
    for _, c := range s.courses {
        cp := *c
        out = append(out, &cp)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (s memCourses) Update(_ context.Context, c *model.Course) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    cur, ok := s.courses[c.ID]
    if !ok {
        return repository.ErrNotFound
    }
    cur.Title, cur.Description, cur.PriceCents = c.Title, c.Description, c.PriceCents
    *c = *cur
    return nil
}

func (s memCourses) Delete(_ context.Context, id uint64) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.courses[id]; !ok {
        return repository.ErrNotFound
    }
    delete(s.courses, id)
    for lid, l := range s.lessons {
        if l.CourseID == id {
            delete(s.lessons, lid)
        }
    }
    return nil
}

type memLessons struct{ *memDB }

func (s memLessons) Create(_ context.Context, l *model.Lesson) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.courses[l.CourseID]; !ok {
        return repository.ErrNotFound
    }
    l.ID = s.nextID()
    l.CreatedAt, l.UpdatedAt = s.now, s.now
    cp := *l
    s.lessons[l.ID] = &cp
    return nil
}

func (s memLessons) GetByID(_ context.Context, id uint64) (*model.Lesson, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    l, ok := s.lessons[id]
    if !ok {
        return nil, repository.ErrNotFound
    }
    cp := *l
    return &cp, nil
}

func (s memLessons) ListByCourse(_ context.Context, courseID uint64) ([]*model.Lesson, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := []*model.Lesson{}
    for _, l := range s.lessons {
        if l.CourseID == courseID {
            cp := *l
            out = append(out, &cp)
        }
    }
    sort.Slice(out, func(i, j int) bool {
        if out[i].Position != out[j].Position {
            return out[i].Position < out[j].Position
        }
        return out[i].ID < out[j].ID
    })
    return out, nil
}

func (s memLessons) Update(_ context.Context, l *model.Lesson) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    cur, ok := s.lessons[l.ID]
    if !ok {
        return repository.ErrNotFound
    }
    cur.Title, cur.Content, cur.Position = l.Title, l.Content, l.Position
    *l = *cur
    return nil
}

func (s memLessons) Delete(_ context.Context, id uint64) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.lessons[id]; !ok {
        return repository.ErrNotFound
    }
    delete(s.lessons, id)
    return nil
}

type memEnrollments struct{ *memDB }

func (s memEnrollments) Create(_ context.Context, userID, courseID uint64) (*model.Enrollment, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    key := [2]uint64{userID, courseID}
    if _, ok := s.enrollments[key]; ok {
        return nil, repository.ErrDuplicate
    }
    if _, ok := s.users[userID]; !ok {
        return nil, repository.ErrNotFound
    }
    if _, ok := s.courses[courseID]; !ok {
        return nil, repository.ErrNotFound
    }
    e := &model.Enrollment{ID: s.nextID(), UserID: userID, CourseID: courseID,
        Status: model.StatusNew, CreatedAt: s.now, UpdatedAt: s.now}
    s.enrollments[key] = e
    cp := *e
    return &cp, nil
}

func (s memEnrollments) Get(_ context.Context, userID, courseID uint64) (*model.Enrollment, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    e, ok := s.enrollments[[2]uint64{userID, courseID}]
    if !ok {
        return nil, repository.ErrNotFound
    }
    cp := *e
    return &cp, nil
}

func (s memEnrollments) ListByUser(_ context.Context, userID uint64) ([]*model.Enrollment, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := []*model.Enrollment{}
    for _, e := range s.enrollments {
        if e.UserID == userID {
            cp := *e
            out = append(out, &cp)
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (s memEnrollments) SetStatus(ctx context.Context, userID, courseID uint64, status model.EnrollmentStatus) (*model.Enrollment, error) {
    s.mu.Lock()
    e, ok := s.enrollments[[2]uint64{userID, courseID}]
    if ok {
        e.Status = status
    }
    s.mu.Unlock()
    if !ok {
        return nil, repository.ErrNotFound
    }
    return s.Get(ctx, userID, courseID)
}

func (s memEnrollments) SettlePayment(_ context.Context, userID, courseID uint64) (*model.Payment, *model.Enrollment, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    e, ok := s.enrollments[[2]uint64{userID, courseID}]
    if !ok {
        return nil, nil, repository.ErrNotFound
    }
    if !e.Status.CanTransition(model.StatusPaid) {
        return nil, nil, repository.ErrConflict
    }
    c, ok := s.courses[courseID]
    if !ok {
        return nil, nil, repository.ErrNotFound
    }
    p := &model.Payment{ID: s.nextID(), UserID: userID, CourseID: courseID,
        AmountCents: c.PriceCents, CreatedAt: s.now}
    s.payments[p.ID] = p
    e.Status = model.StatusPaid
    pc, ec := *p, *e
    return &pc, &ec, nil
}

type memPayments struct{ *memDB }

func (s memPayments) GetByID(_ context.Context, id uint64) (*model.Payment, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    p, ok := s.payments[id]
    if !ok {
        return nil, repository.ErrNotFound
    }
    cp := *p
    return &cp, nil
}

func (s memPayments) list(keep func(*model.Payment) bool) []*model.Payment {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := []*model.Payment{}
    for _, p := range s.payments {
        if keep(p) {
            cp := *p
            out = append(out, &cp)
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
    return out
}

func (s memPayments) ListByUser(_ context.Context, userID uint64) ([]*model.Payment, error) {
    return s.list(func(p *model.Payment) bool { return p.UserID == userID }), nil
}

func (s memPayments) ListAll(context.Context) ([]*model.Payment, error) {
    return s.list(func(*model.Payment) bool { return true }), nil
}
