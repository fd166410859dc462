package router

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strconv"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/coursehub/internal/handler"
    "github.com/iliyamo/coursehub/internal/model"
    "github.com/iliyamo/coursehub/internal/service"
    "github.com/iliyamo/coursehub/internal/utils"
)

type testApp struct {
    e      *echo.Echo
    db     *memDB
    issuer *utils.TokenIssuer
}

func newTestApp(t *testing.T) *testApp {
    t.Helper()
    db := newMemDB()
    users, courses, lessons := memUsers{db}, memCourses{db}, memLessons{db}
    enrollments, payments := memEnrollments{db}, memPayments{db}
    issuer := utils.NewTokenIssuer("access-secret", "refresh-secret", time.Hour, 180*24*time.Hour)

    e := echo.New()
    g := NewGuards(issuer, nil)
    RegisterRoutes(e, nil, nil)
    RegisterAuth(e, handler.NewAuthHandler(service.NewAuthService(users, issuer, nil, nil),
        handler.CookieConfig{Secure: true, TTL: 180 * 24 * time.Hour}, nil), g)
    RegisterCatalog(e, handler.NewCatalogHandler(service.NewCatalogService(courses, lessons, nil), nil), g)
    RegisterEnrollment(e,
        handler.NewEnrollmentHandler(service.NewEnrollmentService(users, courses, enrollments, nil, nil, nil), nil),
        handler.NewPaymentHandler(service.NewPaymentService(payments), nil), g)
    RegisterUsers(e, handler.NewUserHandler(service.NewUserService(users, nil), nil), g)
    return &testApp{e: e, db: db, issuer: issuer}
}

type reqOpt func(*http.Request)

func bearer(token string) reqOpt {
    return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookie(c *http.Cookie) reqOpt {
    return func(r *http.Request) { r.AddCookie(c) }
}

func (a *testApp) do(method, path, body string, opts ...reqOpt) *httptest.ResponseRecorder {
    var req *http.Request
    if body == "" {
        req = httptest.NewRequest(method, path, nil)
    } else {
        req = httptest.NewRequest(method, path, strings.NewReader(body))
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    for _, o := range opts {
        o(req)
    }
    rec := httptest.NewRecorder()
    a.e.ServeHTTP(rec, req)
    return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
    t.Helper()
    var v T
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
    return v
}

func refreshCookie(rec *httptest.ResponseRecorder) *http.Cookie {
    for _, c := range rec.Result().Cookies() {
        if c.Name == handler.RefreshCookie {
            return c
        }
    }
    return nil
}

const studentBody = `{"first_name":"Stu","last_name":"Dent","email":"student@example.com","password":"pass"}`

func (a *testApp) register(t *testing.T) string {
    t.Helper()
    rec := a.do(http.MethodPost, "/auth/register", studentBody)
    require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
    return decode[map[string]string](t, rec)["access_token"]
}

// admin seeds an ADMIN account and returns an access token for it.
func (a *testApp) admin(t *testing.T) string {
    t.Helper()
    a.db.mu.Lock()
    id := a.db.nextID()
    a.db.users[id] = &model.User{ID: id, Email: "admin@example.com", Role: model.RoleAdmin}
    a.db.mu.Unlock()
    pair, err := a.issuer.IssuePair(utils.Claims{ID: id, Email: "admin@example.com", Role: string(model.RoleAdmin)})
    require.NoError(t, err)
    return pair.AccessToken
}

func (a *testApp) seedCourse(t *testing.T, title string, price int64) uint64 {
    t.Helper()
    c := &model.Course{Title: title, PriceCents: price}
    require.NoError(t, memCourses{a.db}.Create(context.Background(), c))
    return c.ID
}

func TestRegisterTwiceConflicts(t *testing.T) {
    app := newTestApp(t)

    first := app.do(http.MethodPost, "/auth/register", studentBody)
    require.Equal(t, http.StatusCreated, first.Code)
    assert.NotEmpty(t, decode[map[string]string](t, first)["access_token"])

    ck := refreshCookie(first)
    require.NotNil(t, ck)
    assert.True(t, ck.HttpOnly)
    assert.True(t, ck.Secure)
    assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
    assert.Equal(t, "/", ck.Path)
    assert.NotEmpty(t, ck.Value)

    second := app.do(http.MethodPost, "/auth/register", studentBody)
    assert.Equal(t, http.StatusConflict, second.Code)
    assert.Equal(t, "email already exists", decode[map[string]string](t, second)["error"])
    assert.Len(t, app.db.users, 1)
}

func TestRegisterValidation(t *testing.T) {
    app := newTestApp(t)
    cases := map[string]string{
        "short password": `{"first_name":"A","last_name":"B","email":"a@b.co","password":"abc"}`,
        "bad email":      `{"first_name":"A","last_name":"B","email":"nope","password":"abcd"}`,
        "missing name":   `{"last_name":"B","email":"a@b.co","password":"abcd"}`,
        "not json":       `{`,
    }
    for name, body := range cases {
        t.Run(name, func(t *testing.T) {
            rec := app.do(http.MethodPost, "/auth/register", body)
            assert.Equal(t, http.StatusBadRequest, rec.Code)
            assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
        })
    }
    assert.Empty(t, app.db.users)
}

func TestRegisterRejectsPasswordOverBcryptLimit(t *testing.T) {
    app := newTestApp(t)
    // 40 characters but 80 bytes.
    pw := strings.Repeat("é", 40)
    rec := app.do(http.MethodPost, "/auth/register",
        `{"first_name":"A","last_name":"B","email":"a@b.co","password":"`+pw+`"}`)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, decode[map[string]string](t, rec)["error"], "password")
    assert.Empty(t, app.db.users)

    // Exactly at the limit is still accepted.
    rec = app.do(http.MethodPost, "/auth/register",
        `{"first_name":"A","last_name":"B","email":"a@b.co","password":"`+strings.Repeat("é", 36)+`"}`)
    assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
    app := newTestApp(t)
    app.register(t)

    wrongPw := app.do(http.MethodPost, "/auth/login", `{"email":"student@example.com","password":"nope"}`)
    noUser := app.do(http.MethodPost, "/auth/login", `{"email":"ghost@example.com","password":"nope"}`)
    assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
    assert.Equal(t, http.StatusUnauthorized, noUser.Code)
    assert.Equal(t, wrongPw.Body.String(), noUser.Body.String())
    assert.Nil(t, refreshCookie(wrongPw))

    ok := app.do(http.MethodPost, "/auth/login", `{"email":"Student@Example.com","password":"pass"}`)
    assert.Equal(t, http.StatusOK, ok.Code)
    assert.NotNil(t, refreshCookie(ok))
}

func TestAccessTokenClaimsAndMe(t *testing.T) {
    app := newTestApp(t)
    token := app.register(t)

    claims, err := app.issuer.VerifyAccess(token)
    require.NoError(t, err)
    assert.Equal(t, "student@example.com", claims.Email)
    assert.Equal(t, "USER", claims.Role)

    rec := app.do(http.MethodGet, "/auth/me", "", bearer(token))
    require.Equal(t, http.StatusOK, rec.Code)
    me := decode[model.UserView](t, rec)
    assert.Equal(t, claims.ID, me.ID)
    assert.Equal(t, "Stu", me.FirstName)
    assert.Equal(t, model.RoleUser, me.Role)

    assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/auth/me", "").Code)
    assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/auth/me", "", bearer("garbage")).Code)

    // The identity vanished after the token was issued.
    delete(app.db.users, claims.ID)
    assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/auth/me", "", bearer(token)).Code)
}

func TestCheck(t *testing.T) {
    app := newTestApp(t)
    app.register(t)

    assert.JSONEq(t, `{"result":true}`, app.do(http.MethodGet, "/auth/check?email=student@example.com", "").Body.String())
    assert.JSONEq(t, `{"result":false}`, app.do(http.MethodGet, "/auth/check?email=x@example.com", "").Body.String())
    assert.JSONEq(t, `{"result":false}`, app.do(http.MethodGet, "/auth/check", "").Body.String())
}

func TestRefreshRotatesCookie(t *testing.T) {
    app := newTestApp(t)
    rec := app.do(http.MethodPost, "/auth/register", studentBody)
    require.Equal(t, http.StatusCreated, rec.Code)
    ck := refreshCookie(rec)
    require.NotNil(t, ck)

    out := app.do(http.MethodPost, "/auth/refresh", "", withCookie(ck))
    require.Equal(t, http.StatusOK, out.Code)
    assert.NotEmpty(t, decode[map[string]string](t, out)["access_token"])
    assert.NotNil(t, refreshCookie(out))

    assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodPost, "/auth/refresh", "").Code)
    bad := app.do(http.MethodPost, "/auth/refresh", "", withCookie(&http.Cookie{Name: handler.RefreshCookie, Value: "forged"}))
    assert.Equal(t, http.StatusUnauthorized, bad.Code)
}

func TestLogoutAlwaysClears(t *testing.T) {
    app := newTestApp(t)
    for _, opts := range [][]reqOpt{
        nil,
        {withCookie(&http.Cookie{Name: handler.RefreshCookie, Value: "whatever"})},
    } {
        rec := app.do(http.MethodPost, "/auth/logout", "", opts...)
        require.Equal(t, http.StatusOK, rec.Code)
        assert.JSONEq(t, `{"access_token":""}`, rec.Body.String())
        ck := refreshCookie(rec)
        require.NotNil(t, ck)
        assert.Empty(t, ck.Value)
        assert.Less(t, ck.MaxAge, 0)
    }
}

func TestCourseRegistrationTwiceConflicts(t *testing.T) {
    app := newTestApp(t)
    token := app.register(t)
    courseID := app.seedCourse(t, "Go", 4900)
    path := "/courses/" + itoa(courseID) + "/register"

    first := app.do(http.MethodPost, path, "", bearer(token))
    require.Equal(t, http.StatusCreated, first.Code)
    second := app.do(http.MethodPost, path, "", bearer(token))
    assert.Equal(t, http.StatusConflict, second.Code)
    assert.Len(t, app.db.enrollments, 1)

    assert.Equal(t, http.StatusNotFound, app.do(http.MethodPost, "/courses/999/register", "", bearer(token)).Code)
    assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodPost, path, "").Code)
}

func TestPayWithoutRegistrationIsNotFound(t *testing.T) {
    app := newTestApp(t)
    token := app.register(t)
    courseID := app.seedCourse(t, "Go", 4900)

    rec := app.do(http.MethodPost, "/courses/"+itoa(courseID)+"/pay", "", bearer(token))
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.Empty(t, app.db.payments)
}

func TestEndToEnd(t *testing.T) {
    app := newTestApp(t)
    adminToken := app.admin(t)

    rec := app.do(http.MethodPost, "/courses", `{"title":"Go in Practice","description":"d","price_cents":4900}`, bearer(adminToken))
    require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
    course := decode[model.Course](t, rec)
    other := app.seedCourse(t, "Other", 100)

    for i, title := range []string{"Intro", "Goroutines"} {
        body := `{"course_id":` + itoa(course.ID) + `,"title":"` + title + `","content":"...","position":` + itoa(uint64(i)) + `}`
        require.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/lessons", body, bearer(adminToken)).Code)
    }
    require.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/lessons",
        `{"course_id":`+itoa(other)+`,"title":"Elsewhere"}`, bearer(adminToken)).Code)

    token := app.register(t)
    base := "/courses/" + itoa(course.ID)

    rec = app.do(http.MethodPost, base+"/register", "", bearer(token))
    require.Equal(t, http.StatusCreated, rec.Code)
    assert.Equal(t, model.StatusNew, decode[model.Enrollment](t, rec).Status)

    rec = app.do(http.MethodPost, base+"/pay", "", bearer(token))
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    paid := decode[service.PaymentResult](t, rec)
    assert.True(t, paid.Success)
    assert.Equal(t, model.StatusPaid, paid.Enrollment.Status)
    assert.Equal(t, int64(4900), paid.Payment.AmountCents)

    // Paying twice is a conflict and records nothing.
    assert.Equal(t, http.StatusConflict, app.do(http.MethodPost, base+"/pay", "", bearer(token)).Code)
    assert.Len(t, app.db.payments, 1)

    rec = app.do(http.MethodGet, base+"/lessons", "")
    require.Equal(t, http.StatusOK, rec.Code)
    lessons := decode[[]model.Lesson](t, rec)
    require.Len(t, lessons, 2)
    assert.Equal(t, "Intro", lessons[0].Title)
    for _, l := range lessons {
        assert.Equal(t, course.ID, l.CourseID)
    }

    rec = app.do(http.MethodGet, "/payments", "", bearer(token))
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Len(t, decode[[]model.Payment](t, rec), 1)

    rec = app.do(http.MethodGet, "/me/enrollments", "", bearer(token))
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Len(t, decode[[]model.Enrollment](t, rec), 1)
}

func TestCreateLessonRequiresCourse(t *testing.T) {
    app := newTestApp(t)
    adminToken := app.admin(t)
    rec := app.do(http.MethodPost, "/lessons", `{"title":"Orphan"}`, bearer(adminToken))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, decode[map[string]string](t, rec)["error"], "course_id")
    assert.Empty(t, app.db.lessons)
}

func TestAdminGuards(t *testing.T) {
    app := newTestApp(t)
    token := app.register(t)
    adminToken := app.admin(t)
    courseID := app.seedCourse(t, "Go", 100)

    assert.Equal(t, http.StatusForbidden, app.do(http.MethodPost, "/courses", `{"title":"x"}`, bearer(token)).Code)
    assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodPost, "/courses", `{"title":"x"}`).Code)
    assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/users", "", bearer(token)).Code)
    assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/users", "", bearer(adminToken)).Code)

    claims, err := app.issuer.VerifyAccess(token)
    require.NoError(t, err)
    statusPath := "/courses/" + itoa(courseID) + "/enrollments/" + itoa(claims.ID) + "/status"
    assert.Equal(t, http.StatusNotFound, app.do(http.MethodPut, statusPath, `{"status":"PAID"}`, bearer(adminToken)).Code)

    require.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/courses/"+itoa(courseID)+"/register", "", bearer(token)).Code)
    assert.Equal(t, http.StatusForbidden, app.do(http.MethodPut, statusPath, `{"status":"PAID"}`, bearer(token)).Code)
    assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPut, statusPath, `{"status":"REFUNDED"}`, bearer(adminToken)).Code)

    rec := app.do(http.MethodPut, statusPath, `{"status":"WAITING_FOR_PAYMENT"}`, bearer(adminToken))
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, model.StatusWaitingForPayment, decode[model.Enrollment](t, rec).Status)
}

func TestUpdateOwnProfile(t *testing.T) {
    app := newTestApp(t)
    token := app.register(t)

    rec := app.do(http.MethodPatch, "/users/me", `{"first_name":"Ada","last_name":"Lovelace","bio":"math"}`, bearer(token))
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    view := decode[model.UserView](t, rec)
    assert.Equal(t, "Ada", view.FirstName)
    require.NotNil(t, view.Bio)
    assert.Equal(t, "math", *view.Bio)
}

func TestHealthz(t *testing.T) {
    app := newTestApp(t)
    rec := app.do(http.MethodGet, "/healthz", "")
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func itoa(n uint64) string { return strconv.FormatUint(n, 10) }
