package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lumanotes/session-backend/internal/controllers"
	"github.com/lumanotes/session-backend/internal/middleware"
	"github.com/lumanotes/session-backend/internal/models"
	"github.com/lumanotes/session-backend/internal/routes"
	"github.com/lumanotes/session-backend/internal/services"
	"golang.org/x/crypto/bcrypt"
)

const (
	testCookieName = "__session"
	testSecret     = "test-secret-key-minimum-32-characters-long"
	testUserAgent  = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
)

// fakeStore is an in-memory stand-in for the GORM repositories, good enough
// to run handlers end to end without a database.
type fakeStore struct {
	mu sync.Mutex

	users       map[uuid.UUID]*models.User
	passwords   map[uuid.UUID]*models.Password // keyed by user id
	memberships map[uuid.UUID]*models.Membership
	sessions    map[uuid.UUID]*models.Session
	attempts    []models.LoginAttempt
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[uuid.UUID]*models.User),
		passwords:   make(map[uuid.UUID]*models.Password),
		memberships: make(map[uuid.UUID]*models.Membership),
		sessions:    make(map[uuid.UUID]*models.Session),
	}
}

// UserRepository

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	out := *user
	out.Memberships = f.membershipsForLocked(id)
	return &out, nil
}

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			out := *user
			out.Memberships = f.membershipsForLocked(user.ID)
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetByEmailWithPassword(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			out := *user
			if password, ok := f.passwords[user.ID]; ok {
				p := *password
				out.Password = &p
			}
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetPassword(ctx context.Context, userID uuid.UUID) (*models.Password, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	password, ok := f.passwords[userID]
	if !ok {
		return nil, nil
	}
	p := *password
	return &p, nil
}

func (f *fakeStore) Create(ctx context.Context, user *models.User, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	stored := *user
	f.users[user.ID] = &stored
	f.passwords[user.ID] = &models.Password{ID: uuid.New(), UserID: user.ID, Hash: passwordHash}

	org := &models.Organization{ID: uuid.New(), Name: models.DefaultOrganizationName}
	membership := &models.Membership{
		ID:             uuid.New(),
		UserID:         user.ID,
		OrganizationID: org.ID,
		Role:           models.RoleAdmin,
		CreatedAt:      time.Now().UTC(),
		Organization:   org,
	}
	f.memberships[membership.ID] = membership

	user.Memberships = []models.Membership{*membership}
	return nil
}

func (f *fakeStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) DeleteByEmail(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, user := range f.users {
		if user.Email == email {
			delete(f.users, id)
			delete(f.passwords, id)
		}
	}
	return nil
}

func (f *fakeStore) membershipsForLocked(userID uuid.UUID) []models.Membership {
	var out []models.Membership
	for _, membership := range f.memberships {
		if membership.UserID == userID {
			out = append(out, *membership)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// MembershipRepository

func (f *fakeStore) GetMembershipByID(ctx context.Context, id uuid.UUID) (*models.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	membership, ok := f.memberships[id]
	if !ok {
		return nil, nil
	}
	out := *membership
	return &out, nil
}

func (f *fakeStore) GetByUserAndID(ctx context.Context, userID, id uuid.UUID) (*models.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	membership, ok := f.memberships[id]
	if !ok || membership.UserID != userID {
		return nil, nil
	}
	out := *membership
	return &out, nil
}

func (f *fakeStore) FirstForUser(ctx context.Context, userID uuid.UUID) (*models.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.membershipsForLocked(userID)
	if len(all) == 0 {
		return nil, nil
	}
	return &all[0], nil
}

// SessionRepository

func (f *fakeStore) CreateSession(ctx context.Context, session *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session.ID = uuid.New()
	session.CreatedAt = time.Now().UTC()
	stored := *session
	f.sessions[session.ID] = &stored
	return nil
}

func (f *fakeStore) GetSessionByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	out := *session
	return &out, nil
}

func (f *fakeStore) Update(ctx context.Context, id uuid.UUID, membershipID *uuid.UUID, lastActive time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return nil
	}
	if membershipID != nil {
		session.MembershipID = *membershipID
	}
	session.LastActive = lastActive
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Session
	for _, session := range f.sessions {
		if session.UserID == userID {
			out = append(out, *session)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActive.After(out[j].LastActive) })
	return out, nil
}

func (f *fakeStore) LastActiveForUser(ctx context.Context, userID uuid.UUID) (*models.Session, error) {
	sessions, _ := f.ListByUser(ctx, userID)
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

func (f *fakeStore) DeleteOthers(ctx context.Context, userID, keep uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, session := range f.sessions {
		if session.UserID == userID && id != keep {
			delete(f.sessions, id)
		}
	}
	return nil
}

// LoginAttemptRepository

func (f *fakeStore) CreateAttempt(ctx context.Context, attempt *models.LoginAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	attempt.ID = uuid.New()
	f.attempts = append(f.attempts, *attempt)
	return nil
}

func (f *fakeStore) ListAttemptsByUser(ctx context.Context, userID uuid.UUID) ([]models.LoginAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.LoginAttempt
	for _, attempt := range f.attempts {
		if attempt.UserID != nil && *attempt.UserID == userID {
			out = append(out, attempt)
		}
	}
	return out, nil
}

func (f *fakeStore) sessionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func (f *fakeStore) attemptCount(success bool) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, attempt := range f.attempts {
		if attempt.Success == success {
			n++
		}
	}
	return n
}

// Adapter types so one fakeStore can satisfy all repository interfaces
// despite the overlapping method names.

type fakeUserRepo struct{ *fakeStore }

type fakeMembershipRepo struct{ *fakeStore }

func (f fakeMembershipRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Membership, error) {
	return f.GetMembershipByID(ctx, id)
}

type fakeSessionRepo struct{ *fakeStore }

func (f fakeSessionRepo) Create(ctx context.Context, session *models.Session) error {
	return f.CreateSession(ctx, session)
}

func (f fakeSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	return f.GetSessionByID(ctx, id)
}

type fakeAttemptRepo struct{ *fakeStore }

func (f fakeAttemptRepo) Create(ctx context.Context, attempt *models.LoginAttempt) error {
	return f.CreateAttempt(ctx, attempt)
}

func (f fakeAttemptRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.LoginAttempt, error) {
	return f.ListAttemptsByUser(ctx, userID)
}

type testEnv struct {
	router *gin.Engine
	store  *fakeStore
	codec  *services.SessionTokenCodec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeStore()

	credentialService := services.NewCredentialService(
		fakeUserRepo{store}, fakeAttemptRepo{store}, nil, bcrypt.MinCost,
	)
	membershipService := services.NewMembershipService(fakeMembershipRepo{store}, fakeSessionRepo{store})
	sessionService := services.NewSessionService(fakeSessionRepo{store}, membershipService, credentialService)

	strategies := services.NewStrategyRegistry()
	strategies.Register("form", services.NewFormStrategy(credentialService))

	codec := services.NewSessionTokenCodec(testSecret)

	authController := controllers.NewAuthController(
		strategies, credentialService, sessionService, codec,
		testCookieName, false, 7*24*time.Hour,
	)
	sessionController := controllers.NewSessionController(sessionService, membershipService)
	userController := controllers.NewUserController(credentialService, membershipService, testCookieName, false)

	router := gin.New()
	sessionMiddleware := middleware.Session(sessionService, codec, testCookieName, false)
	routes.SetupRoutes(router, authController, sessionController, userController, sessionMiddleware, middleware.RequireAuth())

	return &testEnv{router: router, store: store, codec: codec}
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", testUserAgent)
	req.RemoteAddr = "203.0.113.9:52514"
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(t *testing.T, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("User-Agent", testUserAgent)
	req.RemoteAddr = "203.0.113.9:52514"
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == testCookieName && cookie.Value != "" {
			return cookie
		}
	}
	return nil
}

// join registers a user through the HTTP surface and returns the session cookie.
func (e *testEnv) join(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	w := e.postForm(t, "/auth/join", url.Values{
		"email":    {email},
		"password": {password},
	}, nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("join failed with status %d: %s", w.Code, w.Body.String())
	}
	cookie := sessionCookie(t, w)
	if cookie == nil {
		t.Fatal("join did not set a session cookie")
	}
	return cookie
}

// login authenticates through the HTTP surface and returns the session cookie.
func (e *testEnv) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	w := e.postForm(t, "/auth/login", url.Values{
		"email":    {email},
		"password": {password},
	}, nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	cookie := sessionCookie(t, w)
	if cookie == nil {
		t.Fatal("login did not set a session cookie")
	}
	return cookie
}
