package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	userapp "github.com/galeria-app/users-api/internal/application"
	"github.com/galeria-app/users-api/internal/domain/entity"
	repo "github.com/galeria-app/users-api/internal/domain/repository"
	handlers "github.com/galeria-app/users-api/internal/interface/http"
	"github.com/galeria-app/users-api/internal/interface/middleware"
	"github.com/galeria-app/users-api/internal/router"
	"github.com/galeria-app/users-api/internal/router/modules"
	"github.com/galeria-app/users-api/pkg/helpers"
	"github.com/galeria-app/users-api/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

// memRepo is an in-memory UserRepository backing the handler tests.
type memRepo struct {
	users       []*entity.User
	createCalls int
}

func (f *memRepo) clone(u *entity.User) *entity.User {
	c := *u
	return &c
}

func (f *memRepo) Create(_ context.Context, u *entity.User) error {
	f.createCalls++
	u.ID = primitive.NewObjectID()
	if u.Status == "" {
		u.Status = entity.StatusActive
	}
	if u.RegistrationDate.IsZero() {
		u.RegistrationDate = time.Now().UTC()
	}
	f.users = append(f.users, f.clone(u))
	return nil
}

func (f *memRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID.Hex() == id {
			return f.clone(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *memRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return f.clone(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *memRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return f.clone(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *memRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return f.clone(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *memRepo) UpdateByEmail(_ context.Context, email string, in entity.ProfileUpdate) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			if in.Username != "" {
				u.Username = in.Username
			}
			if in.Email != "" {
				u.Email = in.Email
			}
			if in.FullName != "" {
				u.FullName = in.FullName
			}
			if in.Bio != "" {
				u.Bio = in.Bio
			}
			return f.clone(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *memRepo) UpdatePassword(_ context.Context, id string, hash string) error {
	for _, u := range f.users {
		if u.ID.Hex() == id {
			u.Password = hash
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *memRepo) UpdateProfilePicture(_ context.Context, id string, url string) error {
	for _, u := range f.users {
		if u.ID.Hex() == id {
			u.ProfilePicture = url
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *memRepo) DeleteByUsername(_ context.Context, username string) (*entity.User, error) {
	for i, u := range f.users {
		if u.Username == username {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return f.clone(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

var _ repo.UserRepository = (*memRepo)(nil)

type testEnv struct {
	engine *gin.Engine
	repo   *memRepo
	jwt    *helpers.JWTManager
}

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := newTestLogger()
	f := &memRepo{}
	jwt := &helpers.JWTManager{Secret: []byte("test-secret"), TTL: 7 * 24 * time.Hour}
	svc := userapp.NewService(f, jwt, logger, nil, nil, "")
	h := handlers.NewUserHandler(svc, logger)

	r := gin.New()
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Hello, world!") })
	reg := router.NewRegistry(r)
	reg.Add(modules.NewUserModule(h, jwt, f))
	reg.RegisterAll()

	return &testEnv{engine: r, repo: f, jwt: jwt}
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func (e *testEnv) register(t *testing.T, username, email, password, fullName string) {
	t.Helper()
	w := e.do(http.MethodPost, "/users/register", "", gin.H{
		"username": username, "email": email, "password": password, "fullName": fullName,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	w := e.do(http.MethodPost, "/users/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestLiveness(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Hello, world!", w.Body.String())
}

func TestRegister_InvalidInputRejectedBeforeStore(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodPost, "/users/register", "", gin.H{
		"username": "alice", "email": "not-an-email", "password": "password123", "fullName": "Alice",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/users/register", "", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "short", "fullName": "Alice",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	require.Zero(t, e.repo.createCalls, "no store write may happen for invalid input")
	require.Empty(t, e.repo.users)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	e := newTestEnv(t)

	e.register(t, "alice", "alice@example.com", "password123", "Alice A")

	w := e.do(http.MethodPost, "/users/register", "", gin.H{
		"username": "alice", "email": "alice2@example.com", "password": "password123", "fullName": "Alice B",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "User already exists", decodeEnvelope(t, w).Message)
}

func TestLogin_StatusCodesAndTokenSubject(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "bob", "bob@example.com", "password123", "Bob")

	w := e.do(http.MethodPost, "/users/login", "", gin.H{"username": "ghost", "password": "password123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "User does not exist", decodeEnvelope(t, w).Message)

	w = e.do(http.MethodPost, "/users/login", "", gin.H{"username": "bob", "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Incorrect password", decodeEnvelope(t, w).Message)

	token := e.login(t, "bob", "password123")
	claims, err := e.jwt.Parse(token)
	require.NoError(t, err)

	stored, err := e.repo.FindByUsername(context.Background(), "bob")
	require.NoError(t, err)
	require.Equal(t, stored.ID.Hex(), claims.Subject)
	require.Equal(t, "bob", claims.Username)
}

func TestProfile_RequiresValidToken(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "carol", "carol@example.com", "password123", "Carol")

	w := e.do(http.MethodGet, "/users/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(http.MethodGet, "/users/profile", "garbage.token.here", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Token past its expiry is rejected.
	expired := &helpers.JWTManager{Secret: []byte("test-secret"), TTL: -time.Minute}
	stored, err := e.repo.FindByUsername(context.Background(), "carol")
	require.NoError(t, err)
	tok, _, err := expired.Generate(stored.ID.Hex(), "carol")
	require.NoError(t, err)
	w = e.do(http.MethodGet, "/users/profile", tok, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token := e.login(t, "carol", "password123")
	w = e.do(http.MethodGet, "/users/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var u entity.User
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &u))
	require.Equal(t, "carol", u.Username)
	require.Equal(t, "carol@example.com", u.Email)
}

func TestUpdateProfile(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "dave", "dave@example.com", "password123", "Dave")
	token := e.login(t, "dave", "password123")

	w := e.do(http.MethodPut, "/users/profile", token, gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "At least one field is required for the update", decodeEnvelope(t, w).Message)

	w = e.do(http.MethodPut, "/users/profile", token, gin.H{"bio": "gopher at large"})
	require.Equal(t, http.StatusOK, w.Code)

	var u entity.User
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &u))
	require.Equal(t, "gopher at large", u.Bio)
	require.Equal(t, "dave", u.Username, "bio-only update must not touch username")
	require.Equal(t, "dave@example.com", u.Email, "bio-only update must not touch email")

	stored, err := e.repo.FindByUsername(context.Background(), "dave")
	require.NoError(t, err)
	require.Equal(t, "gopher at large", stored.Bio)
}

func TestDeleteProfile(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "erin", "erin@example.com", "password123", "Erin")
	token := e.login(t, "erin", "password123")

	w := e.do(http.MethodDelete, "/users/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, e.repo.users)

	// The record is gone, so the token's subject no longer resolves: the
	// auth middleware answers 401 before the handler runs.
	w = e.do(http.MethodDelete, "/users/profile", token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteProfile_MissingRecordIs404(t *testing.T) {
	e := newTestEnv(t)
	logger := newTestLogger()
	svc := userapp.NewService(e.repo, e.jwt, logger, nil, nil, "")
	h := handlers.NewUserHandler(svc, logger)

	// Drive the handler with authenticated context but no matching record.
	r := gin.New()
	r.DELETE("/users/profile", func(c *gin.Context) {
		c.Set(middleware.CtxUsernameKey, "nobody")
	}, h.DeleteProfile)

	req := httptest.NewRequest(http.MethodDelete, "/users/profile", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestChangePassword_FullFlow(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "frank", "frank@example.com", "oldpassword", "Frank")
	token := e.login(t, "frank", "oldpassword")

	w := e.do(http.MethodPut, "/users/change-password", "", gin.H{
		"username": "frank", "currentPassword": "oldpassword", "newPassword": "newpassword99",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code, "change-password requires a bearer token")

	w = e.do(http.MethodPut, "/users/change-password", token, gin.H{
		"username": "frank", "currentPassword": "short", "newPassword": "newpassword99",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPut, "/users/change-password", token, gin.H{
		"username": "frank", "currentPassword": "wrongpassword", "newPassword": "newpassword99",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Invalid current password", decodeEnvelope(t, w).Message)

	w = e.do(http.MethodPut, "/users/change-password", token, gin.H{
		"username": "frank", "currentPassword": "oldpassword", "newPassword": "newpassword99",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodPost, "/users/login", "", gin.H{"username": "frank", "password": "oldpassword"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	e.login(t, "frank", "newpassword99")
}

func TestRegisterAndLoginPages(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodGet, "/users/register", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/users/login", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
