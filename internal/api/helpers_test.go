package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/events"
	"github.com/phrazzld/tasktrack-api/internal/mocks"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type apiFixture struct {
	db *mocks.MemoryDB

	auth      *AuthHandler
	tasks     *TaskHandler
	users     *UserHandler
	analytics *AnalyticsHandler

	admin  domain.User
	worker domain.User
	other  domain.User
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db := mocks.NewMemoryDB()
	uow := mocks.NewUnitOfWork(db)
	clock := service.WithClock(func() time.Time { return testNow })

	userSvc := service.NewUserService(uow, &mocks.MockPasswordHasher{}, &mocks.MockJWTService{}, nil, clock)
	taskSvc := service.NewTaskService(uow, events.NoopEmitter{}, nil, clock)
	analyticsSvc := service.NewAnalyticsService(uow, nil, nil, clock)

	return &apiFixture{
		db:        db,
		auth:      NewAuthHandler(userSvc, nil),
		tasks:     NewTaskHandler(taskSvc, nil),
		users:     NewUserHandler(userSvc, nil),
		analytics: NewAnalyticsHandler(analyticsSvc, nil),
		admin: db.SeedUser(domain.User{
			Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin,
			Active: true, HashedPassword: "hashed:admin-password",
		}),
		worker: db.SeedUser(domain.User{
			Name: "Worker", Email: "worker@example.com", Role: domain.RoleUser,
			Active: true, HashedPassword: "hashed:worker-password",
		}),
		other: db.SeedUser(domain.User{
			Name: "Other", Email: "other@example.com", Role: domain.RoleUser,
			Active: true, HashedPassword: "hashed:other-password",
		}),
	}
}

// serve routes one request through a chi router holding only pattern, with
// user (if any) already authenticated.
func serve(
	t *testing.T,
	method, pattern, target string,
	h http.HandlerFunc,
	user *domain.User,
	body string,
) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.Method(method, pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if user != nil {
		req = req.WithContext(shared.WithUser(req.Context(), user))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, w).Error
}
