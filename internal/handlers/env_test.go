package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/talent-registration-api/internal/catalog"
	"github.com/yukikurage/talent-registration-api/internal/constants"
	"github.com/yukikurage/talent-registration-api/internal/logging"
	"github.com/yukikurage/talent-registration-api/internal/metrics"
	"github.com/yukikurage/talent-registration-api/internal/models"
	"github.com/yukikurage/talent-registration-api/internal/registration"
	"github.com/yukikurage/talent-registration-api/internal/repository"
	"github.com/yukikurage/talent-registration-api/internal/services"
	"github.com/yukikurage/talent-registration-api/internal/testutil"
	"gorm.io/gorm"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "supersecret"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiTestEnv struct {
	db           *gorm.DB
	org          testutil.Org
	router       *gin.Engine
	store        *catalog.Store
	provisioning *services.ProvisioningService
	admin        *models.User
}

func setupAPITestEnv(t *testing.T) apiTestEnv {
	t.Helper()

	db := testutil.NewDB(t)
	org := testutil.SeedOrg(t, db)
	log := logging.Discard()
	m := metrics.New(prometheus.NewRegistry())

	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	store := catalog.NewStore(catalogRepo, log, m)
	provisioning := services.NewProvisioningService(userRepo, log)
	registrationService := services.NewRegistrationService(
		registration.NewValidator(), provisioning, userRepo, catalogRepo, repository.NewTeamRepository(db), store, m, log,
	)
	catalogService := services.NewCatalogService(catalogRepo, nil)
	planService := services.NewDevelopmentPlanService(repository.NewDevelopmentPlanRepository(db), userRepo)
	evaluationService := services.NewEvaluationService(repository.NewEvaluationRepository(db), userRepo, catalogRepo, m)

	admin, err := provisioning.CreateUserWithAuth(context.Background(), services.ProvisionInput{
		Email:    adminEmail,
		Password: adminPassword,
		Name:     "Admin",
		Profile:  models.ProfileDirector,
	})
	require.NoError(t, err)
	store.Reload(context.Background())

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	Routes{
		Auth:             NewAuthHandler(provisioning),
		Registration:     NewRegistrationHandler(store, registrationService, userRepo, log),
		Catalog:          NewCatalogHandler(catalogService, log),
		Evaluation:       NewEvaluationHandler(evaluationService, log),
		DevelopmentPlans: NewDevelopmentPlanHandler(planService, nil, log),
		Users:            provisioning,
	}.Register(r)

	return apiTestEnv{
		db:           db,
		org:          org,
		router:       r,
		store:        store,
		provisioning: provisioning,
		admin:        admin,
	}
}

func (e apiTestEnv) request(t *testing.T, method, url string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e apiTestEnv) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()

	w := e.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
	return cookies
}

func (e apiTestEnv) loginAdmin(t *testing.T) []*http.Cookie {
	return e.login(t, adminEmail, adminPassword)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
