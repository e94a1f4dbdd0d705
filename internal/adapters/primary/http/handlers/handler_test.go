package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"kubeserve/internal/adapters/primary/http/middleware"
	"kubeserve/internal/core/domain"
	"kubeserve/internal/core/services"
	"kubeserve/internal/testutil"
)

type routerFixture struct {
	userRepo       *testutil.MockUserRepo
	modelRepo      *testutil.MockModelRepo
	versionRepo    *testutil.MockModelVersionRepo
	deploymentRepo *testutil.MockDeploymentRepo
	provisioner    *testutil.MockProvisioner
	store          *testutil.MockObjectStore
	router         *gin.Engine
	userID         uuid.UUID
}

// setupRouter wires real services over mock adapters, with a stub auth
// middleware that injects a fixed caller.
func setupRouter() *routerFixture {
	gin.SetMode(gin.TestMode)

	f := &routerFixture{
		userRepo:       new(testutil.MockUserRepo),
		modelRepo:      new(testutil.MockModelRepo),
		versionRepo:    new(testutil.MockModelVersionRepo),
		deploymentRepo: new(testutil.MockDeploymentRepo),
		provisioner:    new(testutil.MockProvisioner),
		store:          new(testutil.MockObjectStore),
		userID:         uuid.New(),
	}

	h := New(
		services.NewUserService(f.userRepo, nil, "test-secret", time.Minute),
		services.NewModelService(f.modelRepo),
		services.NewModelVersionService(f.versionRepo, f.modelRepo),
		services.NewArtifactService(f.versionRepo, f.modelRepo, f.store),
		services.NewDeploymentService(f.deploymentRepo, f.versionRepo, f.modelRepo, f.provisioner),
	)

	stubAuth := func(c *gin.Context) {
		c.Set(middleware.UserIDKey, f.userID)
		c.Next()
	}

	f.router = gin.New()
	h.RegisterRoutes(f.router.Group("/api/v1"), stubAuth)
	return f
}

func (f *routerFixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	f := setupRouter()

	f.userRepo.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, domain.ErrUserNotFound)
	f.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	w := f.do("POST", "/api/v1/auth/register", gin.H{"email": "a@b.com", "password": "hunter2222"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "a@b.com", resp["email"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegister_EmailTaken(t *testing.T) {
	f := setupRouter()

	f.userRepo.On("GetByEmail", mock.Anything, "a@b.com").
		Return(&domain.User{ID: uuid.New(), Email: "a@b.com"}, nil)

	w := f.do("POST", "/api/v1/auth/register", gin.H{"email": "a@b.com", "password": "hunter2222"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_InvalidBody(t *testing.T) {
	f := setupRouter()

	w := f.do("POST", "/api/v1/auth/register", gin.H{"email": "not-an-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	f := setupRouter()

	f.userRepo.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, domain.ErrUserNotFound)

	w := f.do("POST", "/api/v1/auth/login", gin.H{"email": "a@b.com", "password": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateModel(t *testing.T) {
	f := setupRouter()

	f.modelRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Model")).Return(nil)

	w := f.do("POST", "/api/v1/models", gin.H{"name": "churn", "kind": "sklearn"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "churn", resp["name"])
	assert.Equal(t, f.userID.String(), resp["owner_id"])
}

func TestCreateModel_UnknownKind(t *testing.T) {
	f := setupRouter()

	w := f.do("POST", "/api/v1/models", gin.H{"name": "churn", "kind": "tensorflow"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetModel_Unowned(t *testing.T) {
	f := setupRouter()

	id := uuid.New()
	f.modelRepo.On("GetByID", mock.Anything, id, f.userID).Return(nil, domain.ErrModelNotFound)

	w := f.do("GET", "/api/v1/models/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateModelVersion_DuplicateTag(t *testing.T) {
	f := setupRouter()

	modelID := uuid.New()
	f.modelRepo.On("GetByID", mock.Anything, modelID, f.userID).
		Return(&domain.Model{ID: modelID, OwnerID: f.userID}, nil)
	f.versionRepo.On("GetByModelAndTag", mock.Anything, modelID, "v1").
		Return(&domain.ModelVersion{ID: uuid.New(), ModelID: modelID, VersionTag: "v1"}, nil)

	w := f.do("POST", "/api/v1/models/"+modelID.String()+"/versions", gin.H{"version_tag": "v1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetModelVersion_Foreign(t *testing.T) {
	f := setupRouter()

	modelID := uuid.New()
	versionID := uuid.New()
	f.versionRepo.On("GetByID", mock.Anything, versionID).
		Return(&domain.ModelVersion{ID: versionID, ModelID: modelID}, nil)
	f.modelRepo.On("GetByID", mock.Anything, modelID, f.userID).Return(nil, domain.ErrModelNotFound)

	w := f.do("GET", "/api/v1/versions/"+versionID.String(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateVersionStatus_IllegalTransition(t *testing.T) {
	f := setupRouter()

	modelID := uuid.New()
	versionID := uuid.New()
	f.versionRepo.On("GetByID", mock.Anything, versionID).Return(&domain.ModelVersion{
		ID: versionID, ModelID: modelID, Status: domain.VersionStatusFailed,
	}, nil)
	f.modelRepo.On("GetByID", mock.Anything, modelID, f.userID).
		Return(&domain.Model{ID: modelID, OwnerID: f.userID}, nil)

	w := f.do("PATCH", "/api/v1/versions/"+versionID.String()+"/status", gin.H{"status": "READY"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadArtifact_OversizedRequirements(t *testing.T) {
	f := setupRouter()

	versionID := uuid.New()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("model", "model.joblib")
	_, _ = part.Write([]byte("bytes"))
	part, _ = mw.CreateFormFile("requirements", "requirements.txt")
	_, _ = part.Write(make([]byte, services.MaxRequirementsFileSize+1))
	_ = mw.Close()

	req, _ := http.NewRequest("POST", "/api/v1/versions/"+versionID.String()+"/artifact", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	// Rejected on the declared part size, before any store or repo call.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.versionRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreateDeployment(t *testing.T) {
	f := setupRouter()

	modelID := uuid.New()
	versionID := uuid.New()
	f.versionRepo.On("GetByID", mock.Anything, versionID).Return(&domain.ModelVersion{
		ID: versionID, ModelID: modelID,
		ArtifactPath: "s3://models/k", Status: domain.VersionStatusReady,
	}, nil)
	f.modelRepo.On("GetByID", mock.Anything, modelID, f.userID).
		Return(&domain.Model{ID: modelID, OwnerID: f.userID}, nil)
	f.deploymentRepo.On("GetByWorkloadName", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, domain.ErrDeploymentNotFound)
	f.deploymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Deployment")).Return(nil)
	f.provisioner.On("Apply", mock.Anything, mock.AnythingOfType("ports.ApplyParams")).
		Return("http://localhost:30080/api/v1/predict/x", nil)
	f.deploymentRepo.On("SetRouteURL", mock.Anything, mock.AnythingOfType("uuid.UUID"),
		mock.AnythingOfType("string")).Return(nil)

	w := f.do("POST", "/api/v1/deployments", gin.H{"version_id": versionID, "replicas": 2})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "http://localhost:30080/api/v1/predict/x", resp["route_url"])
}

func TestCreateDeployment_NotReady(t *testing.T) {
	f := setupRouter()

	modelID := uuid.New()
	versionID := uuid.New()
	f.versionRepo.On("GetByID", mock.Anything, versionID).Return(&domain.ModelVersion{
		ID: versionID, ModelID: modelID, Status: domain.VersionStatusBuilding,
	}, nil)
	f.modelRepo.On("GetByID", mock.Anything, modelID, f.userID).
		Return(&domain.Model{ID: modelID, OwnerID: f.userID}, nil)

	w := f.do("POST", "/api/v1/deployments", gin.H{"version_id": versionID, "replicas": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDeployment_ProvisionerFailure(t *testing.T) {
	f := setupRouter()

	modelID := uuid.New()
	versionID := uuid.New()
	f.versionRepo.On("GetByID", mock.Anything, versionID).Return(&domain.ModelVersion{
		ID: versionID, ModelID: modelID,
		ArtifactPath: "s3://models/k", Status: domain.VersionStatusReady,
	}, nil)
	f.modelRepo.On("GetByID", mock.Anything, modelID, f.userID).
		Return(&domain.Model{ID: modelID, OwnerID: f.userID}, nil)
	f.deploymentRepo.On("GetByWorkloadName", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, domain.ErrDeploymentNotFound)
	f.deploymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Deployment")).Return(nil)
	f.provisioner.On("Apply", mock.Anything, mock.AnythingOfType("ports.ApplyParams")).
		Return("", errors.New("helm install failed"))
	f.deploymentRepo.On("Delete", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)

	w := f.do("POST", "/api/v1/deployments", gin.H{"version_id": versionID, "replicas": 1})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	f.deploymentRepo.AssertCalled(t, "Delete", mock.Anything, mock.AnythingOfType("uuid.UUID"))
}

func TestDeleteDeployment_TeardownFailureStill204(t *testing.T) {
	f := setupRouter()

	modelID := uuid.New()
	versionID := uuid.New()
	deploymentID := uuid.New()
	f.deploymentRepo.On("GetByID", mock.Anything, deploymentID).Return(&domain.Deployment{
		ID: deploymentID, VersionID: versionID, WorkloadName: "model-a-b",
	}, nil)
	f.versionRepo.On("GetByID", mock.Anything, versionID).
		Return(&domain.ModelVersion{ID: versionID, ModelID: modelID}, nil)
	f.modelRepo.On("GetByID", mock.Anything, modelID, f.userID).
		Return(&domain.Model{ID: modelID, OwnerID: f.userID}, nil)
	f.deploymentRepo.On("Delete", mock.Anything, deploymentID).Return(nil)
	f.provisioner.On("Remove", mock.Anything, "model-a-b", domain.TenantNamespace(f.userID)).
		Return(errors.New("cluster unreachable"))

	w := f.do("DELETE", "/api/v1/deployments/"+deploymentID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	h := New(nil, nil, nil, nil, nil)
	h.RegisterRoutes(r.Group("/api/v1"), middleware.Auth("test-secret"))

	req, _ := http.NewRequest("GET", "/api/v1/models", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	h := New(nil, nil, nil, nil, nil)
	h.RegisterRoutes(r.Group("/api/v1"), middleware.Auth("test-secret"))

	req, _ := http.NewRequest("GET", "/api/v1/models", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
