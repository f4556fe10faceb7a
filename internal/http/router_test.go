package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/material-inventory-backend/internal/data/repos"
	"github.com/yungbote/material-inventory-backend/internal/domain"
	"github.com/yungbote/material-inventory-backend/internal/http/handlers"
	"github.com/yungbote/material-inventory-backend/internal/http/middleware"
	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
	"github.com/yungbote/material-inventory-backend/internal/services"
	"github.com/yungbote/material-inventory-backend/internal/sessions"
	"github.com/yungbote/material-inventory-backend/internal/storage"
)

// testClient drives the full router the way a browser would, carrying the
// session cookie between requests.
type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Dropdown{}, &domain.Material{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	log := logger.NewNop()
	uploadDir := t.TempDir()
	imageStore, err := storage.NewLocalStore(uploadDir, log)
	if err != nil {
		t.Fatalf("local store: %v", err)
	}

	userRepo := repos.NewUserRepo(db, log)
	dropdownRepo := repos.NewDropdownRepo(db, log)
	materialRepo := repos.NewMaterialRepo(db, log)

	sessionService := services.NewSessionService(sessions.NewMemoryStore(), "test-secret", time.Hour, log)
	authService := services.NewAuthService(db, log, userRepo, sessionService, nil)
	dropdownService := services.NewDropdownService(db, log, dropdownRepo, materialRepo)
	materialService := services.NewMaterialService(db, log, materialRepo, dropdownRepo, imageStore)
	imageService := services.NewImageService(db, log, materialRepo, dropdownRepo, imageStore)
	dashboardService := services.NewDashboardService(db, log, materialRepo, dropdownRepo)

	router := NewRouter(RouterConfig{
		ServiceName:      "material-inventory-test",
		AllowOrigins:     []string{"http://localhost:5173"},
		UploadDir:        uploadDir,
		ServeUploads:     true,
		HealthHandler:    handlers.NewHealthHandler(),
		AuthHandler:      handlers.NewAuthHandler(log, authService, sessionService),
		DropdownHandler:  handlers.NewDropdownHandler(log, dropdownService),
		MaterialHandler:  handlers.NewMaterialHandler(log, materialService, imageService),
		DashboardHandler: handlers.NewDashboardHandler(log, dashboardService),
		AuthMiddleware:   middleware.NewAuthMiddleware(log, sessionService),
	})
	return &testClient{t: t, router: router}
}

func (c *testClient) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}
	return w
}

func (c *testClient) doJSON(method, path string, payload any) *httptest.ResponseRecorder {
	c.t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		c.t.Fatalf("marshal payload: %v", err)
	}
	return c.do(method, path, bytes.NewReader(raw), "application/json")
}

func (c *testClient) decode(w *httptest.ResponseRecorder) map[string]any {
	c.t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		c.t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func (c *testClient) login(email string) {
	c.t.Helper()
	w := c.doJSON(http.MethodPost, "/api/auth/register", gin.H{
		"email": email, "password": "hunter22", "name": "Test User",
	})
	if w.Code != http.StatusCreated {
		c.t.Fatalf("register = %d: %s", w.Code, w.Body.String())
	}
	w = c.doJSON(http.MethodPost, "/api/auth/login", gin.H{
		"email": email, "password": "hunter22",
	})
	if w.Code != http.StatusOK {
		c.t.Fatalf("login = %d: %s", w.Code, w.Body.String())
	}
	if len(c.cookies) == 0 {
		c.t.Fatal("login set no session cookie")
	}
}

func (c *testClient) createDropdown(dropdownType, label, value string) string {
	c.t.Helper()
	w := c.doJSON(http.MethodPost, "/api/dropdowns", gin.H{
		"type": dropdownType, "label": label, "value": value,
	})
	if w.Code != http.StatusCreated {
		c.t.Fatalf("create dropdown = %d: %s", w.Code, w.Body.String())
	}
	dropdown := c.decode(w)["dropdown"].(map[string]any)
	return dropdown["id"].(string)
}

func errorMessage(t *testing.T, body map[string]any) string {
	t.Helper()
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error envelope in %v", body)
	}
	msg, _ := errObj["message"].(string)
	return msg
}

func TestRouterRejectsUnauthenticated(t *testing.T) {
	client := newTestClient(t)

	w := client.do(http.MethodGet, "/api/materials", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if msg := errorMessage(t, client.decode(w)); msg != "Please login first" {
		t.Fatalf("message = %q", msg)
	}
}

func TestRouterPublicEndpoints(t *testing.T) {
	client := newTestClient(t)

	w := client.do(http.MethodGet, "/healthcheck", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("healthcheck = %d", w.Code)
	}
	if got := client.decode(w)["status"]; got != "ok" {
		t.Fatalf("status = %v", got)
	}

	w = client.do(http.MethodGet, "/", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("root = %d", w.Code)
	}
}

func TestRouterAuthFlow(t *testing.T) {
	client := newTestClient(t)

	w := client.do(http.MethodGet, "/api/auth/check", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("check = %d", w.Code)
	}
	if client.decode(w)["isAuthenticated"] != false {
		t.Fatal("expected isAuthenticated=false before login")
	}

	client.login("alice@example.com")

	w = client.do(http.MethodGet, "/api/auth/check", nil, "")
	body := client.decode(w)
	if body["isAuthenticated"] != true {
		t.Fatalf("expected isAuthenticated=true, got %v", body)
	}
	user := body["user"].(map[string]any)
	if user["email"] != "alice@example.com" {
		t.Fatalf("user = %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatal("password leaked in auth check")
	}

	w = client.do(http.MethodPost, "/api/auth/logout", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("logout = %d", w.Code)
	}

	w = client.do(http.MethodGet, "/api/materials", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("post-logout status = %d, want 401", w.Code)
	}
}

func TestRouterDropdownEndpoints(t *testing.T) {
	client := newTestClient(t)
	client.login("alice@example.com")

	client.createDropdown("division", "Metals", "metals")
	client.createDropdown("placement", "Shelf", "shelf")

	w := client.do(http.MethodGet, "/api/dropdowns/division", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list divisions = %d", w.Code)
	}

	w = client.do(http.MethodGet, "/api/dropdowns/warehouse", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid type = %d, want 400", w.Code)
	}

	w = client.do(http.MethodGet, "/api/dropdowns/all/options", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("all options = %d: %s", w.Code, w.Body.String())
	}
	options := client.decode(w)
	if len(options["divisions"].([]any)) != 1 || len(options["placements"].([]any)) != 1 {
		t.Fatalf("options = %v", options)
	}

	// The combined endpoint only exists under the literal "all" segment.
	w = client.do(http.MethodGet, "/api/dropdowns/division/options", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("non-all options = %d, want 404", w.Code)
	}
}

func TestRouterMaterialLifecycle(t *testing.T) {
	client := newTestClient(t)
	client.login("alice@example.com")

	divisionID := client.createDropdown("division", "Metals", "metals")
	placementID := client.createDropdown("placement", "Shelf", "shelf")

	w := client.doJSON(http.MethodPost, "/api/materials", gin.H{
		"materialName":   "Steel Rod",
		"materialNumber": "ST-100",
		"divisionId":     divisionID,
		"placementId":    placementID,
		"function":       "structural",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create material = %d: %s", w.Code, w.Body.String())
	}
	material := client.decode(w)["material"].(map[string]any)
	materialID := material["id"].(string)
	if material["division"].(map[string]any)["label"] != "Metals" {
		t.Fatalf("division ref = %v", material["division"])
	}

	// Duplicate number conflicts.
	w = client.doJSON(http.MethodPost, "/api/materials", gin.H{
		"materialName":   "Other",
		"materialNumber": "ST-100",
		"divisionId":     divisionID,
		"placementId":    placementID,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate number = %d, want 409", w.Code)
	}
	if msg := errorMessage(t, client.decode(w)); msg != "Material number already exists" {
		t.Fatalf("message = %q", msg)
	}

	// Referential guard blocks the division delete while referenced.
	w = client.do(http.MethodDelete, "/api/dropdowns/"+divisionID, nil, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("guarded delete = %d, want 409", w.Code)
	}

	// Upload two images; the first becomes primary.
	body, contentType := multipartImages(t, "a.jpg", "b.png")
	w = client.do(http.MethodPost, "/api/materials/"+materialID+"/images", body, contentType)
	if w.Code != http.StatusOK {
		t.Fatalf("upload = %d: %s", w.Code, w.Body.String())
	}
	images := client.decode(w)["material"].(map[string]any)["images"].([]any)
	if len(images) != 2 {
		t.Fatalf("images = %d, want 2", len(images))
	}
	first := images[0].(map[string]any)
	if first["isPrimary"] != true {
		t.Fatal("first uploaded image should be primary")
	}

	// The stored file is served through the static mount.
	w = client.do(http.MethodGet, first["url"].(string), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("serve upload = %d", w.Code)
	}

	// Promote the second image.
	second := images[1].(map[string]any)
	w = client.do(http.MethodPut, "/api/materials/"+materialID+"/images/"+second["id"].(string)+"/primary", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("set primary = %d: %s", w.Code, w.Body.String())
	}
	images = client.decode(w)["material"].(map[string]any)["images"].([]any)
	primaries := 0
	for _, raw := range images {
		if raw.(map[string]any)["isPrimary"] == true {
			primaries++
		}
	}
	if primaries != 1 {
		t.Fatalf("primaries = %d, want exactly 1", primaries)
	}

	// Toggle status.
	w = client.do(http.MethodPatch, "/api/materials/"+materialID+"/toggle-status", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("toggle = %d", w.Code)
	}
	if client.decode(w)["material"].(map[string]any)["isActive"] != false {
		t.Fatal("expected inactive after toggle")
	}

	// Dashboard sees the data.
	w = client.do(http.MethodGet, "/api/dashboard/stats", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats = %d: %s", w.Code, w.Body.String())
	}
	stats := client.decode(w)
	if stats["totalMaterials"] != float64(1) {
		t.Fatalf("totalMaterials = %v", stats["totalMaterials"])
	}

	// Delete the material, then the division delete goes through.
	w = client.do(http.MethodDelete, "/api/materials/"+materialID, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete material = %d", w.Code)
	}
	w = client.do(http.MethodDelete, "/api/dropdowns/"+divisionID, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete division = %d: %s", w.Code, w.Body.String())
	}
}

func TestRouterMaterialListQuery(t *testing.T) {
	client := newTestClient(t)
	client.login("alice@example.com")

	divisionID := client.createDropdown("division", "Metals", "metals")
	placementID := client.createDropdown("placement", "Shelf", "shelf")
	for _, number := range []string{"ST-100", "ST-200", "CU-300"} {
		w := client.doJSON(http.MethodPost, "/api/materials", gin.H{
			"materialName":   "Material " + number,
			"materialNumber": number,
			"divisionId":     divisionID,
			"placementId":    placementID,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create %s = %d", number, w.Code)
		}
	}

	w := client.do(http.MethodGet, "/api/materials?search=st-&page=1&limit=1", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d: %s", w.Code, w.Body.String())
	}
	page := client.decode(w)
	if page["total"] != float64(2) || page["totalPages"] != float64(2) {
		t.Fatalf("page meta = %v", page)
	}
	if len(page["materials"].([]any)) != 1 {
		t.Fatalf("materials = %d, want 1", len(page["materials"].([]any)))
	}

	w = client.do(http.MethodGet, "/api/materials?divisionId=not-a-uuid", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad filter = %d, want 400", w.Code)
	}
}

func multipartImages(t *testing.T, names ...string) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, name := range names {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, name))
		if strings.HasSuffix(name, ".png") {
			header.Set("Content-Type", "image/png")
		} else {
			header.Set("Content-Type", "image/jpeg")
		}
		part, err := w.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write([]byte("fake-image-bytes")); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, w.FormDataContentType()
}
