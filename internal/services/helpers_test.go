package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/material-inventory-backend/internal/data/repos"
	"github.com/yungbote/material-inventory-backend/internal/domain"
	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func testLog() *logger.Logger {
	return logger.NewNop()
}

// fakeImageStore records saves and deletes in memory.
type fakeImageStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{files: make(map[string][]byte)}
}

func (f *fakeImageStore) Save(_ context.Context, key, _ string, r io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	url := "/uploads/" + key
	f.mu.Lock()
	f.files[url] = data
	f.mu.Unlock()
	return url, nil
}

func (f *fakeImageStore) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, url)
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeImageStore) stored() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

type testEnv struct {
	db           *gorm.DB
	dropdownRepo repos.DropdownRepo
	materialRepo repos.MaterialRepo
	store        *fakeImageStore
	dropdowns    DropdownService
	materials    MaterialService
	images       ImageService
	dashboard    DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	log := testLog()
	dropdownRepo := repos.NewDropdownRepo(db, log)
	materialRepo := repos.NewMaterialRepo(db, log)
	store := newFakeImageStore()
	return &testEnv{
		db:           db,
		dropdownRepo: dropdownRepo,
		materialRepo: materialRepo,
		store:        store,
		dropdowns:    NewDropdownService(db, log, dropdownRepo, materialRepo),
		materials:    NewMaterialService(db, log, materialRepo, dropdownRepo, store),
		images:       NewImageService(db, log, materialRepo, dropdownRepo, store),
		dashboard:    NewDashboardService(db, log, materialRepo, dropdownRepo),
	}
}

func (e *testEnv) mustCreateDropdown(t *testing.T, dropdownType, label, value string) *domain.Dropdown {
	t.Helper()
	option, err := e.dropdowns.Create(context.Background(), dropdownType, label, value)
	if err != nil {
		t.Fatalf("create dropdown %s/%s: %v", dropdownType, value, err)
	}
	return option
}

func (e *testEnv) mustCreateMaterial(t *testing.T, name, number string, divisionID, placementID uuid.UUID) *MaterialView {
	t.Helper()
	material, err := e.materials.Create(context.Background(), MaterialCreateInput{
		MaterialName:   name,
		MaterialNumber: number,
		DivisionID:     divisionID,
		PlacementID:    placementID,
	})
	if err != nil {
		t.Fatalf("create material %s: %v", number, err)
	}
	return material
}

type fileSpec struct {
	name        string
	contentType string
	size        int
}

// makeFileHeaders builds real multipart file headers the way gin hands them
// to the service.
func makeFileHeaders(t *testing.T, specs ...fileSpec) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, spec := range specs {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, spec.name))
		header.Set("Content-Type", spec.contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		size := spec.size
		if size == 0 {
			size = 32
		}
		if _, err := part.Write(bytes.Repeat([]byte{0xAB}, size)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(64 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["images"]
}
