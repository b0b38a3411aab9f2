package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"CampusManager/internal/config"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(&config.Config{UploadDir: t.TempDir()}, zap.NewNop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func multipartContext(t *testing.T, field, filename, mimetype string, content []byte) echo.Context {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", mimetype)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return e.NewContext(req, httptest.NewRecorder())
}

func TestSaveImage(t *testing.T) {
	store := testStore(t)
	c := multipartContext(t, "image", "Photo.PNG", "image/png", []byte("png-bytes"))

	saved, err := store.SaveImage(c, "image")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved == nil {
		t.Fatal("no file saved")
	}
	if saved.Filename != "Photo.PNG" {
		t.Errorf("filename = %q", saved.Filename)
	}
	if !strings.HasPrefix(saved.Path, "uploads/") {
		t.Errorf("path = %q, want uploads/ prefix", saved.Path)
	}
	if !strings.HasSuffix(saved.Path, ".png") {
		t.Errorf("path = %q, extension should be lowercased", saved.Path)
	}
	if saved.Mimetype != "image/png" {
		t.Errorf("mimetype = %q", saved.Mimetype)
	}

	full := filepath.Join(store.dir, filepath.Base(saved.Path))
	data, err := os.ReadFile(full)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored content = %q", data)
	}
}

func TestSaveImageRejectsNonImage(t *testing.T) {
	store := testStore(t)
	c := multipartContext(t, "image", "report.pdf", "application/pdf", []byte("%PDF"))

	if _, err := store.SaveImage(c, "image"); err == nil {
		t.Error("non-image accepted")
	}
}

func TestSaveImageMissingFieldIsNotAnError(t *testing.T) {
	store := testStore(t)
	c := multipartContext(t, "other", "a.png", "image/png", []byte("x"))

	saved, err := store.SaveImage(c, "image")
	if err != nil {
		t.Fatalf("missing field: %v", err)
	}
	if saved != nil {
		t.Errorf("saved = %+v, want nil", saved)
	}
}

func TestDelete(t *testing.T) {
	store := testStore(t)
	c := multipartContext(t, "image", "a.png", "image/png", []byte("x"))

	saved, err := store.SaveImage(c, "image")
	if err != nil || saved == nil {
		t.Fatalf("save: %v", err)
	}

	store.Delete(saved.Path)
	if _, err := os.Stat(filepath.Join(store.dir, filepath.Base(saved.Path))); !os.IsNotExist(err) {
		t.Error("file still exists after delete")
	}

	// Deleting again must be a no-op.
	store.Delete(saved.Path)
	store.Delete("")
}

func TestNewStoredName(t *testing.T) {
	name := NewStoredName("My Photo.JPEG")
	if !strings.HasSuffix(name, ".jpeg") {
		t.Errorf("name = %q, want lowercased extension", name)
	}
	if name == NewStoredName("My Photo.JPEG") {
		t.Error("stored names collide")
	}
}
