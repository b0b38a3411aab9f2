package upload

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"CampusManager/internal/config"
	"CampusManager/pkg/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const maxFileSize = 5 * 1024 * 1024 // 5MB

// SavedFile describes a stored upload; Path is relative to the public root
// so clients can fetch it from the static file server.
type SavedFile struct {
	Filename string `bson:"filename" json:"filename"`
	Path     string `bson:"path" json:"path"`
	Mimetype string `bson:"mimetype" json:"mimetype"`
}

// Store persists multipart uploads under the configured uploads directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

func NewStore(cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: cfg.UploadDir, logger: logger}, nil
}

// SaveImage stores the named multipart field, accepting only image types.
// A missing field is not an error; callers treat a nil result as "no upload".
func (s *Store) SaveImage(c echo.Context, field string) (*SavedFile, error) {
	return s.save(c, field, func(mimetype string) bool {
		return strings.HasPrefix(mimetype, "image/")
	}, "Only image files are allowed")
}

// SaveAttachments stores every file in the named multipart field.
func (s *Store) SaveAttachments(c echo.Context, field string) ([]SavedFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	headers := form.File[field]

	var saved []SavedFile
	for _, header := range headers {
		file, err := s.saveHeader(header, func(string) bool { return true }, "")
		if err != nil {
			// Clean up the ones already written before reporting.
			for _, f := range saved {
				s.Delete(f.Path)
			}
			return nil, err
		}
		saved = append(saved, *file)
	}
	return saved, nil
}

// Delete removes a stored file by its public-relative path. Missing files are
// ignored so cleanup paths can run unconditionally.
func (s *Store) Delete(path string) {
	if path == "" {
		return
	}
	full := filepath.Join(s.dir, filepath.Base(path))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to delete upload", zap.String("path", full), zap.Error(err))
	}
}

func (s *Store) save(c echo.Context, field string, accept func(string) bool, rejectMsg string) (*SavedFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil // field absent
	}
	return s.saveHeader(header, accept, rejectMsg)
}

func (s *Store) saveHeader(header *multipart.FileHeader, accept func(string) bool, rejectMsg string) (*SavedFile, error) {
	mimetype := header.Header.Get("Content-Type")
	if !accept(mimetype) {
		return nil, response.NewUploadError(rejectMsg)
	}
	if header.Size > maxFileSize {
		return nil, response.NewUploadError("File size too large")
	}

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	name := NewStoredName(header.Filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return nil, err
	}

	return &SavedFile{
		Filename: header.Filename,
		Path:     "uploads/" + name,
		Mimetype: mimetype,
	}, nil
}

// NewStoredName builds a collision-free stored filename keeping the original
// extension.
func NewStoredName(original string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(original))
}
