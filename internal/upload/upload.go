package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrUnsupportedType is returned before any byte is written.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrEmptyFile is returned for uploads with no content.
	ErrEmptyFile = errors.New("empty file")
)

// allowedExts is the fixed extension whitelist for attachments.
var allowedExts = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".gif":  {},
	".pdf":  {},
	".docx": {},
	".txt":  {},
}

// Store saves uploaded blobs on disk under a collision-resistant name
// and hands back the absolute URL they will be served from.
type Store struct {
	dir     string
	baseURL string
	counter atomic.Int64 // disambiguates same-millisecond uploads
}

// New creates the upload directory if needed. baseURL is the public
// origin the returned file URLs are rooted at.
func New(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes the blob and returns its public URL. The original name
// contributes only its extension; the stored name is timestamp-based.
func (s *Store) Save(data []byte, originalName string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExts[ext]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	// Content sniffing catches renamed binaries slipping past the
	// extension check. Text-like uploads are exempt: a .txt may hold
	// any textual payload.
	detected := mimetype.Detect(data)
	if ext != ".txt" && !detected.Is("text/plain") {
		if _, ok := allowedExts[detected.Extension()]; !ok {
			return "", fmt.Errorf("%w: content is %s", ErrUnsupportedType, detected.String())
		}
	}

	name := strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + strconv.FormatInt(s.counter.Add(1), 10) + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return s.baseURL + "/uploads/" + name, nil
}

// Dir returns the directory uploads are stored in, for static serving.
func (s *Store) Dir() string {
	return s.dir
}
