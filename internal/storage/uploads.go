package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Uploads is the on-disk blob store for profile images. Files are written
// once under a generated name and served back at PublicPrefix/<name>, so
// there are never concurrent writers for the same blob.
type Uploads struct {
	dir string
}

const PublicPrefix = "/uploads"

func NewUploads(dir string) (*Uploads, error) {
	err := os.MkdirAll(dir, 0o755)

	if err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &Uploads{dir: dir}, nil
}

func (u *Uploads) Dir() string {
	return u.dir
}

// Save writes the payload under "<unix-millis>-<sanitized original name>"
// and returns the public path the record should carry. A same-millisecond
// name clash falls through to a numbered suffix instead of overwriting.
func (u *Uploads) Save(originalName string, body io.Reader) (string, error) {
	base := strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + sanitizeName(originalName)

	name := base
	for attempt := 1; ; attempt++ {
		f, err := os.OpenFile(filepath.Join(u.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)

		if err == nil {
			_, copyErr := io.Copy(f, body)
			closeErr := f.Close()

			if copyErr != nil {
				_ = os.Remove(filepath.Join(u.dir, name))
				return "", copyErr
			}
			if closeErr != nil {
				return "", closeErr
			}

			return PublicPrefix + "/" + name, nil
		}

		if !os.IsExist(err) || attempt > 10 {
			return "", err
		}

		name = strconv.Itoa(attempt) + "-" + base
	}
}

// sanitizeName strips anything that could escape the upload directory.
func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	if name == "." || name == ".." || name == "/" || name == "" {
		return "image"
	}

	return name
}
