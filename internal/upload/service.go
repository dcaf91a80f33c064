package upload

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/rollahub/rolla-admin/internal/storage"
)

const DefaultPathPrefix = "uploads"

// ValidationError marks uploads rejected before any storage write.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// Service stores uploaded images under timestamped keys and hands back the
// public URL. The declared content type is trusted, no byte sniffing.
type Service struct {
	store storage.ObjectStorage
	now   func() time.Time
}

func NewService(store storage.ObjectStorage) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the service clock, used by tests to pin the key prefix.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Upload validates the declared content type, writes the bytes under
// {path}/{millis}_{sanitized-name} and returns (publicURL, key).
func (s *Service) Upload(ctx context.Context, name, contentType, path string, reader io.Reader, size int64) (string, string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", &ValidationError{Msg: "Only image files are allowed"}
	}
	if path == "" {
		path = DefaultPathPrefix
	}
	key := fmt.Sprintf("%s/%d_%s", path, s.now().UnixMilli(), unsafeChars.ReplaceAllString(name, "_"))
	if err := s.store.Save(ctx, key, reader, size, contentType); err != nil {
		return "", "", fmt.Errorf("store upload: %w", err)
	}
	if err := s.store.MakePublic(ctx, key); err != nil {
		return "", "", fmt.Errorf("publish upload: %w", err)
	}
	return s.store.PublicURL(key), key, nil
}
