package middleware

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const uploadFieldName = "image"

type fileContextKey string

const fileKey fileContextKey = "uploadedFile"

// Upload parses a single multipart file field and stores it under the upload
// directory with a generated name. The stored relative path is attached to
// the request context; handlers that need a file decide whether its absence
// is an error.
type Upload struct {
	dir     string
	maxSize int64
}

func NewUpload(dir string, maxSizeMB int) *Upload {
	return &Upload{
		dir:     dir,
		maxSize: int64(maxSizeMB) << 20,
	}
}

// Accept wraps a handler. Non-multipart requests pass through untouched, so
// the same route can take a JSON body or a form with an attached image.
func (u *Upload) Accept(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
			next(w, r)
			return
		}

		if err := r.ParseMultipartForm(u.maxSize); err != nil {
			badRequest(w, "malformed multipart body")
			return
		}

		file, header, err := r.FormFile(uploadFieldName)
		if err != nil {
			// No file part; form fields are still available to the handler.
			next(w, r)
			return
		}
		defer file.Close()

		name := uuid.NewString() + filepath.Ext(header.Filename)
		if err := u.store(file, name); err != nil {
			log.Error().Err(err).Str("file", name).Msg("store upload failed")
			http.Error(w, "could not store upload", http.StatusInternalServerError)
			return
		}

		next(w, r.WithContext(WithFile(r.Context(), name)))
	}
}

func (u *Upload) store(src io.Reader, name string) error {
	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return err
	}
	dst, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}

// WithFile attaches a stored upload filename to the context.
func WithFile(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, fileKey, name)
}

// FileFrom retrieves the stored upload filename, if any.
func FileFrom(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(fileKey).(string)
	return name, ok
}

func badRequest(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
