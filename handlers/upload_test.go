package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/rollahub/rolla-admin/internal/upload"
)

type recordingStorage struct {
	saved []string
}

func (r *recordingStorage) Save(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	r.saved = append(r.saved, key)
	return nil
}

func (r *recordingStorage) MakePublic(ctx context.Context, key string) error { return nil }

func (r *recordingStorage) PublicURL(key string) string { return "http://storage.local/b/" + key }

func multipartBody(t *testing.T, field, filename, contentType string, content []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	fw, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	for k, v := range extra {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newUploadRouter() (*gin.Engine, *recordingStorage) {
	gin.SetMode(gin.TestMode)
	rs := &recordingStorage{}
	g := gin.New()
	RegisterUploadRoutes(g, upload.NewService(rs))
	return g, rs
}

func TestUploadImageOK(t *testing.T) {
	g, rs := newUploadRouter()
	body, ct := multipartBody(t, "file", "banner.png", "image/png", []byte("fake-png"), map[string]string{"path": "home_ads"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	g.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, true, resp["success"])
	require.Contains(t, resp["fileName"], "home_ads/")
	require.Contains(t, resp["fileName"], "_banner.png")
	require.Contains(t, resp["url"], "http://storage.local/b/")
	require.Len(t, rs.saved, 1)
}

func TestUploadRejectsTextFile(t *testing.T) {
	g, rs := newUploadRouter()
	body, ct := multipartBody(t, "file", "notes.txt", "text/plain", []byte("hello"), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	g.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, false, resp["success"])
	require.Equal(t, "Only image files are allowed", resp["error"])
	require.Empty(t, rs.saved, "no storage write for rejected uploads")
}

func TestUploadMissingFile(t *testing.T) {
	g, rs := newUploadRouter()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("path", "uploads"))
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	g.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "No file provided", resp["error"])
	require.Empty(t, rs.saved)
}
