package server

import (
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-implicit-raytracer/pkg/scene"
)

const fileScene = `
name: pebble
materials:
  - name: stone
    diffuse: "#808080"
shapes:
  - name: pebble
    field: {type: box, size: [0.8, 0.4, 0.6], rounding: 0.1}
render:
  width: 64
  height: 48
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pebble.yaml"), []byte(fileScene), 0o644))
	return NewServer(0, dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestScenes(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/scenes")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []scene.SceneInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	ids := make([]string, len(list))
	for i, info := range list {
		ids[i] = info.ID
	}
	assert.Contains(t, ids, "sphere")
	assert.Contains(t, ids, "pebble")
}

func TestSceneConfig(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/scene-config?scene=pebble")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Defaults map[string]any `json:"defaults"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 64.0, resp.Defaults["width"])

	rec = get(t, s, "/api/scene-config?scene=../../etc/passwd")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImage(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/image?scene=sphere&width=24&height=16&supersample=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 24, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestImageBadRequests(t *testing.T) {
	s := newTestServer(t)
	for _, target := range []string{
		"/api/image?scene=nonexistent",
		"/api/image?scene=sphere&width=5000",
		"/api/image?scene=sphere&width=abc",
		"/api/image?scene=sphere&format=gif",
		"/api/image?scene=sphere&quality=ultra",
	} {
		rec := get(t, s, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestPick(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/pick?scene=sphere&u=0&v=0")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp PickResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Hit)
	assert.InDelta(t, -0.5, resp.Position[2], 1e-3)
	assert.Equal(t, "single", resp.MaterialType)
	assert.NotEmpty(t, resp.Shape)

	rec = get(t, s, "/api/pick?scene=pebble&x=32&y=24")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Hit)
	assert.Equal(t, "pebble", resp.Shape)

	rec = get(t, s, "/api/pick?scene=sphere&u=0.95&v=0.95")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = PickResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Hit)

	rec = get(t, s, "/api/pick?scene=sphere&x=9999&y=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderStreamsTilesAndPasses(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render?scene=sphere&width=40&height=40&supersample=2&maxPasses=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: passComplete"))
	assert.Contains(t, body, "event: tile")
	assert.Contains(t, body, "event: complete")
	assert.NotContains(t, body, "event: error")
}

func TestRenderReportsBadRequest(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render?scene=nonexistent")
	assert.Contains(t, rec.Body.String(), "event: error")
}
