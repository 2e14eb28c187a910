package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-implicit-raytracer/pkg/loaders"
	"github.com/df07/go-implicit-raytracer/pkg/renderer"
	"github.com/df07/go-implicit-raytracer/pkg/scene"
)

// DefaultTileSize is the tile edge used for streamed renders
const DefaultTileSize = 32

// Server handles web requests for the renderer
type Server struct {
	port     int
	sceneDir string
	logger   *slog.Logger
	mux      *http.ServeMux
}

// NewServer creates a new web server. Scene files are looked up in sceneDir.
func NewServer(port int, sceneDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{port: port, sceneDir: sceneDir, logger: logger, mux: http.NewServeMux()}

	s.mux.Handle("GET /", http.FileServer(http.Dir("static/")))
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/scenes", s.handleScenes)
	s.mux.HandleFunc("GET /api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("GET /api/image", s.handleImage)
	s.mux.HandleFunc("GET /api/render", s.handleRender)
	s.mux.HandleFunc("GET /api/pick", s.handlePick)
	return s
}

// Handler returns the HTTP handler with all routes
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "addr", "http://localhost"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene         string `json:"scene"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Quality       string `json:"quality"`
	Supersample   int    `json:"supersample"`
	MaxPasses     int    `json:"maxPasses"`
	ShadowQuality int    `json:"shadowQuality"`
	MaxBounces    int    `json:"maxBounces"`
	Intersections int    `json:"intersections"`
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	list, err := scene.ListScenes(s.sceneDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// openScene resolves a scene id. Files are only reachable through the
// scene directory listing.
func (s *Server) openScene(id string) (*loaders.SceneFile, error) {
	list, err := scene.ListScenes(s.sceneDir)
	if err != nil {
		return nil, err
	}
	for _, info := range list {
		if info.ID != id {
			continue
		}
		if info.Type == "file" {
			return loaders.LoadSceneFile(info.FilePath)
		}
		return loaders.Open(id)
	}
	return nil, fmt.Errorf("%w: %s", scene.ErrUnknownScene, id)
}

// parseRenderRequest parses the scene parameters shared by all render endpoints
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, *loaders.SceneFile, error) {
	q := r.URL.Query()
	req := &RenderRequest{Scene: q.Get("scene"), Quality: q.Get("quality")}
	if req.Scene == "" {
		req.Scene = "sphere"
	}

	sf, err := s.openScene(req.Scene)
	if err != nil {
		return nil, nil, err
	}

	if req.Width, err = parseIntParam(q, "width", sf.Width, 16, 2000); err != nil {
		return nil, nil, err
	}
	if req.Height, err = parseIntParam(q, "height", sf.Height, 16, 2000); err != nil {
		return nil, nil, err
	}
	if req.Supersample, err = parseIntParam(q, "supersample", sf.Progressive.Supersample, 1, 8); err != nil {
		return nil, nil, err
	}
	if req.MaxPasses, err = parseIntParam(q, "maxPasses", sf.Progressive.MaxPasses, 1, 16); err != nil {
		return nil, nil, err
	}
	if req.ShadowQuality, err = parseIntParam(q, "shadowQuality", sf.Config.ShadowQuality, 0, 10); err != nil {
		return nil, nil, err
	}
	if req.MaxBounces, err = parseIntParam(q, "maxBounces", sf.Config.MaxRayBounces, 0, 8); err != nil {
		return nil, nil, err
	}
	if req.Intersections, err = parseIntParam(q, "intersections", sf.Config.MaxIntersections, 1, 16); err != nil {
		return nil, nil, err
	}

	if req.Quality != "" {
		quality, err := renderer.ParseQuality(req.Quality)
		if err != nil {
			return nil, nil, err
		}
		sf.Config.ApplyQuality(quality)
	}
	sf.Width, sf.Height = req.Width, req.Height
	sf.Progressive.Supersample = req.Supersample
	sf.Progressive.MaxPasses = req.MaxPasses
	sf.Config.ShadowQuality = req.ShadowQuality
	sf.Config.MaxRayBounces = req.MaxBounces
	sf.Config.MaxIntersections = req.Intersections

	if req.Width*req.Height > 800*600 && req.Supersample > 3 {
		s.logger.Warn("large image with high supersampling may render slowly",
			"width", req.Width, "height", req.Height, "supersample", req.Supersample)
	}
	return req, sf, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// handleSceneConfig returns the render defaults of a scene with the accepted ranges
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("scene")
	if id == "" {
		id = "sphere"
	}
	sf, err := s.openScene(id)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	limit := func(min, max int) map[string]int { return map[string]int{"min": min, "max": max} }
	writeJSON(w, http.StatusOK, map[string]any{
		"scene": id,
		"defaults": map[string]any{
			"width":         sf.Width,
			"height":        sf.Height,
			"supersample":   sf.Progressive.Supersample,
			"maxPasses":     sf.Progressive.MaxPasses,
			"shadowQuality": sf.Config.ShadowQuality,
			"maxBounces":    sf.Config.MaxRayBounces,
			"intersections": sf.Config.MaxIntersections,
			"draft":         sf.Config.DraftMode,
		},
		"limits": map[string]any{
			"width":         limit(16, 2000),
			"height":        limit(16, 2000),
			"supersample":   limit(1, 8),
			"maxPasses":     limit(1, 16),
			"shadowQuality": limit(0, 10),
			"maxBounces":    limit(0, 8),
			"intersections": limit(1, 16),
		},
	})
}

// handleImage renders a scene in one go and returns the encoded image
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	_, sf, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	q := r.URL.Query()
	format := loaders.FormatPNG
	if f := q.Get("format"); f != "" {
		if format, err = loaders.ParseFormat(f); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	gamma, err := parseFloatParam(q, "gamma", 1, 0.1, 5)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tracer, err := renderer.NewTracer(sf.Scene, sf.Config)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	frame, stats, err := renderer.Render(r.Context(), tracer, sf.Width, sf.Height, sf.Progressive,
		s.logger.With("scene", sf.Scene.Name))
	if err != nil {
		s.logger.Error("render failed", "scene", sf.Scene.Name, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Render-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	if err := loaders.EncodeFrame(w, frame, format, loaders.EncodeOptions{Gamma: gamma}); err != nil {
		s.logger.Error("failed to write image", "err", err)
	}
}

func contentType(f loaders.Format) string {
	switch f {
	case loaders.FormatJPEG:
		return "image/jpeg"
	case loaders.FormatBMP:
		return "image/bmp"
	case loaders.FormatTIFF:
		return "image/tiff"
	case loaders.FormatEXR:
		return "image/x-exr"
	}
	return "image/png"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
