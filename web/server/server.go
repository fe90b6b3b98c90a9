package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Maksasj/nika/pkg/core"
	"github.com/Maksasj/nika/pkg/geometry"
	"github.com/Maksasj/nika/pkg/scene"
)

// Request limits shared by the render and inspect endpoints
const (
	minImageSize  = 16
	maxImageSize  = 2000
	maxSamples    = 10000
	maxPasses     = 10000
	maxDepthLimit = 64
	maxMoves      = 1000
)

// Server handles web requests for the progressive renderer
type Server struct {
	port int
	mux  *http.ServeMux
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	s := &Server{port: port, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	return s
}

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// RenderRequest represents a render or inspect request from the client
type RenderRequest struct {
	Scene      string                   `json:"scene"`      // Built-in scene name or scene file ID
	Width      int                      `json:"width"`      // Image width (0 = scene default)
	Height     int                      `json:"height"`     // Image height (0 = scene default)
	MaxSamples int                      `json:"maxSamples"` // Maximum samples per pixel
	MaxPasses  int                      `json:"maxPasses"`  // Maximum number of passes (0 = one sample per pass)
	MaxDepth   int                      `json:"maxDepth"`   // Bounce limit (-1 = scene default)
	Sampling   string                   `json:"sampling"`   // "legacy" or "uniform" (empty = scene default)
	Moves      []geometry.MoveDirection `json:"-"`          // Camera moves applied before rendering
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and file scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	type sceneEntry struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}
	entries := make([]sceneEntry, 0, len(scenes))
	for _, info := range scenes {
		entries = append(entries, sceneEntry{
			ID:          info.ID,
			DisplayName: info.DisplayName,
			Description: info.Description,
			Type:        info.Type,
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.Create(sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.SamplingConfig
	camera := geometry.Camera{}
	if sceneObj.Camera != nil {
		camera = *sceneObj.Camera
	}

	response := map[string]interface{}{
		"scene":   sceneName,
		"objects": len(sceneObj.Objects),
		"defaults": map[string]interface{}{
			"width":           config.Width,
			"height":          config.Height,
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
			"sampling":        config.SphereSampling.String(),
			"sky":             vecArray(config.SkyColor),
			"cameraOrigin":    vecArray(camera.Origin),
			"cameraTilt":      vecArray(camera.Tilt),
		},
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":     map[string]int{"min": minImageSize, "max": maxImageSize},
			"maxSamples": map[string]int{"min": 1, "max": maxSamples},
			"maxPasses":  map[string]int{"min": 0, "max": maxPasses},
			"maxDepth":   map[string]int{"min": 0, "max": maxDepthLimit},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// parseCommonSceneParams parses the parameters shared by render and inspect
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()

	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}
	// Only scene IDs are accepted; file paths stay on the server side
	if strings.ContainsAny(req.Scene, `/\`) || strings.HasSuffix(req.Scene, ".toml") {
		return fmt.Errorf("invalid scene name: %s", req.Scene)
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minImageSize, maxImageSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 0, minImageSize, maxImageSize); err != nil {
		return err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", -1, 0, maxDepthLimit); err != nil {
		return err
	}

	req.Sampling = query.Get("sampling")
	if _, err := core.ParseSphereSampling(req.Sampling); err != nil {
		return err
	}

	if req.Moves, err = parseMoves(query.Get("moves")); err != nil {
		return err
	}
	return nil
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

// parseMoves converts a string of WASD keys into camera moves
func parseMoves(keys string) ([]geometry.MoveDirection, error) {
	if len(keys) > maxMoves {
		return nil, fmt.Errorf("too many camera moves: %d (max %d)", len(keys), maxMoves)
	}

	moves := make([]geometry.MoveDirection, 0, len(keys))
	for _, key := range strings.ToLower(keys) {
		switch key {
		case 'w':
			moves = append(moves, geometry.MoveForward)
		case 's':
			moves = append(moves, geometry.MoveBackward)
		case 'a':
			moves = append(moves, geometry.MoveLeft)
		case 'd':
			moves = append(moves, geometry.MoveRight)
		default:
			return nil, fmt.Errorf("invalid camera move %q (want w, a, s or d)", key)
		}
	}
	return moves, nil
}

// createScene creates the requested scene and applies the request overrides.
// Camera moves are left to the caller.
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.Create(req.Scene)
	if err != nil {
		return nil, err
	}

	config := &sceneObj.SamplingConfig
	if req.Width > 0 {
		config.Width = req.Width
	}
	if req.Height > 0 {
		config.Height = req.Height
	}
	if req.MaxSamples > 0 {
		config.SamplesPerPixel = req.MaxSamples
	}
	if req.MaxDepth >= 0 {
		config.MaxDepth = req.MaxDepth
	}
	if req.Sampling != "" {
		if config.SphereSampling, err = core.ParseSphereSampling(req.Sampling); err != nil {
			return nil, err
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
