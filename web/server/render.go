package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Maksasj/nika/pkg/core"
	"github.com/Maksasj/nika/pkg/output"
	"github.com/Maksasj/nika/pkg/renderer"
)

// renderCounter numbers renders for console messages
var renderCounter atomic.Int64

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "passComplete", "error", "complete"
	Data string `json:"data"` // JSON-encoded data or plain message
}

// PassUpdate is the payload of a passComplete event
type PassUpdate struct {
	PassNumber       int        `json:"passNumber"`
	TotalPasses      int        `json:"totalPasses"`
	ElapsedMs        int64      `json:"elapsedMs"`
	Width            int        `json:"width"`
	Height           int        `json:"height"`
	TotalPixels      int        `json:"totalPixels"`
	TotalSamples     int        `json:"totalSamples"`
	SamplesPerPixel  int        `json:"samplesPerPixel"`
	AverageLuminance float64    `json:"averageLuminance"`
	CameraOrigin     [3]float64 `json:"cameraOrigin"`
	IsLast           bool       `json:"isLast"`
	ImageData        string     `json:"imageData"` // Base64 encoded PNG
}

// handleRender streams a progressive render as Server-Sent Events: one
// passComplete event per pass, then complete or error.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	// Single writer goroutine; the handler returns only after it has drained
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Console messages are forwarded until the render finishes
	consoleChan, webLogger := s.setupConsoleLogging()
	consoleCtx, stopConsole := context.WithCancel(ctx)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(consoleCtx, consoleChan, sseEventChan)
	}()
	defer func() {
		stopConsole()
		<-consoleDone
	}()

	raytracer, err := s.setupProgressiveRaytracer(req, webLogger)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	passChan, errChan := raytracer.RenderProgressive(ctx)
	renderErr := s.handleRenderingEvents(ctx, sseEventChan, passChan, errChan, raytracer, startTime)

	// Forward the remaining console output before the final event
	stopConsole()
	<-consoleDone
	s.drainConsoleMessages(ctx, consoleChan, sseEventChan)

	if renderErr != nil {
		if ctx.Err() == nil {
			s.handleError(ctx, sseEventChan, "Rendering failed: "+renderErr.Error())
		}
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	var err error
	if req.MaxSamples, err = parseIntParam(r.URL.Query(), "maxSamples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(r.URL.Query(), "maxPasses", 0, 0, maxPasses); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 800*600 && req.MaxSamples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}
	return req, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", renderCounter.Add(1))
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

// setupProgressiveRaytracer creates the scene and a progressive raytracer with the camera moves applied
func (s *Server) setupProgressiveRaytracer(req *RenderRequest, logger core.Logger) (*renderer.ProgressiveRaytracer, error) {
	sceneObj, err := s.createScene(req)
	if err != nil {
		return nil, err
	}

	config := renderer.DefaultProgressiveConfig()
	config.MaxPasses = req.MaxPasses

	raytracer, err := renderer.NewProgressiveRaytracer(sceneObj, config, logger)
	if err != nil {
		return nil, err
	}
	for _, move := range req.Moves {
		raytracer.MoveCamera(move)
	}
	return raytracer, nil
}

// writeSSEEvents handles writing all SSE events in a single goroutine
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards console messages as SSE events
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for {
		select {
		case consoleMsg := <-consoleChan:
			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}

			select {
			case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
			case <-ctx.Done():
				return
			default:
				// Channel full, skip message to avoid blocking
			}

		case <-ctx.Done():
			return
		}
	}
}

// drainConsoleMessages forwards console messages that are already queued
func (s *Server) drainConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for {
		select {
		case consoleMsg := <-consoleChan:
			data, err := json.Marshal(consoleMsg)
			if err != nil {
				continue
			}
			select {
			case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
			case <-ctx.Done():
				return
			}
		default:
			return
		}
	}
}

// handleRenderingEvents forwards every pass to the client and returns the render error, if any
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan<- SSEEvent,
	passChan <-chan renderer.PassResult, errChan <-chan error,
	raytracer *renderer.ProgressiveRaytracer, startTime time.Time) error {

	for passResult := range passChan {
		if err := s.handlePassComplete(ctx, sseEventChan, passResult, raytracer, startTime); err != nil {
			// Let the renderer finish instead of blocking on an unread channel
			go func() {
				for range passChan {
				}
			}()
			return err
		}
	}

	if err := <-errChan; err != nil {
		return err
	}
	return nil
}

// handlePassComplete encodes a pass snapshot and queues it for the client
func (s *Server) handlePassComplete(ctx context.Context, sseEventChan chan<- SSEEvent, passResult renderer.PassResult, raytracer *renderer.ProgressiveRaytracer, startTime time.Time) error {
	canvas := passResult.Canvas
	imageData, err := canvasToBase64PNG(canvas)
	if err != nil {
		return fmt.Errorf("failed to encode pass %d: %w", passResult.PassNumber, err)
	}

	update := PassUpdate{
		PassNumber:       passResult.PassNumber,
		TotalPasses:      raytracer.Config().MaxPasses,
		ElapsedMs:        time.Since(startTime).Milliseconds(),
		Width:            canvas.Width,
		Height:           canvas.Height,
		TotalPixels:      passResult.Stats.TotalPixels,
		TotalSamples:     passResult.Stats.TotalSamples,
		SamplesPerPixel:  passResult.Stats.SamplesPerPixel,
		AverageLuminance: renderer.AverageLuminance(canvas),
		CameraOrigin:     vecArray(raytracer.Camera().Origin),
		IsLast:           passResult.IsLast,
		ImageData:        imageData,
	}

	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal pass %d: %w", passResult.PassNumber, err)
	}

	select {
	case sseEventChan <- SSEEvent{Type: "passComplete", Data: string(data)}:
	case <-ctx.Done():
	}
	return nil
}

// canvasToBase64PNG converts a finalized canvas to base64-encoded PNG
func canvasToBase64PNG(canvas *renderer.Canvas) (string, error) {
	var buf bytes.Buffer
	if err := output.NewPNGSink(&buf).Write(canvas.Width, canvas.Height, output.RGB8, canvas.Pixels()); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
	}
}
