package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Maksasj/nika/pkg/core"
	"github.com/Maksasj/nika/pkg/geometry"
	"github.com/Maksasj/nika/pkg/material"
	"github.com/Maksasj/nika/pkg/output"
	"github.com/Maksasj/nika/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	ObjectIndex  int                    `json:"objectIndex"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Direction    [3]float64             `json:"direction"`
	Distance     float64                `json:"distance"`
	ExitDistance float64                `json:"exitDistance"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult describes the first object seen through a pixel
type InspectResult struct {
	Hit         bool
	ObjectIndex int       // Index into the scene objects, -1 on a miss
	Ray         core.Ray  // Primary ray through the pixel
	Record      scene.Hit // Valid only when Hit is set
}

// materialInfo describes a material for the inspector
func materialInfo(mat *material.Material) map[string]interface{} {
	properties := make(map[string]interface{})
	if mat == nil {
		return properties
	}

	albedo := mat.Albedo
	properties["albedo"] = [3]float64{albedo.R, albedo.G, albedo.B}
	properties["color"] = fmt.Sprintf("#%02x%02x%02x",
		output.Quantize(albedo.R), output.Quantize(albedo.G), output.Quantize(albedo.B))
	properties["metallic"] = mat.Metallic
	if mat.IsEmissive() {
		emission := mat.Emission()
		properties["emission"] = vecArray(emission)
		properties["emissionStrength"] = mat.EmissionStrength
	}
	return properties
}

// geometryInfo describes a shape for the inspector
func geometryInfo(shape geometry.Intersectable) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties
	default:
		return "unknown", properties
	}
}

// inspectPixel casts the primary ray through pixel (x, y) and reports the nearest object
func inspectPixel(sceneObj *scene.Scene, camera geometry.Camera, pixelX, pixelY int) InspectResult {
	config := sceneObj.SamplingConfig
	ray := camera.GetRay(pixelX, pixelY, config.Width, config.Height)

	result := InspectResult{ObjectIndex: -1, Ray: ray}

	hit, isHit := sceneObj.Hit(ray)
	if !isHit {
		return result
	}

	result.Hit = true
	result.Record = hit
	for i := range sceneObj.Objects {
		if &sceneObj.Objects[i] == hit.Object {
			result.ObjectIndex = i
			break
		}
	}
	return result
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	sceneObj, err := s.createScene(inspectReq)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	config := sceneObj.SamplingConfig
	if pixelX < 0 || pixelX >= config.Width || pixelY < 0 || pixelY >= config.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	camera := geometry.Camera{}
	if sceneObj.Camera != nil {
		camera = *sceneObj.Camera
	}
	for _, move := range inspectReq.Moves {
		camera = camera.Move(move, geometry.DefaultMoveStep)
	}

	result := inspectPixel(sceneObj, camera, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{
			Hit:         false,
			ObjectIndex: -1,
			Direction:   vecArray(result.Ray.Direction),
			Properties: map[string]interface{}{
				"sky": vecArray(config.SkyColor),
			},
		})
		return
	}

	record := result.Record
	geometryType, geometryProps := geometryInfo(record.Object.Shape)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		ObjectIndex:  result.ObjectIndex,
		GeometryType: geometryType,
		Point:        vecArray(record.Point),
		Normal:       vecArray(record.Normal),
		Direction:    vecArray(result.Ray.Direction),
		Distance:     record.EntryDistance,
		ExitDistance: record.ExitDistance,
		Properties: map[string]interface{}{
			"material": materialInfo(record.Object.Material),
			"geometry": geometryProps,
		},
	})
}
