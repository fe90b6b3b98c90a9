package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Maksasj/nika/pkg/loaders"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string // Name accepted by Create
	DisplayName string // Human readable name
	Description string // Optional description
	Type        string // "builtin" or "file"
	FilePath    string // Path to the TOML file (file type only)
}

// builtin maps scene IDs to their constructors
var builtin = map[string]struct {
	create      func() *Scene
	displayName string
	description string
}{
	"default": {
		create:      NewDefaultScene,
		displayName: "Default Scene",
		description: "Red, green and blue spheres on a large floor sphere",
	},
	"rgb": {
		create:      NewRGBScene,
		displayName: "RGB Spheres",
		description: "Three pure-color mirror spheres",
	},
	"cornell": {
		create:      NewCornellScene,
		displayName: "Cornell Box",
		description: "Sphere-walled box lit by an emissive sphere",
	},
	"spheregrid": {
		create:      NewSphereGridScene,
		displayName: "Sphere Grid",
		description: "Rainbow grid of spheres with increasing metallic",
	},
}

// Create resolves a built-in scene name or a path to a .toml scene file
func Create(name string) (*Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("no scene name given")
	}

	if entry, ok := builtin[name]; ok {
		return entry.create(), nil
	}

	if strings.HasSuffix(name, ".toml") {
		return NewFileScene(name)
	}

	// Fall back to scenes/<name>.toml
	for _, dir := range sceneDirs() {
		path := filepath.Join(dir, name+".toml")
		if _, err := os.Stat(path); err == nil {
			return NewFileScene(path)
		}
	}

	return nil, fmt.Errorf("unknown scene %q", name)
}

// ListBuiltinScenes returns the built-in scenes sorted by ID
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtin))
	for id, entry := range builtin {
		scenes = append(scenes, SceneInfo{
			ID:          id,
			DisplayName: entry.displayName,
			Description: entry.description,
			Type:        "builtin",
		})
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// ListFileScenes scans the scenes directory for TOML scene files
func ListFileScenes() ([]SceneInfo, error) {
	dirs := sceneDirs()
	if len(dirs) == 0 {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dirs[0], "*.toml"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, path := range files {
		info, err := ParseSceneFileMetadata(path)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", path, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ListAllScenes returns built-in scenes followed by file scenes
func ListAllScenes() ([]SceneInfo, error) {
	fileScenes, err := ListFileScenes()
	if err != nil {
		return nil, err
	}
	return append(ListBuiltinScenes(), fileScenes...), nil
}

// ParseSceneFileMetadata reads name and description from a scene file
func ParseSceneFileMetadata(path string) (SceneInfo, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	info := SceneInfo{
		ID:          base,
		DisplayName: titleCase(base),
		Type:        "file",
		FilePath:    path,
	}

	sceneFile, err := loaders.LoadSceneFile(path)
	if err != nil {
		return info, err
	}
	if sceneFile.Name != "" {
		info.DisplayName = sceneFile.Name
	}
	info.Description = sceneFile.Description
	return info, nil
}

// sceneDirs returns the existing candidate scene directories
func sceneDirs() []string {
	var dirs []string
	for _, path := range []string{"scenes", "../scenes", "../../scenes"} {
		if stat, err := os.Stat(path); err == nil && stat.IsDir() {
			dirs = append(dirs, path)
		}
	}
	return dirs
}

// titleCase converts a filename-style string to title case
// e.g., "rgb-spheres" -> "Rgb Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
