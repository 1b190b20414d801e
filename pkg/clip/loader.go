package clip

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teslashibe/go-avatar/pkg/anim"
	"github.com/teslashibe/go-avatar/pkg/rig"
)

//go:embed data/*.json
var embeddedClips embed.FS

// LoadEmbedded loads a clip from the embedded data.
func LoadEmbedded(name string) (*Clip, error) {
	filename := fmt.Sprintf("data/%s.json", name)
	data, err := embeddedClips.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("clip %q not found: %w", name, err)
	}
	return parseClipJSON(name, data)
}

// LoadFromFile loads a clip from a JSON file on disk. This is how
// users add custom gestures and poses.
func LoadFromFile(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip file: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	return parseClipJSON(name, data)
}

// LoadFromDirectory loads all clips from a directory. Useful for
// loading custom clip packs.
func LoadFromDirectory(dir string) ([]*Clip, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list clip files: %w", err)
	}

	var clips []*Clip
	for _, file := range files {
		c, err := LoadFromFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		clips = append(clips, c)
	}
	return clips, nil
}

// ListEmbedded returns the names of all embedded clips.
func ListEmbedded() ([]string, error) {
	entries, err := embeddedClips.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded clips: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	return names, nil
}

// parseClipJSON parses and validates one clip file.
func parseClipJSON(name string, data []byte) (*Clip, error) {
	var raw clipData
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse clip JSON: %w", err)
	}

	if raw.Type == string(KindPose) {
		if len(raw.Props) == 0 {
			return nil, fmt.Errorf("pose clip %q has no props", name)
		}
		return &Clip{
			Name:        name,
			Description: raw.Description,
			Kind:        KindPose,
			Pose: &rig.PoseTemplate{
				Name:         name,
				Class:        rig.ParseClass(raw.Class),
				WeightOnLeft: raw.WeightOnLeft,
				Props:        raw.Props,
			},
		}, nil
	}

	tpl := &anim.Template{
		Name:     name,
		Delay:    raw.Delay,
		Dts:      raw.Dts,
		Channels: raw.Vs,
		Mood:     raw.Mood,
		Loop:     raw.Loop,
		Text:     raw.Text,
		Pose:     raw.Pose,
		Hand:     raw.Hand,
	}
	if err := tpl.Validate(); err != nil {
		return nil, fmt.Errorf("clip %q: %w", name, err)
	}
	return &Clip{
		Name:        name,
		Description: raw.Description,
		Kind:        KindAnim,
		Template:    tpl,
	}, nil
}
