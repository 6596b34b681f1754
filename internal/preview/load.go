package preview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vasalvit/geoleaf"
)

// LoadCollection reads either a GeoJSON feature collection or a scene
// document. Scenes are converted with cfg.
func LoadCollection(path string, cfg geoleaf.Config) (geoleaf.FeatureCollection, []geoleaf.UnsupportedSegmentWarning, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return geoleaf.FeatureCollection{}, nil, err
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return geoleaf.FeatureCollection{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	if head.Type == "FeatureCollection" {
		var fc geoleaf.FeatureCollection
		if err := json.Unmarshal(b, &fc); err != nil {
			return geoleaf.FeatureCollection{}, nil, fmt.Errorf("%s: %w", path, err)
		}
		return fc, nil, nil
	}
	scene, err := geoleaf.DecodeScene(bytes.NewReader(b))
	if err != nil {
		return geoleaf.FeatureCollection{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return geoleaf.Convert(scene, cfg)
}
