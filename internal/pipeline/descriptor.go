package pipeline

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"gridforge.dev/internal/generation"
	"gridforge.dev/internal/world"
)

// stageDoc is the YAML shape of one stage descriptor.
type stageDoc struct {
	ID           string   `yaml:"id"`
	Priority     uint32   `yaml:"priority"`
	Terrain      string   `yaml:"terrain,omitempty"`
	Content      string   `yaml:"content,omitempty"`
	Placement    string   `yaml:"placement"`
	Density      float64  `yaml:"density,omitempty"`
	Count        uint32   `yaml:"count,omitempty"`
	MaxAttempts  uint32   `yaml:"max_attempts,omitempty"`
	DependsOn    []string `yaml:"depends_on,omitempty"`
	Overwrite    bool     `yaml:"overwrite,omitempty"`
	RequiresKind []string `yaml:"requires_kind,omitempty"`
	MinSpacing   int      `yaml:"min_spacing,omitempty"`
	NoiseScale   float64  `yaml:"noise_scale,omitempty"`
}

type pipelineDoc struct {
	Stages []stageDoc `yaml:"stages"`
}

// Decode parses a declarative YAML stage list into a validated Pipeline.
func Decode(data []byte) (*Pipeline, error) {
	var doc pipelineDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPipeline, err)
	}
	if len(doc.Stages) == 0 {
		return nil, fmt.Errorf("%w: no stages declared", ErrInvalidPipeline)
	}

	stages := make([]*generation.Stage, 0, len(doc.Stages))
	for _, d := range doc.Stages {
		s, err := d.toStage()
		if err != nil {
			return nil, fmt.Errorf("%w: stage %q: %v", ErrInvalidPipeline, d.ID, err)
		}
		stages = append(stages, s)
	}
	return newPipeline(stages)
}

func (d stageDoc) toStage() (*generation.Stage, error) {
	s := &generation.Stage{
		ID:          d.ID,
		Priority:    d.Priority,
		Density:     d.Density,
		Count:       d.Count,
		MaxAttempts: d.MaxAttempts,
		DependsOn:   d.DependsOn,
		Overwrite:   d.Overwrite,
		MinSpacing:  d.MinSpacing,
		NoiseScale:  d.NoiseScale,
	}
	if s.MaxAttempts == 0 {
		s.MaxAttempts = 16
	}

	switch {
	case d.Terrain != "" && d.Content != "":
		return nil, fmt.Errorf("declares both terrain and content")
	case d.Terrain != "":
		k, err := world.ParseTileKind(d.Terrain)
		if err != nil {
			return nil, err
		}
		s.Kind = k
	case d.Content != "":
		c, err := world.ParseContentKind(d.Content)
		if err != nil {
			return nil, err
		}
		s.Content = c
		s.IsContent = true
	default:
		return nil, fmt.Errorf("declares neither terrain nor content")
	}

	alg, err := generation.ParseAlgorithm(d.Placement)
	if err != nil {
		return nil, err
	}
	s.Placement = alg

	for _, name := range d.RequiresKind {
		k, err := world.ParseTileKind(name)
		if err != nil {
			return nil, err
		}
		s.RequiresKind = append(s.RequiresKind, k)
	}
	return s, nil
}
