package hummingbird

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// Tags used by scene discovery and collider queries
const (
	TagFlowerPlant string = "flower_plant"
	TagNectar      string = "nectar"
	TagFlower      string = "flower"
	TagBoundary    string = "boundary"
)

// SceneConfig is a declarative description of a flower area. It can be
// authored in YAML and fed to BuildScene to produce the entity tree
// that FlowerArea discovers flowers from.
type SceneConfig struct {
	Area    AreaConfig     `yaml:"area"`
	Plants  []PlantConfig  `yaml:"plants"`
	Flowers []FlowerConfig `yaml:"flowers"` // free-standing flowers
}

// AreaConfig describes the bounded region that the agent and flowers
// occupy. The area is a box centered horizontally on Center, spanning
// Diameter in x and z and rising Ceiling above the floor.
type AreaConfig struct {
	Center   [3]float64 `yaml:"center"`
	Diameter float64    `yaml:"diameter"`
	Ceiling  float64    `yaml:"ceiling"`
}

// PlantConfig describes one flower plant: a group of flowers that
// shares a base position and is re-oriented together on episode reset
type PlantConfig struct {
	Name     string         `yaml:"name"`
	Position [3]float64     `yaml:"position"`
	Flowers  []FlowerConfig `yaml:"flowers"`
}

// FlowerConfig describes one flower's pose. For flowers belonging to a
// plant, Offset is relative to the plant base; for free-standing
// flowers it is a world position. Up is the direction the nectar
// opening faces.
type FlowerConfig struct {
	Offset [3]float64 `yaml:"offset"`
	Up     [3]float64 `yaml:"up"`
}

// Node is one entity in the scene tree walked by flower discovery.
// Nodes tagged TagFlowerPlant group the flowers below them; nodes with
// a non-nil Flower expose the flower capability; all other nodes are
// searched recursively.
type Node struct {
	Name     string
	Tag      string
	Position r3.Vec // world position, meaningful for plant nodes
	Children []*Node
	Flower   *FlowerConfig
}

// LoadScene reads and validates a YAML scene description
func LoadScene(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loadScene: %w", err)
	}

	var cfg SceneConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loadScene: could not parse %v: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loadScene: %w", err)
	}
	return &cfg, nil
}

// Validate checks that a scene description is usable
func (cfg *SceneConfig) Validate() error {
	if cfg.Area.Diameter <= 0 {
		return fmt.Errorf("area diameter must be positive, got %v",
			cfg.Area.Diameter)
	}
	if cfg.Area.Ceiling <= 0 {
		return fmt.Errorf("area ceiling must be positive, got %v",
			cfg.Area.Ceiling)
	}

	flowers := len(cfg.Flowers)
	for _, plant := range cfg.Plants {
		flowers += len(plant.Flowers)
	}
	if flowers == 0 {
		return fmt.Errorf("scene contains no flowers")
	}

	for _, flower := range cfg.Flowers {
		if vec(flower.Up) == (r3.Vec{}) {
			return fmt.Errorf("flower up vector must be non-zero")
		}
	}
	for _, plant := range cfg.Plants {
		for _, flower := range plant.Flowers {
			if vec(flower.Up) == (r3.Vec{}) {
				return fmt.Errorf("plant %v: flower up vector must be "+
					"non-zero", plant.Name)
			}
		}
	}
	return nil
}

// BuildScene converts a scene description into the entity tree that
// FlowerArea discovery walks. Plants become tagged group nodes with one
// child per flower; free-standing flowers hang off an untagged
// intermediate node.
func BuildScene(cfg *SceneConfig) *Node {
	root := &Node{Name: "flower-area"}

	for i, plant := range cfg.Plants {
		name := plant.Name
		if name == "" {
			name = fmt.Sprintf("plant-%d", i)
		}
		plantNode := &Node{
			Name:     name,
			Tag:      TagFlowerPlant,
			Position: vec(plant.Position),
		}
		for j := range plant.Flowers {
			flower := plant.Flowers[j]
			plantNode.Children = append(plantNode.Children, &Node{
				Name:   fmt.Sprintf("%v-flower-%d", name, j),
				Flower: &flower,
			})
		}
		root.Children = append(root.Children, plantNode)
	}

	if len(cfg.Flowers) > 0 {
		group := &Node{Name: "flowers"}
		for i := range cfg.Flowers {
			flower := cfg.Flowers[i]
			group.Children = append(group.Children, &Node{
				Name:   fmt.Sprintf("flower-%d", i),
				Flower: &flower,
			})
		}
		root.Children = append(root.Children, group)
	}

	return root
}

// DefaultScene returns a small island of flower plants suitable for
// training runs and examples
func DefaultScene() *SceneConfig {
	plant := func(name string, x, z float64) PlantConfig {
		return PlantConfig{
			Name:     name,
			Position: [3]float64{x, 0, z},
			Flowers: []FlowerConfig{
				{Offset: [3]float64{0.3, 1.4, 0}, Up: [3]float64{0.3, 1, 0}},
				{Offset: [3]float64{-0.3, 1.6, 0.2}, Up: [3]float64{-0.2, 1, 0.1}},
				{Offset: [3]float64{0, 1.8, -0.3}, Up: [3]float64{0, 1, -0.3}},
			},
		}
	}

	return &SceneConfig{
		Area: AreaConfig{
			Center:   [3]float64{0, 0, 0},
			Diameter: 20,
			Ceiling:  8,
		},
		Plants: []PlantConfig{
			plant("plant-north", 0, 6),
			plant("plant-east", 6, 0),
			plant("plant-south", 0, -6),
			plant("plant-west", -6, 0),
			plant("plant-center", 2, 2),
		},
		Flowers: []FlowerConfig{
			{Offset: [3]float64{-3, 1.5, 3}, Up: [3]float64{0, 1, 0}},
			{Offset: [3]float64{4, 1.3, -4}, Up: [3]float64{0.2, 1, 0.2}},
		},
	}
}

// vec converts a YAML 3-element array to an r3.Vec
func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
