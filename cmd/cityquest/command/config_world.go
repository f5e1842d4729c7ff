package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-cityquest/internal/game"
	"github.com/pixil98/go-cityquest/internal/storage"
)

type WorldConfig struct {
	// LocationsPath points at a directory of location asset files. Empty
	// means the built-in world.
	LocationsPath   string `json:"locations_path"`
	DefaultLocation string `json:"default_location"`
}

func (c *WorldConfig) validate() error {
	el := errors.NewErrorList()

	if c.LocationsPath != "" {
		_, err := os.Stat(c.LocationsPath)
		if err != nil {
			el.Add(fmt.Errorf("invalid locations_path %q: %w", c.LocationsPath, err))
		}
	}

	return el.Err()
}

func (c *WorldConfig) defaultLocation() string {
	if c.DefaultLocation == "" {
		return "LS"
	}
	return c.DefaultLocation
}

// buildWorldMap constructs the world graph once, at startup. Asset-loaded
// worlds must declare every edge identically on both endpoints; the graph
// itself is wired exclusively through Connect so distances stay symmetric.
func (c *WorldConfig) buildWorldMap() (*game.WorldMap, error) {
	if c.LocationsPath == "" {
		w := game.DefaultWorld()
		if _, err := w.GetLocation(c.defaultLocation()); err != nil {
			return nil, fmt.Errorf("default location: %w", err)
		}
		return w, nil
	}

	store, err := storage.NewFileStore[*game.Location](c.LocationsPath)
	if err != nil {
		return nil, fmt.Errorf("loading location assets: %w", err)
	}
	return c.worldFromAssets(store)
}

// worldFromAssets wires a graph from loaded location specs.
func (c *WorldConfig) worldFromAssets(store storage.Storer[*game.Location]) (*game.WorldMap, error) {
	specs := store.GetAll()
	w := game.NewWorldMap()

	// First pass: register nodes. Declared edges are collected and wired in
	// the second pass so nothing bypasses Connect.
	edges := map[string]map[string]float64{}
	for id, spec := range specs {
		if spec.ID == "" {
			spec.ID = id.String()
		}
		edges[spec.ID] = spec.Edges
		spec.Edges = nil
		if err := w.Add(spec); err != nil {
			return nil, err
		}
	}

	for from, tos := range edges {
		for to, distance := range tos {
			back, ok := edges[to]
			if !ok {
				return nil, fmt.Errorf("location %q has edge to unknown location %q", from, to)
			}
			reverse, ok := back[from]
			if !ok {
				return nil, fmt.Errorf("edge %s-%s is not declared on both endpoints", from, to)
			}
			if reverse != distance {
				return nil, fmt.Errorf("edge %s-%s has asymmetric distances %.1f and %.1f", from, to, distance, reverse)
			}
			if from < to { // wire each pair once
				if err := w.Connect(from, to, distance); err != nil {
					return nil, err
				}
			}
		}
	}

	if _, err := w.GetLocation(c.defaultLocation()); err != nil {
		return nil, fmt.Errorf("default location: %w", err)
	}
	return w, nil
}
