package game

import (
	"fmt"
	"strings"
)

// TransportCategory groups vehicle kinds for display purposes.
type TransportCategory string

const (
	CategoryFoot     TransportCategory = "foot"
	CategoryBike     TransportCategory = "bike"
	CategoryCar      TransportCategory = "car"
	CategorySportCar TransportCategory = "sport_car"
	CategoryAirplane TransportCategory = "airplane"
)

// Transport describes one vehicle kind. The catalog is static and read-only
// at runtime; ownership lives on the player record.
type Transport struct {
	Name          string
	SpeedKmh      float64
	Category      TransportCategory
	FuelCostPerKm float64
	Price         float64
}

// Powered reports whether this transport burns fuel.
func (t *Transport) Powered() bool {
	return t.FuelCostPerKm > 0
}

// TransportCatalog is the fixed table of purchasable vehicle kinds, keyed by
// lowercase name.
type TransportCatalog struct {
	kinds map[string]*Transport
}

func NewTransportCatalog() *TransportCatalog {
	return &TransportCatalog{
		kinds: map[string]*Transport{
			"foot":  {Name: "foot", SpeedKmh: 5, Category: CategoryFoot},
			"bike":  {Name: "bike", SpeedKmh: 15, Category: CategoryBike, Price: 200},
			"sedan": {Name: "sedan", SpeedKmh: 60, Category: CategoryCar, FuelCostPerKm: 0.1, Price: 15000},
			"sport": {Name: "sport", SpeedKmh: 120, Category: CategorySportCar, FuelCostPerKm: 0.3, Price: 75000},
			"plane": {Name: "plane", SpeedKmh: 500, Category: CategoryAirplane, FuelCostPerKm: 1.5, Price: 500000},
		},
	}
}

// Get looks up a transport kind, case-insensitively.
func (c *TransportCatalog) Get(name string) (*Transport, error) {
	t, ok := c.kinds[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("transport %q: %w", name, ErrTransportNotFound)
	}
	return t, nil
}

// All returns every catalog entry keyed by name.
func (c *TransportCatalog) All() map[string]*Transport {
	out := make(map[string]*Transport, len(c.kinds))
	for k, v := range c.kinds {
		out[k] = v
	}
	return out
}

// FuelNeeded returns the fuel a transport burns over a distance, never
// negative.
func (t *Transport) FuelNeeded(distanceKm float64) float64 {
	needed := distanceKm * t.FuelCostPerKm
	if needed < 0 {
		return 0
	}
	return needed
}
