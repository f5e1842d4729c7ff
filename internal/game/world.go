package game

import (
	"fmt"
	"sort"
)

// Item is a purchasable shop entry.
type Item struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Shop sells items inside a sub-location.
type Shop struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Type  string           `json:"type"`
	Items map[string]*Item `json:"items"`
}

// SubLocation is a named area inside a location, gated by player level.
type SubLocation struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	MinLevel int              `json:"min_level"`
	Shops    map[string]*Shop `json:"shops"`
}

// Location is a node in the world graph. Edges map neighbor location ids to
// travel distance in km and are symmetric by construction: only
// WorldMap.Connect may create them.
type Location struct {
	ID    string                  `json:"id"`
	Name  string                  `json:"name"`
	Edges map[string]float64      `json:"edges"`
	Subs  map[string]*SubLocation `json:"sub_locations"`
}

func (l *Location) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("location name is required")
	}
	for id, d := range l.Edges {
		if d <= 0 {
			return fmt.Errorf("edge to %q must have positive distance", id)
		}
	}
	for id, sub := range l.Subs {
		if sub.ID == "" {
			sub.ID = id
		}
		if sub.MinLevel < 1 {
			sub.MinLevel = 1
		}
		for sid, shop := range sub.Shops {
			if shop.ID == "" {
				shop.ID = sid
			}
			for iid, item := range shop.Items {
				if item.ID == "" {
					item.ID = iid
				}
				if item.Price < 0 {
					return fmt.Errorf("item %q has negative price", iid)
				}
			}
		}
	}
	return nil
}

// WorldMap is the static graph of locations. It is built once at startup and
// read-only afterwards, so lookups need no locking.
type WorldMap struct {
	locations map[string]*Location
}

func NewWorldMap() *WorldMap {
	return &WorldMap{locations: map[string]*Location{}}
}

// Add registers a location node. Edges are wired separately via Connect.
func (w *WorldMap) Add(loc *Location) error {
	if loc.ID == "" {
		return fmt.Errorf("location id is required")
	}
	if _, ok := w.locations[loc.ID]; ok {
		return fmt.Errorf("duplicate location %q", loc.ID)
	}
	if loc.Edges == nil {
		loc.Edges = map[string]float64{}
	}
	if loc.Subs == nil {
		loc.Subs = map[string]*SubLocation{}
	}
	w.locations[loc.ID] = loc
	return nil
}

// Connect links two locations with a symmetric edge of the given distance.
// Both endpoints are updated atomically; there is no way to create a
// one-directional or distance-asymmetric edge.
func (w *WorldMap) Connect(a, b string, distance float64) error {
	la, ok := w.locations[a]
	if !ok {
		return fmt.Errorf("connecting %s-%s: %w", a, b, ErrLocationNotFound)
	}
	lb, ok := w.locations[b]
	if !ok {
		return fmt.Errorf("connecting %s-%s: %w", a, b, ErrLocationNotFound)
	}
	if distance <= 0 {
		return fmt.Errorf("connecting %s-%s: distance must be positive", a, b)
	}
	la.Edges[b] = distance
	lb.Edges[a] = distance
	return nil
}

// GetLocation returns the location node for the given id.
func (w *WorldMap) GetLocation(id string) (*Location, error) {
	loc, ok := w.locations[id]
	if !ok {
		return nil, fmt.Errorf("location %q: %w", id, ErrLocationNotFound)
	}
	return loc, nil
}

// AvailableDestinations returns the direct neighbors of a location, ordered
// by name. Unknown or isolated locations yield an empty slice.
func (w *WorldMap) AvailableDestinations(fromID string) []*Location {
	from, ok := w.locations[fromID]
	if !ok {
		return nil
	}
	dests := make([]*Location, 0, len(from.Edges))
	for id := range from.Edges {
		if loc, ok := w.locations[id]; ok {
			dests = append(dests, loc)
		}
	}
	sort.Slice(dests, func(i, j int) bool { return dests[i].Name < dests[j].Name })
	return dests
}

// Distance returns the direct-edge distance between two locations.
func (w *WorldMap) Distance(fromID, toID string) (float64, error) {
	from, ok := w.locations[fromID]
	if !ok {
		return 0, fmt.Errorf("location %q: %w", fromID, ErrLocationNotFound)
	}
	if _, ok := w.locations[toID]; !ok {
		return 0, fmt.Errorf("location %q: %w", toID, ErrLocationNotFound)
	}
	d, ok := from.Edges[toID]
	if !ok {
		return 0, fmt.Errorf("%s to %s: %w", fromID, toID, ErrNoPath)
	}
	return d, nil
}

// TravelTime returns the seconds needed to cover the direct edge between two
// locations at the given speed. The graph is not transitively routed: only
// direct neighbors are reachable in one move.
func (w *WorldMap) TravelTime(fromID, toID string, speedKmh float64) (float64, error) {
	d, err := w.Distance(fromID, toID)
	if err != nil {
		return 0, err
	}
	if speedKmh <= 0 {
		return 0, fmt.Errorf("speed must be positive")
	}
	return (d / speedKmh) * 3600, nil
}

// DefaultWorld builds the built-in three-city map.
func DefaultWorld() *WorldMap {
	w := NewWorldMap()

	ls := &Location{
		ID:   "LS",
		Name: "Los Santos",
		Subs: map[string]*SubLocation{
			"ls_center": {
				ID:       "ls_center",
				Name:     "Downtown",
				MinLevel: 1,
				Shops: map[string]*Shop{
					"ls_market": {
						ID:   "ls_market",
						Name: "24/7 Supermarket",
						Type: "general",
						Items: map[string]*Item{
							"health_potion": {ID: "health_potion", Name: "Health Potion", Price: 30},
							"warrior_sword": {ID: "warrior_sword", Name: "Warrior Sword", Price: 150},
							"leather_armor": {ID: "leather_armor", Name: "Leather Armor", Price: 100},
						},
					},
				},
			},
			"ls_beach": {
				ID:       "ls_beach",
				Name:     "Beach",
				MinLevel: 1,
				Shops:    map[string]*Shop{},
			},
		},
	}

	sf := &Location{
		ID:   "SF",
		Name: "San Fierro",
		Subs: map[string]*SubLocation{
			"sf_port": {
				ID:       "sf_port",
				Name:     "Port",
				MinLevel: 3,
				Shops: map[string]*Shop{
					"sf_hardware": {
						ID:   "sf_hardware",
						Name: "Dockside Hardware",
						Type: "tools",
						Items: map[string]*Item{
							"crowbar":  {ID: "crowbar", Name: "Crowbar", Price: 45},
							"gas_can":  {ID: "gas_can", Name: "Gas Can", Price: 25},
							"flashlit": {ID: "flashlit", Name: "Flashlight", Price: 15},
						},
					},
				},
			},
		},
	}

	lv := &Location{
		ID:   "LV",
		Name: "Las Venturas",
		Subs: map[string]*SubLocation{
			"lv_strip": {
				ID:       "lv_strip",
				Name:     "The Strip",
				MinLevel: 5,
				Shops: map[string]*Shop{
					"lv_pawn": {
						ID:   "lv_pawn",
						Name: "Lucky Star Pawn",
						Type: "luxury",
						Items: map[string]*Item{
							"gold_watch": {ID: "gold_watch", Name: "Gold Watch", Price: 500},
							"dice_set":   {ID: "dice_set", Name: "Loaded Dice", Price: 75},
						},
					},
				},
			},
		},
	}

	// Add cannot fail here: fresh map, distinct ids.
	for _, loc := range []*Location{ls, sf, lv} {
		if err := w.Add(loc); err != nil {
			panic(err)
		}
	}

	mustConnect := func(a, b string, d float64) {
		if err := w.Connect(a, b, d); err != nil {
			panic(err)
		}
	}
	mustConnect("LS", "SF", 200)
	mustConnect("LS", "LV", 250)
	mustConnect("SF", "LV", 150)

	return w
}
