package world

// Terrain is the tile category assigned to a whole region.
type Terrain uint8

const (
	Grass Terrain = iota
	Dirt
	Sand
	Water
	Swamp
	Snow
)

// NumTerrains is the number of real terrain kinds.
const NumTerrains = 6

// TerrainNone means "no terrain": off-map lookups and identical edge pairs.
const TerrainNone Terrain = 0xFF

// Terrains lists every terrain kind in id order.
var Terrains = [NumTerrains]Terrain{Grass, Dirt, Sand, Water, Swamp, Snow}

// Valid reports whether t is one of the real terrain kinds.
func (t Terrain) Valid() bool { return t < NumTerrains }

func (t Terrain) String() string { return TerrainName(t) }

// MarshalText encodes the terrain by name.
func (t Terrain) MarshalText() ([]byte, error) {
	return []byte(TerrainName(t)), nil
}

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t Terrain) string {
	switch t {
	case Grass:
		return "Grass"
	case Dirt:
		return "Dirt"
	case Sand:
		return "Sand"
	case Water:
		return "Water"
	case Swamp:
		return "Swamp"
	case Snow:
		return "Snow"
	case TerrainNone:
		return "None"
	default:
		return "Unknown"
	}
}

// EdgeTransition returns the edge overlay a renderer draws on a tile of
// terrain from where it meets a tile of terrain to. Water and sand always
// meet through sand, dirt and grass through grass, any other pair through
// dirt. Identical terrains have no edge and yield TerrainNone, as does any
// pair involving an invalid terrain.
func EdgeTransition(from, to Terrain) Terrain {
	if !from.Valid() || !to.Valid() || from == to {
		return TerrainNone
	}
	switch {
	case from == Water || to == Water, from == Sand || to == Sand:
		return Sand
	case (from == Dirt && to == Grass) || (from == Grass && to == Dirt):
		return Grass
	default:
		return Dirt
	}
}

// colorRegions greedily assigns a terrain per region so that neighbors in
// g differ. Regions are visited in id order and take the lowest terrain no
// already-colored neighbor uses, or Grass when every kind is taken.
func colorRegions(g RegionGraph) []Terrain {
	terrain := make([]Terrain, len(g))
	for r := range terrain {
		terrain[r] = TerrainNone
	}

	for r, neighbors := range g {
		var used [NumTerrains]bool
		for _, n := range neighbors {
			if t := terrain[n]; t.Valid() {
				used[t] = true
			}
		}
		terrain[r] = Grass
		for _, t := range Terrains {
			if !used[t] {
				terrain[r] = t
				break
			}
		}
	}
	return terrain
}
