package domain

import "math"

type PlanetID int

type Position struct {
	X float64
	Y float64
}

type Planet struct {
	ID    PlanetID
	Name  string
	Pos   Position
	Owner PlayerID
	Ships int
}

func Distance(a, b Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// TravelTurns 是 ceil(欧氏距离)。重合的两点会得到 0，这里按 1 回合处理。
func TravelTurns(a, b Position) int {
	turns := int(math.Ceil(Distance(a, b)))
	if turns < 1 {
		return 1
	}
	return turns
}

// Registry 是行星表，PlanetID 即下标。行星开局创建后不会删除。
type Registry struct {
	planets []Planet
}

func NewRegistry(planets []Planet) (*Registry, error) {
	r := &Registry{planets: make([]Planet, len(planets))}
	for i, p := range planets {
		if p.ID != PlanetID(i) {
			return nil, ErrInvariant.WithMsg("planet id must equal its index").
				WithData("planet", int(p.ID)).WithData("index", i)
		}
		if p.Ships < 0 {
			return nil, ErrInvariant.WithMsg("planet ships must not be negative").WithData("planet", i)
		}
		r.planets[i] = p
	}
	return r, nil
}

// At 返回行星指针，id 越界返回 nil。
func (r *Registry) At(id PlanetID) *Planet {
	if id < 0 || int(id) >= len(r.planets) {
		return nil
	}
	return &r.planets[id]
}

func (r *Registry) Get(id PlanetID) (Planet, bool) {
	p := r.At(id)
	if p == nil {
		return Planet{}, false
	}
	return *p, true
}

func (r *Registry) Len() int {
	return len(r.planets)
}

// Planets 返回行星表拷贝。
func (r *Registry) Planets() []Planet {
	out := make([]Planet, len(r.planets))
	copy(out, r.planets)
	return out
}

func (r *Registry) OwnedBy(player PlayerID) int {
	n := 0
	for _, p := range r.planets {
		if p.Owner == player {
			n++
		}
	}
	return n
}
