package luxtrace

import (
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/lux"
)

// State is the state of a marching ray.
type State uint8

const (
	Marching State = iota
	Hit
	Escaped
)

func (s State) String() string {
	switch s {
	case Marching:
		return "marching"
	case Hit:
		return "hit"
	case Escaped:
		return "escaped"
	}
	return "State(?)"
}

// Marched is the outcome of marching a single ray through a scene.
type Marched struct {
	State State
	// Node is the scene queried at the hit position. Only valid when State is Hit.
	Node lux.SceneNode
	// T is the distance traveled along the ray.
	T float32
	// Pos is the hit position.
	Pos ms2.Vec
	// Sign is -1 when the ray started inside geometry and 1 otherwise.
	Sign float32
	// Steps is the amount of marching steps taken.
	Steps int
}

// March advances a ray from origin along the unit direction dir by the
// scene's distance until it comes within cfg.Epsilon of a surface or runs
// out of steps or distance. Rays starting inside geometry march on the
// negated distance so they stop at the boundary they are leaving through.
func March(scene lux.Node, origin, dir ms2.Vec, cfg *Config) Marched {
	m := Marched{State: Marching, T: cfg.StartT, Sign: 1}
	if scene.Eval(origin).Distance <= 0 {
		m.Sign = -1
	}
	for m.State == Marching {
		if m.Steps >= cfg.MaxSteps || m.T >= cfg.MaxDistance {
			m.State = Escaped
			break
		}
		p := ms2.Add(origin, ms2.Scale(m.T, dir))
		sn := scene.Eval(p)
		d := sn.Distance * m.Sign
		if d < cfg.Epsilon {
			m.State = Hit
			m.Node = sn
			m.Pos = p
			break
		}
		m.T += d
		m.Steps++
	}
	return m
}
