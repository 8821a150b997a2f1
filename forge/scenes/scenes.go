// Package scenes is a catalog of demonstration scenes spanning the unit square,
// each paired with the transport settings it is meant to be rendered with.
package scenes

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/lux"
	"github.com/soypat/lux/forge/textsdf"
	"github.com/soypat/lux/luxtrace"
)

// Scene is a renderable scene and its transport configuration.
type Scene struct {
	Name        string
	Description string
	Root        lux.Node
	Trace       luxtrace.Config
}

type entry struct {
	desc  string
	build func(bld *lux.Builder) (lux.Node, error)
	trace func() luxtrace.Config
}

var catalog = map[string]entry{
	"basic": {
		desc:  "emissive circle lighting the plane",
		build: basic,
		trace: shapeTrace,
	},
	"union": {
		desc:  "two overlapping emissive circles joined",
		build: twoCircles(func(bld *lux.Builder, a, b lux.Node) lux.Node { return bld.Union(a, b) }),
		trace: shapeTrace,
	},
	"intersection": {
		desc:  "lens shaped intersection of two emissive circles",
		build: twoCircles((*lux.Builder).Intersection),
		trace: shapeTrace,
	},
	"subtraction": {
		desc:  "crescent left by carving the right circle from the left one",
		build: twoCircles((*lux.Builder).Subtraction),
		trace: shapeTrace,
	},
	"subtraction-ba": {
		desc: "crescent left by carving the left circle from the right one",
		build: twoCircles(func(bld *lux.Builder, a, b lux.Node) lux.Node {
			return bld.Subtraction(b, a)
		}),
		trace: shapeTrace,
	},
	"plane": {
		desc: "emissive half plane covering the top half of the image",
		build: func(bld *lux.Builder) (lux.Node, error) {
			return bld.NewObject(bld.NewHalfPlane(ms2.Vec{X: 0.5, Y: 0.5}, ms2.Vec{Y: 1}), lux.Emitter(0.8)), bld.Err()
		},
		trace: shapeTrace,
	},
	"capsule": {
		desc: "emissive capsule on the diagonal",
		build: func(bld *lux.Builder) (lux.Node, error) {
			return bld.NewObject(bld.NewCapsule(ms2.Vec{X: 0.4, Y: 0.4}, ms2.Vec{X: 0.6, Y: 0.6}, 0.1), lux.Emitter(1)), bld.Err()
		},
		trace: shapeTrace,
	},
	"box": {
		desc: "rotated emissive box with rounded corners",
		build: func(bld *lux.Builder) (lux.Node, error) {
			box := bld.NewBox(ms2.Vec{X: 0.5, Y: 0.5}, 2*math32.Pi/16, ms2.Vec{X: 0.3, Y: 0.1})
			return bld.Offset(bld.NewObject(box, lux.Emitter(1)), 0.1), bld.Err()
		},
		trace: shapeTrace,
	},
	"triangle": {
		desc: "emissive triangle with rounded corners",
		build: func(bld *lux.Builder) (lux.Node, error) {
			tri := bld.NewTriangle(ms2.Vec{X: 0.5, Y: 0.2}, ms2.Vec{X: 0.8, Y: 0.8}, ms2.Vec{X: 0.3, Y: 0.6})
			return bld.Offset(bld.NewObject(tri, lux.Emitter(1)), 0.1), bld.Err()
		},
		trace: shapeTrace,
	},
	"reflect": {
		desc:  "light bouncing off two rotated mirror boxes",
		build: reflect,
		trace: func() luxtrace.Config {
			cfg := shapeTrace()
			cfg.MaxSteps = 64
			cfg.MaxDistance = 5
			cfg.MaxDepth = 3
			return cfg
		},
	},
	"refract": {
		desc:  "glass capsules mirrored about the center lit from the four corners",
		build: refract,
		trace: func() luxtrace.Config {
			cfg := shapeTrace()
			cfg.MaxSteps = 32
			cfg.MaxDistance = 3
			cfg.MaxDepth = 2
			return cfg
		},
	},
	"beerlambert": {
		desc:  "light shining through an absorbing glass pentagon",
		build: beerLambert,
		trace: func() luxtrace.Config {
			cfg := shapeTrace()
			cfg.Samples = 256
			cfg.MaxSteps = 64
			cfg.MaxDistance = 5
			cfg.MaxDepth = 5
			cfg.Fresnel = true
			return cfg
		},
	},
	"text": {
		desc:  "emissive text reflected on a mirror floor",
		build: text,
		trace: func() luxtrace.Config {
			cfg := shapeTrace()
			cfg.MaxSteps = 64
			cfg.MaxDistance = 5
			cfg.MaxDepth = 1
			return cfg
		},
	},
}

// Names returns the sorted names of all scenes in the catalog.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog builds every scene, sorted by name.
func Catalog() ([]Scene, error) {
	names := Names()
	scenes := make([]Scene, 0, len(names))
	for _, name := range names {
		s, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, s)
	}
	return scenes, nil
}

// Lookup builds the scene with the given name.
func Lookup(name string) (Scene, error) {
	e, ok := catalog[name]
	if !ok {
		return Scene{}, fmt.Errorf("scene %q not found", name)
	}
	var bld lux.Builder
	bld.SetFlags(lux.FlagNoDimensionPanic)
	root, err := e.build(&bld)
	if err != nil {
		return Scene{}, fmt.Errorf("building scene %q: %w", name, err)
	}
	return Scene{Name: name, Description: e.desc, Root: root, Trace: e.trace()}, nil
}

// shapeTrace traces primary rays only over short distances.
func shapeTrace() luxtrace.Config {
	cfg := luxtrace.DefaultConfig()
	cfg.Samples = 64
	cfg.MaxSteps = 10
	cfg.MaxDistance = 2
	cfg.MaxDepth = 0
	cfg.Fresnel = false
	return cfg
}

func basic(bld *lux.Builder) (lux.Node, error) {
	return bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.75, Y: 0.5}, 0.2), lux.Emitter(2)), bld.Err()
}

func twoCircles(op func(bld *lux.Builder, a, b lux.Node) lux.Node) func(*lux.Builder) (lux.Node, error) {
	return func(bld *lux.Builder) (lux.Node, error) {
		a := bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.3, Y: 0.5}, 0.2), lux.Emitter(1))
		b := bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.4, Y: 0.5}, 0.2), lux.Emitter(0.8))
		return op(bld, a, b), bld.Err()
	}
}

func reflect(bld *lux.Builder) (lux.Node, error) {
	const theta = 2 * math32.Pi / 16
	half := ms2.Vec{X: 0.1, Y: 0.1}
	light := bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.4, Y: 0.2}, 0.1), lux.Emitter(2))
	b := bld.NewObject(bld.NewBox(ms2.Vec{X: 0.5, Y: 0.8}, theta, half), lux.Mirror(0.9))
	c := bld.NewObject(bld.NewBox(ms2.Vec{X: 0.8, Y: 0.5}, theta, half), lux.Mirror(0.9))
	return bld.Union(light, b, c), bld.Err()
}

func refract(bld *lux.Builder) (lux.Node, error) {
	glass := lux.Material{Reflectivity: 0.2, Eta: 1.5}
	bottom := ms2.Vec{X: 0.75, Y: 0.25}
	a := bld.NewObject(bld.NewCapsule(bottom, ms2.Vec{X: 0.75, Y: 0.75}, 0.05), glass)
	b := bld.NewObject(bld.NewCapsule(bottom, ms2.Vec{X: 0.5, Y: 0.75}, 0.05), glass)
	light := bld.NewObject(bld.NewCircle(ms2.Vec{X: 1.05, Y: 1.05}, 0.05), lux.Emitter(5))
	capsules := mirrorAboutCenter(bld, bld.Union(a, b), true, false)
	lights := mirrorAboutCenter(bld, light, true, true)
	return bld.Union(capsules, lights), bld.Err()
}

// mirrorAboutCenter reflects the half of n with coordinates above 0.5 onto the other half.
func mirrorAboutCenter(bld *lux.Builder, n lux.Node, x, y bool) lux.Node {
	var d ms2.Vec
	if x {
		d.X = 0.5
	}
	if y {
		d.Y = 0.5
	}
	n = bld.Translate(n, -d.X, -d.Y)
	n = bld.Symmetry(n, x, y)
	return bld.Translate(n, d.X, d.Y)
}

func beerLambert(bld *lux.Builder) (lux.Node, error) {
	light := bld.NewObject(bld.NewCircle(ms2.Vec{X: 0.5, Y: -0.2}, 0.1), lux.Emitter(10))
	glass := lux.Material{Eta: 1.5, Absorption: ms3.Vec{X: 4, Y: 4, Z: 1}}
	pentagon := bld.NewObject(bld.NewNgon(ms2.Vec{X: 0.5, Y: 0.5}, 0.25, 5), glass)
	return bld.Union(light, pentagon), bld.Err()
}

func text(bld *lux.Builder) (lux.Node, error) {
	var f textsdf.Font
	err := f.LoadTTFBytes(textsdf.GoRegularTTF())
	if err != nil {
		return nil, err
	}
	err = f.Configure(textsdf.FontConfig{Height: 0.3, Material: lux.Emitter(1.5)})
	if err != nil {
		return nil, err
	}
	line, err := f.TextLine("lux")
	if err != nil {
		return nil, err
	}
	bb := line.Bounds()
	line = bld.Translate(line, 0.5-(bb.Min.X+bb.Max.X)/2, 0.6)
	floor := bld.NewObject(bld.NewHalfPlane(ms2.Vec{Y: 0.8}, ms2.Vec{Y: -1}), lux.Mirror(0.5))
	return bld.Union(line, floor), bld.Err()
}
