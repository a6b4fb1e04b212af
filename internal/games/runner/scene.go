package runner

import "github.com/vovakirdan/lane-runner/internal/core"

// Transform is the placement of one object in the scene.
type Transform struct {
	Position core.Vec3
	Rotation core.Vec3
	Scale    core.Vec3
}

// ObstacleView is the renderable state of an obstacle.
type ObstacleView struct {
	ID   uint64
	Kind Kind
	Lane int
	Transform
}

// Scene is the snapshot handed to the renderer after every tick.
type Scene struct {
	Tick         uint64
	Lanes        []float64
	Player       Transform
	Jumping      bool
	Obstacles    []ObstacleView // Spawn order, oldest (nearest) first
	GroundOffset float64        // Scrolling ground texture offset
	Score        int
	Speed        float64
	Playing      bool
	Over         bool
}

// Renderer consumes scene snapshots. Present is called once per tick and
// must not retain the scene's slices.
type Renderer interface {
	Present(scene Scene)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Scene)

// Present calls f(scene).
func (f RendererFunc) Present(scene Scene) {
	f(scene)
}
