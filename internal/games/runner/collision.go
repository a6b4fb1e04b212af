package runner

import (
	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
)

// Hitboxes holds the proximity thresholds for each obstacle kind.
type Hitboxes [kindCount]config.Hitbox

// NewHitboxes builds the lookup table from configuration.
func NewHitboxes(c config.CollisionConfig) Hitboxes {
	var h Hitboxes
	h[KindBox] = c.Box
	h[KindBar] = c.Bar
	return h
}

// CheckHit reports whether the player at pos collides with o. Each axis is
// compared independently against the kind's thresholds; a zero MaxDX means
// the obstacle spans every lane and X is not compared at all.
//
// Boxes are avoided by changing lane or jumping high enough; bars only by
// jumping.
func CheckHit(pos core.Vec3, o Obstacle, h Hitboxes) bool {
	if o.Kind < 0 || o.Kind >= kindCount {
		return false
	}
	hb := h[o.Kind]

	if core.AbsF(o.Position.Z-pos.Z) >= hb.MaxDZ {
		return false
	}
	if hb.MaxDX > 0 && core.AbsF(o.Position.X-pos.X) >= hb.MaxDX {
		return false
	}
	return pos.Y < hb.ClearY
}
