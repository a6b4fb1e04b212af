package runner

import (
	"math"
	"sort"

	"github.com/vovakirdan/lane-runner/internal/core"
)

// Visual characters for rendering
const (
	GroundLight = '░'
	LaneMark    = '┊'
	RoadEdge    = '│'
	BoxFace     = '▓'
	BoxFaceRoll = '▒'
	BarChar     = '═'
	BodyChar    = '█'
	VisorChar   = '▀'
	ShadowChar  = '▁'
)

// Scene geometry shared with the simulation's world units.
const (
	roadHalfWidth     = 10.0   // Ground plane is 20 wide
	groundFar         = -950.0 // Ground plane ends here
	groundTextureSpan = 20.0   // World units per texture repeat along Z
	groundTile        = 2.0    // Checker tile edge in world units
	boxHalfWidth      = 1.25
	boxHalfHeight     = 1.0
	boxHalfDepth      = 1.0
	barHalfLength     = 5.0
	barRadius         = 0.3
	playerHalfWidth   = 0.7
	playerHalfHeight  = 1.2
	visorOffset       = 0.5
	nearClip          = 0.5
)

// Camera is a pinhole camera looking down -Z.
type Camera struct {
	Position core.Vec3
	Horizon  float64 // Horizon row as a fraction of screen height
	FocalX   float64 // Horizontal focal length as a fraction of screen width
	FocalY   float64 // Vertical focal length as a fraction of screen height
	FogStart float64 // Depth where objects start to fade
}

// DefaultCamera sits above and behind the player, looking down the lanes.
func DefaultCamera() Camera {
	return Camera{
		Position: core.V3(0, 6, 12),
		Horizon:  0.3,
		FocalX:   0.8,
		FocalY:   1.0,
		FogStart: 60,
	}
}

// ProjectionRenderer draws scenes into a character screen using a simple
// perspective projection. Objects are painted far to near.
type ProjectionRenderer struct {
	screen *core.Screen
	cam    Camera
}

// NewProjectionRenderer creates a renderer drawing into screen.
func NewProjectionRenderer(screen *core.Screen, cam Camera) *ProjectionRenderer {
	return &ProjectionRenderer{screen: screen, cam: cam}
}

// Screen returns the target screen.
func (r *ProjectionRenderer) Screen() *core.Screen {
	return r.screen
}

// Present clears the screen and draws the scene.
func (r *ProjectionRenderer) Present(sc Scene) {
	r.screen.Clear()
	r.drawGround(sc)

	type drawable struct {
		z    float64
		draw func()
	}
	items := make([]drawable, 0, len(sc.Obstacles)+1)
	for _, o := range sc.Obstacles {
		items = append(items, drawable{z: o.Position.Z, draw: func() { r.drawObstacle(o) }})
	}
	items = append(items, drawable{z: sc.Player.Position.Z, draw: func() { r.drawPlayer(sc) }})

	// Stable so the player wins ties with obstacles at the same depth
	sort.SliceStable(items, func(i, j int) bool { return items[i].z < items[j].z })
	for _, it := range items {
		it.draw()
	}
}

func (r *ProjectionRenderer) width() float64  { return float64(r.screen.Width()) }
func (r *ProjectionRenderer) height() float64 { return float64(r.screen.Height()) }

func (r *ProjectionRenderer) horizon() float64 {
	return r.height() * r.cam.Horizon
}

// Project maps a world point to screen coordinates. ok is false for points
// at or behind the near clip plane.
func (r *ProjectionRenderer) Project(p core.Vec3) (sx, sy, depth float64, ok bool) {
	depth = r.cam.Position.Z - p.Z
	if depth <= nearClip {
		return 0, 0, depth, false
	}
	sx = r.width()/2 + (p.X-r.cam.Position.X)*r.width()*r.cam.FocalX/depth
	sy = r.horizon() + (r.cam.Position.Y-p.Y)*r.height()*r.cam.FocalY/depth
	return sx, sy, depth, true
}

// drawGround paints the checkered ground, lane markers and road edges row by row.
func (r *ProjectionRenderer) drawGround(sc Scene) {
	w, h := r.screen.Width(), r.screen.Height()
	fx := r.width() * r.cam.FocalX
	fy := r.height() * r.cam.FocalY

	for row := int(math.Ceil(r.horizon())); row < h; row++ {
		dy := float64(row) + 0.5 - r.horizon()
		if dy <= 0 {
			continue
		}
		depth := r.cam.Position.Y * fy / dy
		z := r.cam.Position.Z - depth
		if z < groundFar {
			continue
		}

		color := core.ColorGreen
		if depth > r.cam.FogStart {
			color = core.ColorGray
		}
		tz := int(math.Floor((z + sc.GroundOffset*groundTextureSpan) / groundTile))

		for col := 0; col < w; col++ {
			x := (float64(col)+0.5-r.width()/2)*depth/fx + r.cam.Position.X
			if math.Abs(x) > roadHalfWidth {
				continue
			}
			tx := int(math.Floor((x + roadHalfWidth) / groundTile))
			if (tx+tz)%2 == 0 {
				r.screen.SetColor(col, row, GroundLight, color)
			}
		}

		r.drawLaneMarks(sc.Lanes, row, depth, fx)
	}
}

// drawLaneMarks draws dotted separators between lanes and solid road edges.
func (r *ProjectionRenderer) drawLaneMarks(lanes []float64, row int, depth, fx float64) {
	if len(lanes) == 0 {
		return
	}
	col := func(x float64) int {
		return int(math.Floor(r.width()/2 + (x-r.cam.Position.X)*fx/depth))
	}
	for i := 1; i < len(lanes); i++ {
		r.screen.SetColor(col((lanes[i-1]+lanes[i])/2), row, LaneMark, core.ColorWhite)
	}
	half := 1.5
	if len(lanes) > 1 {
		half = (lanes[1] - lanes[0]) / 2
	}
	r.screen.SetColor(col(lanes[0]-half), row, RoadEdge, core.ColorWhite)
	r.screen.SetColor(col(lanes[len(lanes)-1]+half), row, RoadEdge, core.ColorWhite)
}

// fillBox fills the screen rectangle covering the world-space quad at depth z.
func (r *ProjectionRenderer) fillBox(x0, x1, y0, y1, z float64, ch rune, color core.Color) bool {
	lx, ty, depth, ok := r.Project(core.V3(x0, y1, z))
	if !ok {
		return false
	}
	rx, by, _, _ := r.Project(core.V3(x1, y0, z))
	if depth > r.cam.FogStart {
		color = core.ColorGray
	}

	left, right := int(math.Floor(lx)), int(math.Ceil(rx))
	top, bottom := int(math.Floor(ty)), int(math.Ceil(by))
	if right <= left {
		right = left + 1
	}
	if bottom <= top {
		bottom = top + 1
	}
	r.screen.DrawRect(core.NewRect(left, top, right-left, bottom-top), ch, color)
	return true
}

func (r *ProjectionRenderer) drawObstacle(o ObstacleView) {
	p := o.Position
	switch o.Kind {
	case KindBox:
		ch := BoxFace
		// Alternate the face texture as the box rolls
		if int(math.Floor(o.Rotation.X/(math.Pi/4)))%2 != 0 {
			ch = BoxFaceRoll
		}
		r.fillBox(p.X-boxHalfWidth, p.X+boxHalfWidth, p.Y-boxHalfHeight, p.Y+boxHalfHeight, p.Z+boxHalfDepth, ch, core.ColorOrange)
	case KindBar:
		r.fillBox(p.X-barHalfLength, p.X+barHalfLength, p.Y-barRadius, p.Y+barRadius, p.Z, BarChar, core.ColorRed)
	}
}

func (r *ProjectionRenderer) drawPlayer(sc Scene) {
	t := sc.Player
	p := t.Position

	if sc.Jumping {
		sx, sy, _, ok := r.Project(core.V3(p.X, 0, p.Z))
		if ok {
			r.screen.DrawHLine(int(sx)-1, int(sy), 3, ShadowChar, core.ColorGray)
		}
	}

	hw := playerHalfWidth * t.Scale.X
	hh := playerHalfHeight * t.Scale.Y
	if !r.fillBox(p.X-hw, p.X+hw, p.Y-hh, p.Y+hh, p.Z, BodyChar, core.ColorBrightRed) {
		return
	}

	// Visor row leans with the run-cycle sway
	vx, vy, _, _ := r.Project(core.V3(p.X, p.Y+visorOffset*t.Scale.Y, p.Z))
	shift := int(math.Round(t.Rotation.Z * 10))
	r.screen.SetColor(int(vx)+shift, int(vy), VisorChar, core.ColorGray)
	r.screen.SetColor(int(vx)+shift-1, int(vy), VisorChar, core.ColorGray)
}
