package scene

import "github.com/df07/go-pathtracer/pkg/core"

// Background gives the radiance carried by rays that leave the scene
type Background interface {
	Color(ray core.Ray) core.Vec3
}

// Constant is a uniform background color
type Constant struct {
	Value core.Vec3
}

// Color returns the constant
func (c Constant) Color(ray core.Ray) core.Vec3 {
	return c.Value
}

// Gradient blends from Bottom to Top with the ray's vertical direction
type Gradient struct {
	Bottom core.Vec3
	Top    core.Vec3
}

// SkyGradient is the white to light blue sky
var SkyGradient = Gradient{
	Bottom: core.NewVec3(1.0, 1.0, 1.0),
	Top:    core.NewVec3(0.5, 0.7, 1.0),
}

// Color blends with t = 0.5·(dir.y + 1) on the normalized direction
func (g Gradient) Color(ray core.Ray) core.Vec3 {
	unit := ray.Direction.Normalize()
	t := 0.5 * (unit.Y + 1.0)
	return g.Bottom.Lerp(g.Top, t)
}
