package synth

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// hit is a ray intersection in view space.
type hit struct {
	t      float32
	normal mgl32.Vec3
	albedo mgl32.Vec3
}

// shape is an analytic surface a ray can hit. Normals face the ray origin.
type shape interface {
	intersect(origin, dir mgl32.Vec3) (hit, bool)
}

// plane is the set of points p with dot(normal, p) == offset, optionally restricted to a
// range of x.
type plane struct {
	normal     mgl32.Vec3
	offset     float32
	minX, maxX float32
	albedo     mgl32.Vec3
	boundedInX bool
}

func (p plane) intersect(origin, dir mgl32.Vec3) (hit, bool) {
	denom := p.normal.Dot(dir)
	if math.Abs(float64(denom)) < 1e-6 {
		return hit{}, false
	}
	t := (p.offset - p.normal.Dot(origin)) / denom
	if t <= 0 {
		return hit{}, false
	}
	if p.boundedInX {
		x := origin[0] + t*dir[0]
		if x < p.minX || x > p.maxX {
			return hit{}, false
		}
	}
	n := p.normal
	if denom > 0 {
		n = n.Mul(-1)
	}
	return hit{t: t, normal: n, albedo: p.albedo}, true
}

type sphere struct {
	center mgl32.Vec3
	radius float32
	albedo mgl32.Vec3
}

func (s sphere) intersect(origin, dir mgl32.Vec3) (hit, bool) {
	oc := origin.Sub(s.center)
	a := dir.Dot(dir)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - s.radius*s.radius
	disc := b*b - a*c
	if disc < 0 {
		return hit{}, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t := (-b - sq) / a
	if t <= 0 {
		t = (-b + sq) / a
	}
	if t <= 0 {
		return hit{}, false
	}
	n := origin.Add(dir.Mul(t)).Sub(s.center).Normalize()
	return hit{t: t, normal: n, albedo: s.albedo}, true
}

// box is an axis aligned box.
type box struct {
	min, max mgl32.Vec3
	albedo   mgl32.Vec3
}

func (b box) intersect(origin, dir mgl32.Vec3) (hit, bool) {
	tNear := float32(math.Inf(-1))
	tFar := float32(math.Inf(1))
	axis := -1
	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < b.min[i] || origin[i] > b.max[i] {
				return hit{}, false
			}
			continue
		}
		t0 := (b.min[i] - origin[i]) / dir[i]
		t1 := (b.max[i] - origin[i]) / dir[i]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear, axis = t0, i
		}
		tFar = min(tFar, t1)
		if tNear > tFar {
			return hit{}, false
		}
	}
	if axis < 0 || tNear <= 0 {
		return hit{}, false
	}
	var n mgl32.Vec3
	if dir[axis] > 0 {
		n[axis] = -1
	} else {
		n[axis] = 1
	}
	return hit{t: tNear, normal: n, albedo: b.albedo}, true
}
