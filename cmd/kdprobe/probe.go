package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/kdframe/internal/assets"
	"github.com/Faultbox/kdframe/internal/config"
	"github.com/Faultbox/kdframe/internal/engine/animation"
	"github.com/Faultbox/kdframe/internal/engine/camera"
	"github.com/Faultbox/kdframe/internal/engine/collision"
	"github.com/Faultbox/kdframe/internal/engine/geom"
	"github.com/Faultbox/kdframe/internal/engine/model"
	"github.com/Faultbox/kdframe/internal/logger"
	"github.com/Faultbox/kdframe/pkg/math"
)

var (
	errBadVector = errors.New("expected x,y,z")
	errBadQuery  = errors.New("malformed query")
	errNoClip    = errors.New("clip not found")
)

// request is one probe run parsed from the command line.
type request struct {
	scene  string
	clip   string
	frames int
	types  collision.Type
	ray    *collision.RayInfo
	sphere *collision.SphereInfo
	orbit  *camera.Orbit
}

func parseRequest(scene, clip string, frames int, ray, sphere, orbit, types string) (request, error) {
	req := request{scene: scene, clip: clip, frames: frames}

	t, err := collision.ParseType(strings.Split(types, ",")...)
	if err != nil {
		return req, err
	}
	if t == collision.TypeNone {
		t = collision.TypeGround
	}
	req.types = t

	if ray != "" {
		r, err := parseRay(t, ray)
		if err != nil {
			return req, fmt.Errorf("-ray %q: %w", ray, err)
		}
		req.ray = &r
	}
	if sphere != "" {
		s, err := parseSphere(t, sphere)
		if err != nil {
			return req, fmt.Errorf("-sphere %q: %w", sphere, err)
		}
		req.sphere = &s
	}
	if orbit != "" {
		c, err := parseOrbit(orbit)
		if err != nil {
			return req, fmt.Errorf("-orbit %q: %w", orbit, err)
		}
		req.orbit = c
	}
	return req, nil
}

// parseOrbit reads yaw,pitch,distance for a camera circling the scene.
// A zero distance backs off until the whole scene is in view.
func parseOrbit(s string) (*camera.Orbit, error) {
	v, err := parseVec3(s)
	if err != nil {
		return nil, err
	}
	if v.Z < 0 {
		return nil, fmt.Errorf("distance %v: %w", v.Z, errBadQuery)
	}
	c := camera.NewOrbit()
	c.Yaw = v.X
	c.Pitch = v.Y
	c.Distance = v.Z
	return c, nil
}

func parseVec3(s string) (math.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math.Vec3{}, errBadVector
	}
	var v [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("%q: %w", p, errBadVector)
		}
		v[i] = float32(f)
	}
	return math.Vec3FromArray(v), nil
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, errBadQuery)
	}
	return float32(f), nil
}

func parseRay(t collision.Type, s string) (collision.RayInfo, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return collision.RayInfo{}, errBadQuery
	}
	origin, err := parseVec3(parts[0])
	if err != nil {
		return collision.RayInfo{}, err
	}
	dir, err := parseVec3(parts[1])
	if err != nil {
		return collision.RayInfo{}, err
	}
	rng, err := parseFloat(parts[2])
	if err != nil {
		return collision.RayInfo{}, err
	}
	r := collision.NewRayInfo(t, origin, dir, rng)
	if err := collision.ValidateRay(r); err != nil {
		return collision.RayInfo{}, err
	}
	return r, nil
}

func parseSphere(t collision.Type, s string) (collision.SphereInfo, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return collision.SphereInfo{}, errBadQuery
	}
	center, err := parseVec3(parts[0])
	if err != nil {
		return collision.SphereInfo{}, err
	}
	r, err := parseFloat(parts[1])
	if err != nil {
		return collision.SphereInfo{}, err
	}
	return collision.NewSphereInfo(t, center, r), nil
}

// run poses the scene and prints node positions and query hits to out.
func run(cfg *config.Config, req request, store *assets.Store, out io.Writer) error {
	data, err := store.Acquire(req.scene)
	if err != nil {
		return err
	}
	defer store.Release(req.scene)

	work := model.NewWork(data)

	clipName := req.clip
	if clipName == "" {
		clipName = cfg.Animation.Clip
	}
	if clipName != "" {
		clip := data.Animation(clipName)
		if clip == nil {
			return fmt.Errorf("%q: %w", clipName, errNoClip)
		}
		anim := animation.NewAnimator(logger.Named("animation"))
		anim.SetAnimation(clip, cfg.Animation.Loop)
		for i := 0; i < req.frames; i++ {
			anim.AdvanceTime(work, cfg.Animation.Speed)
		}
		fmt.Fprintf(out, "clip %s time %.2f/%.2f (%.0f%%)\n", clip.Name, anim.Time(), clip.MaxLength, anim.Progress()*100)
	}

	for _, n := range work.Nodes() {
		fmt.Fprintf(out, "node %-20s %v\n", n.Name, n.World.Translation())
	}

	disabled, err := collision.ParseType(cfg.Collision.DisabledTypes...)
	if err != nil {
		return err
	}
	col := collision.New(
		collision.WithLogger(logger.Named("collision")),
		collision.WithMaxResults(cfg.Collision.MaxResults),
		collision.WithDisabledTypes(disabled),
	)
	col.RegisterModelWork(data.Name, work, collision.TypeAll)

	if req.ray != nil {
		var results []collision.Result
		col.IntersectRay(*req.ray, math.Identity(), &results)
		printResults(out, "ray", results)
	}
	if req.sphere != nil {
		var results []collision.Result
		col.IntersectSphere(*req.sphere, math.Identity(), &results)
		printResults(out, "sphere", results)
	}
	if req.orbit != nil {
		cam := *req.orbit
		bounds, ok := sceneBounds(work)
		if cam.Distance == 0 {
			cam.Fit(bounds)
		} else if ok {
			cam.Target = bounds.Center
		}
		// Looks through the scene centre and as far again beyond it.
		sight := collision.RayInfo{Type: req.types, Ray: cam.Ray(cam.Distance * 2)}
		var results []collision.Result
		col.IntersectRay(sight, math.Identity(), &results)
		printResults(out, "orbit", results)
	}
	return nil
}

// sceneBounds encloses every collision mesh in its current pose.
func sceneBounds(work *model.Work) (geom.AABB, bool) {
	data := work.Data()
	if data == nil {
		return geom.AABB{}, false
	}
	var lo, hi math.Vec3
	found := false
	for _, i := range data.CollisionNodes {
		m := data.Nodes[i].Mesh
		if m == nil {
			continue
		}
		box := m.AABB().Transform(work.World(i))
		if !found {
			lo, hi = box.Min(), box.Max()
			found = true
			continue
		}
		lo, hi = lo.Min(box.Min()), hi.Max(box.Max())
	}
	if !found {
		return geom.AABB{}, false
	}
	return geom.NewAABB(lo, hi), true
}

func printResults(out io.Writer, query string, results []collision.Result) {
	if len(results) == 0 {
		fmt.Fprintf(out, "%s: no hit\n", query)
		return
	}
	for i, r := range results {
		fmt.Fprintf(out, "%s hit %d: pos %v dir %v overlap %.3f\n", query, i, r.HitPos, r.HitDir, r.Overlap)
	}
}
