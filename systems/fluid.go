package systems

import (
	"math"
	"math/rand"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/magma/components"
	"github.com/pthm-cable/magma/config"
	"github.com/pthm-cable/magma/visual"
)

// BlobSnapshot is the read-only view of one blob handed to consumers.
type BlobSnapshot struct {
	ID      uint32
	X, Y    float64
	Radius  float64
	R, G, B float64
}

// TickStats counts topology events during one Step.
type TickStats struct {
	Merges       int
	Splits       int
	ForcedMerges int
	ForcedSplits int
}

// blobRec is the working copy of one blob during a Step. All physics and
// topology decisions happen on these local records; the ECS is only touched
// in the final apply pass, so a tick is all-or-nothing with respect to the
// live world.
type blobRec struct {
	entity ecs.Entity
	id     uint32
	pos    components.Position
	vel    components.Velocity
	body   components.Body
	tint   components.Tint
	cd     components.Cooldown
	isNew  bool
	dead   bool
}

// FluidSystem owns the blob population. Each Step integrates motion under
// the mapper's forcing, then resolves merges and splits against the target
// count with hysteresis cooldowns, and finally forces the live count back
// into [count_min, count_max] if it still lies outside.
type FluidSystem struct {
	world *ecs.World
	blobs *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Body,
		components.Tint,
		components.Cooldown,
		components.Blob,
	]
	filter *ecs.Filter6[
		components.Position,
		components.Velocity,
		components.Body,
		components.Tint,
		components.Cooldown,
		components.Blob,
	]
	posMap  *ecs.Map1[components.Position]
	velMap  *ecs.Map1[components.Velocity]
	bodyMap *ecs.Map1[components.Body]
	tintMap *ecs.Map1[components.Tint]
	cdMap   *ecs.Map1[components.Cooldown]

	cfg  config.FluidConfig
	turb *TurbulenceField
	rng  *rand.Rand

	// work is the per-tick record set; valid only between gather and apply.
	work []blobRec

	nextID uint32
	timeS  float64
}

// NewFluidSystem creates an empty simulation. Blobs are seeded lazily on the
// first Step so the initial population matches the first tick's target.
func NewFluidSystem(cfg config.FluidConfig) *FluidSystem {
	world := ecs.NewWorld()
	return &FluidSystem{
		world: world,
		blobs: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Body,
			components.Tint,
			components.Cooldown,
			components.Blob,
		](world),
		filter: ecs.NewFilter6[
			components.Position,
			components.Velocity,
			components.Body,
			components.Tint,
			components.Cooldown,
			components.Blob,
		](world),
		posMap:  ecs.NewMap1[components.Position](world),
		velMap:  ecs.NewMap1[components.Velocity](world),
		bodyMap: ecs.NewMap1[components.Body](world),
		tintMap: ecs.NewMap1[components.Tint](world),
		cdMap:   ecs.NewMap1[components.Cooldown](world),
		cfg:     cfg,
		turb:    NewTurbulenceField(cfg.NoiseSeed, cfg.NoiseScale, cfg.NoiseTimeScale),
		rng:     rand.New(rand.NewSource(cfg.NoiseSeed)),
	}
}

// Step advances the simulation by dt seconds under the given forcing.
func (s *FluidSystem) Step(params visual.Params, dt float64) TickStats {
	s.timeS += dt

	if s.Count() == 0 {
		s.seed(params)
	}

	s.gather()
	s.integrate(params, dt)

	// The mapper already clamps its target; clamp again so a hand-built
	// Params value cannot drive the population out of bounds.
	target := params.BlobCountTarget
	if target < s.cfg.CountMin {
		target = s.cfg.CountMin
	}
	if target > s.cfg.CountMax {
		target = s.cfg.CountMax
	}

	var stats TickStats
	stats.Merges = s.mergePass()
	for s.aliveCount() < target {
		if !s.splitLargest(false) {
			break
		}
		stats.Splits++
	}

	// Forced enforcement bypasses cooldowns; config validation guarantees
	// count_min <= count_max so this always terminates.
	for s.aliveCount() > s.cfg.CountMax {
		if !s.forceMergeClosest() {
			break
		}
		stats.ForcedMerges++
	}
	for s.aliveCount() < s.cfg.CountMin {
		if !s.splitLargest(true) {
			break
		}
		stats.ForcedSplits++
	}

	s.apply()
	return stats
}

// seed populates the world for the very first tick.
func (s *FluidSystem) seed(params visual.Params) {
	n := params.BlobCountTarget
	if n < s.cfg.CountMin {
		n = s.cfg.CountMin
	}
	if n > s.cfg.CountMax {
		n = s.cfg.CountMax
	}
	for i := 0; i < n; i++ {
		pos := components.Position{
			X: s.rng.Float64() * s.cfg.Width,
			Y: s.rng.Float64() * s.cfg.Height,
		}
		vel := components.Velocity{
			X: (s.rng.Float64() - 0.5) * 0.1,
			Y: (s.rng.Float64() - 0.5) * 0.1,
		}
		body := components.Body{Radius: params.Size * (0.85 + 0.3*s.rng.Float64())}
		tint := components.Tint{R: params.Primary.R, G: params.Primary.G, B: params.Primary.B}
		cd := components.Cooldown{}
		blob := components.Blob{ID: s.nextID}
		s.nextID++
		s.blobs.NewEntity(&pos, &vel, &body, &tint, &cd, &blob)
	}
}

// gather copies the live population into working records, ordered by id.
func (s *FluidSystem) gather() {
	s.work = s.work[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, vel, body, tint, cd, blob := query.Get()
		s.work = append(s.work, blobRec{
			entity: query.Entity(),
			id:     blob.ID,
			pos:    *pos,
			vel:    *vel,
			body:   *body,
			tint:   *tint,
			cd:     *cd,
		})
	}
	sort.Slice(s.work, func(i, j int) bool { return s.work[i].id < s.work[j].id })
}

// integrate applies forcing and moves every blob (semi-implicit Euler).
func (s *FluidSystem) integrate(params visual.Params, dt float64) {
	// Damping factor clamped at zero so viscosity can never invert velocity.
	damping := 1 - params.Viscosity*dt
	if damping < 0 {
		damping = 0
	}

	for i := range s.work {
		r := &s.work[i]

		cx, cy := s.turb.Curl(r.pos.X, r.pos.Y, s.timeS)
		ax := cx*params.Turbulence + params.GravityX
		ay := cy*params.Turbulence + params.Buoyancy

		r.vel.X = (r.vel.X + ax*dt) * damping
		r.vel.Y = (r.vel.Y + ay*dt) * damping

		r.pos.X = wrap(r.pos.X+r.vel.X*dt, s.cfg.Width)
		r.pos.Y = clamp(r.pos.Y+r.vel.Y*dt, 0, s.cfg.Height)

		if r.cd.Merge > 0 {
			r.cd.Merge = math.Max(0, r.cd.Merge-dt)
		}
		if r.cd.Split > 0 {
			r.cd.Split = math.Max(0, r.cd.Split-dt)
		}
	}
}

// mergePass merges every eligible overlapping pair. The lower-id blob
// survives and absorbs the other's mass. Zero-distance pairs are immediate
// candidates; nothing here divides by the pair distance.
func (s *FluidSystem) mergePass() int {
	merged := 0
	for i := 0; i < len(s.work); i++ {
		if s.work[i].dead {
			continue
		}
		for j := i + 1; j < len(s.work); j++ {
			if s.work[j].dead {
				continue
			}
			if s.work[i].cd.Merge > 0 || s.work[j].cd.Merge > 0 {
				continue
			}
			a, b := &s.work[i], &s.work[j]
			dx := a.pos.X - b.pos.X
			dy := a.pos.Y - b.pos.Y
			threshold := s.cfg.MergeFactor * (a.body.Radius + b.body.Radius)
			if dx*dx+dy*dy >= threshold*threshold {
				continue
			}
			s.mergeInto(a, b)
			merged++
		}
	}
	return merged
}

// mergeInto folds b into a, mass-weighted, and marks b dead.
func (s *FluidSystem) mergeInto(a, b *blobRec) {
	ma, mb := a.body.Mass(), b.body.Mass()
	total := ma + mb

	a.pos.X = (a.pos.X*ma + b.pos.X*mb) / total
	a.pos.Y = (a.pos.Y*ma + b.pos.Y*mb) / total
	a.vel.X = (a.vel.X*ma + b.vel.X*mb) / total
	a.vel.Y = (a.vel.Y*ma + b.vel.Y*mb) / total
	a.tint.R = (a.tint.R*ma + b.tint.R*mb) / total
	a.tint.G = (a.tint.G*ma + b.tint.G*mb) / total
	a.tint.B = (a.tint.B*ma + b.tint.B*mb) / total
	a.body.Radius = math.Sqrt(total)

	// Hysteresis: the merged blob may neither re-merge nor split until the
	// window elapses, which is what stops merge/split oscillation.
	a.cd.Merge = s.cfg.MergeCooldown
	a.cd.Split = s.cfg.MergeCooldown

	b.dead = true
}

// splitLargest splits the largest eligible blob (tie: lowest id) into two
// half-mass children with opposed velocities. forced ignores the split
// cooldown; only the count-enforcement path sets it.
func (s *FluidSystem) splitLargest(forced bool) bool {
	best := -1
	for i := range s.work {
		r := &s.work[i]
		if r.dead {
			continue
		}
		if !forced && r.cd.Split > 0 {
			continue
		}
		if best < 0 || r.body.Radius > s.work[best].body.Radius {
			best = i
		}
	}
	if best < 0 {
		return false
	}

	parent := &s.work[best]
	childRadius := parent.body.Radius / math.Sqrt2

	// Deterministic split axis: along the parent's motion, x-axis fallback.
	dx, dy := parent.vel.X, parent.vel.Y
	if n := math.Hypot(dx, dy); n > 1e-9 {
		dx, dy = dx/n, dy/n
	} else {
		dx, dy = 1, 0
	}

	child := blobRec{
		id:    s.nextID,
		isNew: true,
		pos: components.Position{
			X: wrap(parent.pos.X+dx*s.cfg.SplitOffset, s.cfg.Width),
			Y: clamp(parent.pos.Y+dy*s.cfg.SplitOffset, 0, s.cfg.Height),
		},
		vel: components.Velocity{
			X: parent.vel.X + dx*s.cfg.SplitKick,
			Y: parent.vel.Y + dy*s.cfg.SplitKick,
		},
		body: components.Body{Radius: childRadius},
		tint: parent.tint,
		cd:   components.Cooldown{Merge: s.cfg.SplitCooldown, Split: s.cfg.SplitCooldown},
	}
	s.nextID++

	parent.body.Radius = childRadius
	parent.pos.X = wrap(parent.pos.X-dx*s.cfg.SplitOffset, s.cfg.Width)
	parent.pos.Y = clamp(parent.pos.Y-dy*s.cfg.SplitOffset, 0, s.cfg.Height)
	parent.vel.X -= dx * s.cfg.SplitKick
	parent.vel.Y -= dy * s.cfg.SplitKick
	parent.cd = components.Cooldown{Merge: s.cfg.SplitCooldown, Split: s.cfg.SplitCooldown}

	s.work = append(s.work, child)
	return true
}

// forceMergeClosest merges the closest live pair regardless of cooldowns.
func (s *FluidSystem) forceMergeClosest() bool {
	bestI, bestJ := -1, -1
	bestD := math.Inf(1)
	for i := 0; i < len(s.work); i++ {
		if s.work[i].dead {
			continue
		}
		for j := i + 1; j < len(s.work); j++ {
			if s.work[j].dead {
				continue
			}
			dx := s.work[i].pos.X - s.work[j].pos.X
			dy := s.work[i].pos.Y - s.work[j].pos.Y
			if d := dx*dx + dy*dy; d < bestD {
				bestD = d
				bestI, bestJ = i, j
			}
		}
	}
	if bestI < 0 {
		return false
	}
	s.mergeInto(&s.work[bestI], &s.work[bestJ])
	return true
}

// apply commits the working records to the ECS: removals first, then field
// updates, then creations.
func (s *FluidSystem) apply() {
	for i := range s.work {
		r := &s.work[i]
		if r.dead && !r.isNew {
			s.blobs.Remove(r.entity)
		}
	}
	for i := range s.work {
		r := &s.work[i]
		if r.dead || r.isNew {
			continue
		}
		*s.posMap.Get(r.entity) = r.pos
		*s.velMap.Get(r.entity) = r.vel
		*s.bodyMap.Get(r.entity) = r.body
		*s.tintMap.Get(r.entity) = r.tint
		*s.cdMap.Get(r.entity) = r.cd
	}
	for i := range s.work {
		r := &s.work[i]
		if !r.isNew || r.dead {
			continue
		}
		pos, vel, body, tint, cd := r.pos, r.vel, r.body, r.tint, r.cd
		blob := components.Blob{ID: r.id}
		s.blobs.NewEntity(&pos, &vel, &body, &tint, &cd, &blob)
	}
	s.work = s.work[:0]
}

func (s *FluidSystem) aliveCount() int {
	n := 0
	for i := range s.work {
		if !s.work[i].dead {
			n++
		}
	}
	return n
}

// Snapshots returns an immutable, id-ordered copy of the live population.
// Consumers may hold it across ticks; it never aliases simulation state.
func (s *FluidSystem) Snapshots() []BlobSnapshot {
	var out []BlobSnapshot
	query := s.filter.Query()
	for query.Next() {
		pos, _, body, tint, _, blob := query.Get()
		out = append(out, BlobSnapshot{
			ID:     blob.ID,
			X:      pos.X,
			Y:      pos.Y,
			Radius: body.Radius,
			R:      tint.R,
			G:      tint.G,
			B:      tint.B,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the live blob count.
func (s *FluidSystem) Count() int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// TotalMass returns the summed radius-squared mass proxy.
func (s *FluidSystem) TotalMass() float64 {
	var total float64
	query := s.filter.Query()
	for query.Next() {
		_, _, body, _, _, _ := query.Get()
		total += body.Mass()
	}
	return total
}

// Time returns accumulated simulation time in seconds.
func (s *FluidSystem) Time() float64 {
	return s.timeS
}

func wrap(x, width float64) float64 {
	return math.Mod(math.Mod(x, width)+width, width)
}
