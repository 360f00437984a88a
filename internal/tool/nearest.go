package tool

import (
	"crabe/internal/model"
	"crabe/internal/spatial"
)

// NearestQuery answers ad-hoc "what is near this point" debug requests
// from tool viewers (the /debug/nearest HTTP handler). Unlike Decision's
// R★ avoidance search, which rescans its small, bounded obstacle set
// directly, this endpoint is driven by arbitrary operator-chosen points at
// an unpredictable rate, so it is built on spatial.ObstacleGrid's
// broad-phase index rather than a linear scan repeated per request.
type NearestQuery struct {
	grid *spatial.ObstacleGrid
	ids  []uint32
	kind []byte // 'a' = ally, 'e' = enemy, 'b' = ball
	raw  []uint8
}

const (
	entityAlly = byte('a')
	entityEnemy = byte('e')
	entityBall  = byte('b')
)

// BuildNearestQuery indexes every tracked entity in world into a fresh
// grid sized to the field, ready for repeated QueryRadius calls against
// this tick's snapshot.
func BuildNearestQuery(world *model.World) *NearestQuery {
	halfW := world.Geometry.FieldLength/2 + 1
	halfH := world.Geometry.FieldWidth/2 + 1
	if halfW <= 0 {
		halfW = 5
	}
	if halfH <= 0 {
		halfH = 4
	}
	q := &NearestQuery{grid: spatial.NewObstacleGrid(halfW, halfH, 0.5)}

	var next uint32
	for id, r := range world.AlliesBot {
		q.grid.Insert(next, r.Pose.Position.X, r.Pose.Position.Y)
		q.ids = append(q.ids, next)
		q.kind = append(q.kind, entityAlly)
		q.raw = append(q.raw, id)
		next++
	}
	for id, r := range world.EnemiesBot {
		q.grid.Insert(next, r.Pose.Position.X, r.Pose.Position.Y)
		q.ids = append(q.ids, next)
		q.kind = append(q.kind, entityEnemy)
		q.raw = append(q.raw, id)
		next++
	}
	if world.Ball != nil {
		pos := world.Ball.Position2D()
		q.grid.Insert(next, pos.X, pos.Y)
		q.ids = append(q.ids, next)
		q.kind = append(q.kind, entityBall)
		q.raw = append(q.raw, 0)
		next++
	}
	return q
}

// NearestEntity is one candidate returned by QueryRadius.
type NearestEntity struct {
	Kind string `json:"kind"`
	ID   uint8  `json:"id,omitempty"`
}

// QueryRadius returns every tracked entity within approximately radius of
// (x, y). Results may include extra ids near a cell boundary, matching
// ObstacleGrid's documented over-approximation; exact filtering is left to
// the caller since debug callers typically want the broader set anyway.
func (q *NearestQuery) QueryRadius(x, y, radius float64) []NearestEntity {
	candidates := q.grid.QueryRadius(x, y, radius)
	out := make([]NearestEntity, 0, len(candidates))
	for _, c := range candidates {
		idx := -1
		for i, id := range q.ids {
			if id == c {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		switch q.kind[idx] {
		case entityAlly:
			out = append(out, NearestEntity{Kind: "ally", ID: q.raw[idx]})
		case entityEnemy:
			out = append(out, NearestEntity{Kind: "enemy", ID: q.raw[idx]})
		case entityBall:
			out = append(out, NearestEntity{Kind: "ball"})
		}
	}
	return out
}
