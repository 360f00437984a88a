package spatial

import "math"

// ObstacleGrid is a broad-phase spatial index over obstacle circles (ally
// robots, enemy robots, the ball) used by the Tool Server's /debug/nearest
// query (internal/tool's NearestQuery). Field coordinates are signed
// (origin at field center), so the grid stores an offset to map them into
// non-negative cell indices.
//
// Built fresh from the current World for each query request; cheap because
// the field holds at most ~2*16 robots plus the ball.
type ObstacleGrid struct {
	cellSize    float64
	invCellSize float64
	cols, rows  int
	offsetX     float64
	offsetY     float64
	cells       [][]uint32
	scratch     []uint32
}

// NewObstacleGrid builds a grid covering [-halfWidth, halfWidth] x
// [-halfHeight, halfHeight] with the given cell size (meters).
func NewObstacleGrid(halfWidth, halfHeight, cellSize float64) *ObstacleGrid {
	cols := int(math.Ceil(2 * halfWidth / cellSize))
	rows := int(math.Ceil(2 * halfHeight / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	cells := make([][]uint32, cols*rows)
	for i := range cells {
		cells[i] = make([]uint32, 0, 4)
	}
	return &ObstacleGrid{
		cellSize:    cellSize,
		invCellSize: 1 / cellSize,
		cols:        cols,
		rows:        rows,
		offsetX:     halfWidth,
		offsetY:     halfHeight,
		cells:       cells,
		scratch:     make([]uint32, 0, 32),
	}
}

func (g *ObstacleGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *ObstacleGrid) cellIndex(x, y float64) int {
	col := int((x + g.offsetX) * g.invCellSize)
	row := int((y + g.offsetY) * g.invCellSize)
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return row*g.cols + col
}

// Insert registers obstacle id at position (x, y). id is opaque to the
// grid; the caller maps it back to a Circle.
func (g *ObstacleGrid) Insert(id uint32, x, y float64) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], id)
}

// QueryRadius returns candidate obstacle ids within approximately radius of
// (cx, cy). The result may include extra ids near the cell boundary; the
// caller performs the exact circle/segment distance check. The returned
// slice is reused across calls.
func (g *ObstacleGrid) QueryRadius(cx, cy, radius float64) []uint32 {
	g.scratch = g.scratch[:0]
	minCol := int((cx - radius + g.offsetX) * g.invCellSize)
	maxCol := int((cx + radius + g.offsetX) * g.invCellSize)
	minRow := int((cy - radius + g.offsetY) * g.invCellSize)
	maxRow := int((cy + radius + g.offsetY) * g.invCellSize)
	if minCol < 0 {
		minCol = 0
	}
	if maxCol >= g.cols {
		maxCol = g.cols - 1
	}
	if minRow < 0 {
		minRow = 0
	}
	if maxRow >= g.rows {
		maxRow = g.rows - 1
	}
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			g.scratch = append(g.scratch, g.cells[row*g.cols+col]...)
		}
	}
	return g.scratch
}
