// Package fov computes field of view on a tile grid using recursive shadowcasting.
package fov

// Point is a tile coordinate.
type Point struct {
	X, Y int
}

// Grid answers whether a tile blocks line of sight.
// Implementations should treat positions off the grid as opaque.
type Grid interface {
	IsOpaqueAt(x, y int) bool
}

// Octant transforms mapping the scan's (column, row) onto the grid.
var octants = [8][4]int{
	{1, 0, 0, 1},
	{0, 1, 1, 0},
	{0, -1, 1, 0},
	{-1, 0, 0, 1},
	{-1, 0, 0, -1},
	{0, -1, -1, 0},
	{0, 1, -1, 0},
	{1, 0, 0, -1},
}

// Compute returns every tile within radius of origin (Euclidean distance)
// that has a clear line of sight from it. The origin is always included,
// and opaque tiles that stop a line of sight are included too.
//
// Off-grid coordinates can appear in the result when the Grid reports them
// opaque; callers filter to their own bounds. The result is deterministic
// and ordered row by row, then by column.
func Compute(origin Point, radius int, g Grid) []Point {
	if radius < 0 {
		return nil
	}

	s := &scan{
		origin: origin,
		radius: radius,
		grid:   g,
		side:   2*radius + 1,
	}
	s.seen = make([]bool, s.side*s.side)
	s.mark(0, 0)

	for _, o := range octants {
		s.cast(1, 1.0, 0.0, o[0], o[1], o[2], o[3])
	}

	points := make([]Point, 0, s.count)
	for i, ok := range s.seen {
		if ok {
			points = append(points, Point{
				X: origin.X + i%s.side - radius,
				Y: origin.Y + i/s.side - radius,
			})
		}
	}
	return points
}

type scan struct {
	origin Point
	radius int
	grid   Grid
	side   int
	seen   []bool // (2r+1)^2 window centred on origin
	count  int
}

func (s *scan) mark(dx, dy int) {
	i := (dy+s.radius)*s.side + dx + s.radius
	if !s.seen[i] {
		s.seen[i] = true
		s.count++
	}
}

// cast lights one octant from row outwards between the start and end slopes,
// recursing past each run of opaque tiles.
func (s *scan) cast(row int, start, end float64, xx, xy, yx, yy int) {
	if start < end {
		return
	}

	r2 := s.radius * s.radius
	newStart := 0.0

	for j := row; j <= s.radius; j++ {
		dy := -j
		blocked := false

		for dx := -j; dx <= 0; dx++ {
			leftSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rightSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rightSlope {
				continue
			}
			if end > leftSlope {
				break
			}

			mx, my := dx*xx+dy*xy, dx*yx+dy*yy
			if dx*dx+dy*dy <= r2 {
				s.mark(mx, my)
			}

			opaque := s.grid.IsOpaqueAt(s.origin.X+mx, s.origin.Y+my)
			switch {
			case blocked && opaque:
				newStart = rightSlope
			case blocked:
				blocked = false
				start = newStart
			case opaque && j < s.radius:
				blocked = true
				s.cast(j+1, start, leftSlope, xx, xy, yx, yy)
				newStart = rightSlope
			}
		}

		if blocked {
			break
		}
	}
}
