// pkg/render/raster.go
package render

import "math"

// Line calls plot for every cell on the Bresenham line from (x0, y0) to
// (x1, y1), both ends included.
func Line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Ellipse outlines an axis-aligned ellipse with radii rx, ry (in cells).
// Terminal cells are not square, so world circles arrive here stretched.
func Ellipse(cx, cy int, rx, ry float64, plot func(x, y int)) {
	if rx < 0.5 && ry < 0.5 {
		plot(cx, cy)
		return
	}

	segments := int(math.Ceil(2 * math.Pi * math.Max(rx, ry)))
	if segments < 8 {
		segments = 8
	}

	px, py := cx+int(math.Round(rx)), cy
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		x := cx + int(math.Round(rx*math.Cos(a)))
		y := cy + int(math.Round(ry*math.Sin(a)))
		Line(px, py, x, y, plot)
		px, py = x, y
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
