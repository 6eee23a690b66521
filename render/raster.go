package render

import (
	"image"
	"math"
	"sort"

	"github.com/gogpu/drawstream"
)

// point is a position in device pixels.
type point struct {
	X, Y float64
}

// flatTolerance is the maximum deviation, in device pixels, allowed when
// flattening bezier curves to line segments.
const flatTolerance = 0.25

// flattenBezier appends line segment endpoints approximating the cubic
// bezier p0-p1-p2-p3 (excluding p0, including p3). Subdivision is by
// recursive midpoint splitting until the control points are within
// tolerance of the chord, so the output is deterministic for equal input.
func flattenBezier(dst []point, p0, p1, p2, p3 point) []point {
	if bezierFlat(p0, p1, p2, p3) {
		return append(dst, p3)
	}
	// de Casteljau split at t=0.5
	ab := midpoint(p0, p1)
	bc := midpoint(p1, p2)
	cd := midpoint(p2, p3)
	abc := midpoint(ab, bc)
	bcd := midpoint(bc, cd)
	mid := midpoint(abc, bcd)
	dst = flattenBezier(dst, p0, ab, abc, mid)
	return flattenBezier(dst, mid, bcd, cd, p3)
}

func midpoint(a, b point) point {
	return point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// bezierFlat reports whether both control points are within flatTolerance
// of the chord p0-p3.
func bezierFlat(p0, p1, p2, p3 point) bool {
	d := flatTolerance
	return distToSegment(p1, p0, p3) <= d && distToSegment(p2, p0, p3) <= d
}

func distToSegment(p, a, b point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

// crossing is an edge intersection with a scanline.
type crossing struct {
	x   float64
	dir int // +1 for a downward edge, -1 for upward
}

// rasterize scans the implicitly-closed subpaths and calls span for every
// horizontal pixel run inside the path under the given winding rule.
// Sampling is at pixel centers with no antialiasing, which keeps replay
// output byte-for-byte reproducible.
func rasterize(subpaths [][]point, rule drawstream.WindingRule, clipBounds image.Rectangle, span func(y, x0, x1 int)) {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, sp := range subpaths {
		for _, p := range sp {
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if minY > maxY {
		return
	}
	y0 := int(math.Floor(minY))
	y1 := int(math.Ceil(maxY))
	if y0 < clipBounds.Min.Y {
		y0 = clipBounds.Min.Y
	}
	if y1 > clipBounds.Max.Y {
		y1 = clipBounds.Max.Y
	}

	var crossings []crossing
	for y := y0; y < y1; y++ {
		yc := float64(y) + 0.5
		crossings = crossings[:0]
		for _, sp := range subpaths {
			if len(sp) < 2 {
				continue
			}
			for i := range sp {
				a := sp[i]
				b := sp[(i+1)%len(sp)] // closing edge included
				if a.Y == b.Y {
					continue
				}
				lo, hi := a.Y, b.Y
				dir := 1
				if lo > hi {
					lo, hi = hi, lo
					dir = -1
				}
				if yc < lo || yc >= hi {
					continue
				}
				x := a.X + (yc-a.Y)*(b.X-a.X)/(b.Y-a.Y)
				crossings = append(crossings, crossing{x: x, dir: dir})
			}
		}
		if len(crossings) == 0 {
			continue
		}
		sort.Slice(crossings, func(i, j int) bool { return crossings[i].x < crossings[j].x })

		switch rule {
		case drawstream.EvenOdd:
			for i := 0; i+1 < len(crossings); i += 2 {
				emitSpan(y, crossings[i].x, crossings[i+1].x, clipBounds, span)
			}
		default: // non-zero
			winding := 0
			start := 0.0
			for _, c := range crossings {
				if winding == 0 {
					start = c.x
				}
				winding += c.dir
				if winding == 0 {
					emitSpan(y, start, c.x, clipBounds, span)
				}
			}
		}
	}
}

// emitSpan converts a device-space horizontal interval to the pixels whose
// centers it covers.
func emitSpan(y int, xStart, xEnd float64, clipBounds image.Rectangle, span func(y, x0, x1 int)) {
	x0 := int(math.Ceil(xStart - 0.5))
	x1 := int(math.Ceil(xEnd - 0.5))
	if x0 < clipBounds.Min.X {
		x0 = clipBounds.Min.X
	}
	if x1 > clipBounds.Max.X {
		x1 = clipBounds.Max.X
	}
	if x0 < x1 {
		span(y, x0, x1)
	}
}

// fillPath fills the subpaths into img with a premultiplied color, masked
// by clip (nil means unclipped) and combined with the blend operator.
func fillPath(img *image.RGBA, subpaths [][]point, rule drawstream.WindingRule,
	sr, sg, sb, sa byte, clip *image.Alpha, blend blendFunc) {

	rasterize(subpaths, rule, img.Bounds(), func(y, x0, x1 int) {
		for x := x0; x < x1; x++ {
			if clip != nil && clip.AlphaAt(x, y).A < 128 {
				continue
			}
			o := img.PixOffset(x, y)
			p := img.Pix[o : o+4 : o+4]
			r, g, b, a := blend(sr, sg, sb, sa, p[0], p[1], p[2], p[3])
			p[0], p[1], p[2], p[3] = r, g, b, a
		}
	})
}

// fillMask fills the subpaths into an alpha mask with full coverage.
func fillMask(mask *image.Alpha, subpaths [][]point, rule drawstream.WindingRule) {
	rasterize(subpaths, rule, mask.Bounds(), func(y, x0, x1 int) {
		row := mask.Pix[mask.PixOffset(x0, y):mask.PixOffset(x1, y)]
		for i := range row {
			row[i] = 255
		}
	})
}

// strokeOutline converts open polylines to closed outline polygons for a
// stroke of the given width. Joins and caps are built from explicit
// geometry so filling the result with the non-zero rule draws the stroke.
func strokeOutline(lines [][]point, width float64, join drawstream.LineJoin, lineCap drawstream.LineCap) [][]point {
	half := width / 2
	if half <= 0 {
		return nil
	}
	var out [][]point
	for _, line := range lines {
		line = dropRepeats(line)
		if len(line) < 2 {
			if len(line) == 1 && lineCap == drawstream.CapRound {
				out = append(out, circlePolygon(line[0], half))
			}
			continue
		}
		closed := len(line) >= 4 && line[0] == line[len(line)-1]
		for i := 0; i+1 < len(line); i++ {
			out = append(out, segmentQuad(line[i], line[i+1], half, lineCap, !closed && i == 0, !closed && i+2 == len(line)))
		}
		for i := 1; i+1 < len(line); i++ {
			if jp := joinPolygon(line[i-1], line[i], line[i+1], half, join); jp != nil {
				out = append(out, jp)
			}
		}
		if closed {
			// The start vertex is a corner too: join the last segment
			// back onto the first.
			if jp := joinPolygon(line[len(line)-2], line[0], line[1], half, join); jp != nil {
				out = append(out, jp)
			}
		} else if lineCap == drawstream.CapRound {
			out = append(out, circlePolygon(line[0], half))
			out = append(out, circlePolygon(line[len(line)-1], half))
		}
	}
	return out
}

func dropRepeats(line []point) []point {
	if len(line) < 2 {
		return line
	}
	kept := line[:1]
	for _, p := range line[1:] {
		last := kept[len(kept)-1]
		if p != last {
			kept = append(kept, p)
		}
	}
	return kept
}

// segmentQuad returns the rectangle covering one stroked segment. Square
// caps extend the first and last segments by half the stroke width.
func segmentQuad(a, b point, half float64, lineCap drawstream.LineCap, first, last bool) []point {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	ux, uy := dx/length, dy/length
	if lineCap == drawstream.CapSquare {
		if first {
			a = point{a.X - ux*half, a.Y - uy*half}
		}
		if last {
			b = point{b.X + ux*half, b.Y + uy*half}
		}
	}
	nx, ny := -uy*half, ux*half
	return []point{
		{a.X + nx, a.Y + ny},
		{b.X + nx, b.Y + ny},
		{b.X - nx, b.Y - ny},
		{a.X - nx, a.Y - ny},
	}
}

// joinPolygon fills the wedge on the outside of the corner at b.
func joinPolygon(a, b, c point, half float64, join drawstream.LineJoin) []point {
	if join == drawstream.JoinRound {
		return circlePolygon(b, half)
	}
	n1x, n1y := segmentNormal(a, b, half)
	n2x, n2y := segmentNormal(b, c, half)
	cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
	if cross == 0 {
		return nil
	}
	if cross > 0 {
		// The gap between the segment quads sits on the outside of the
		// turn; a positive cross puts it on the -normal side.
		n1x, n1y = -n1x, -n1y
		n2x, n2y = -n2x, -n2y
	}
	p1 := point{b.X + n1x, b.Y + n1y}
	p2 := point{b.X + n2x, b.Y + n2y}
	if cross > 0 {
		// Mirroring flips the winding; swap the order so the wedge stays
		// clockwise like the segment quads and overlaps accumulate.
		p1, p2 = p2, p1
	}
	if join == drawstream.JoinBevel {
		return []point{b, p1, p2}
	}
	// Miter: meet point of the two offset edges, with the conventional
	// limit of 10 falling back to bevel.
	mx, my := n1x+n2x, n1y+n2y
	mlen := math.Hypot(mx, my)
	if mlen == 0 {
		return []point{b, p1, p2}
	}
	cosHalf := mlen / (2 * half)
	miterRatio := 1 / cosHalf
	if miterRatio > 10 {
		return []point{b, p1, p2}
	}
	scale := half * miterRatio / mlen
	m := point{b.X + mx*scale, b.Y + my*scale}
	return []point{b, p1, m, p2}
}

func segmentNormal(a, b point, half float64) (nx, ny float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	return -dy / length * half, dx / length * half
}

// circleSegments is the polygon resolution for round caps and joins.
const circleSegments = 16

// circlePolygon is wound clockwise to match the segment quads, so overlap
// deepens the non-zero winding instead of canceling it.
func circlePolygon(center point, radius float64) []point {
	poly := make([]point, circleSegments)
	for i := range poly {
		angle := -2 * math.Pi * float64(i) / circleSegments
		poly[i] = point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	return poly
}

// dashPolyline splits a polyline into the visible runs of a dash pattern.
// Lengths and the starting offset are in device pixels.
func dashPolyline(line []point, pattern []float64, offset float64) [][]point {
	if len(pattern)%2 == 1 {
		// An odd pattern repeats with on and off swapped, which is the
		// same as doubling it.
		pattern = append(append([]float64{}, pattern...), pattern...)
	}
	total := 0.0
	for _, d := range pattern {
		total += d
	}
	if total <= 0 || len(line) < 2 {
		return [][]point{line}
	}

	// Position within the repeating pattern.
	pos := math.Mod(offset, total)
	if pos < 0 {
		pos += total
	}
	idx := 0
	for pos >= pattern[idx] {
		pos -= pattern[idx]
		idx = (idx + 1) % len(pattern)
	}
	remaining := pattern[idx] - pos
	on := idx%2 == 0 // even entries are drawn, odd are gaps

	var out [][]point
	var current []point
	if on {
		current = append(current, line[0])
	}
	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		segLen := math.Hypot(b.X-a.X, b.Y-a.Y)
		if segLen == 0 {
			continue
		}
		traveled := 0.0
		for segLen-traveled > remaining {
			traveled += remaining
			t := traveled / segLen
			p := point{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
			if on {
				current = append(current, p)
				out = append(out, current)
				current = nil
			} else {
				current = []point{p}
			}
			on = !on
			idx = (idx + 1) % len(pattern)
			remaining = pattern[idx]
		}
		remaining -= segLen - traveled
		if on {
			current = append(current, b)
		}
	}
	if len(current) >= 2 {
		out = append(out, current)
	}
	return out
}
