package render

import "github.com/gogpu/drawstream"

// blendFunc combines a source pixel with a destination pixel. All values
// are premultiplied alpha, 0-255.
type blendFunc func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// blendFuncFor returns the pixel operator for a blend mode. Unknown modes
// fall back to source-over.
func blendFuncFor(mode drawstream.BlendMode) blendFunc {
	switch mode {
	case drawstream.BlendSourceOver:
		return blendSourceOver
	case drawstream.BlendSourceIn:
		return blendSourceIn
	case drawstream.BlendSourceOut:
		return blendSourceOut
	case drawstream.BlendDestinationOver:
		return blendDestinationOver
	case drawstream.BlendDestinationIn:
		return blendDestinationIn
	case drawstream.BlendDestinationOut:
		return blendDestinationOut
	case drawstream.BlendSourceAtop:
		return blendSourceAtop
	case drawstream.BlendDestinationAtop:
		return blendDestinationAtop
	case drawstream.BlendMultiply:
		return blendMultiply
	case drawstream.BlendScreen:
		return blendScreen
	case drawstream.BlendDarken:
		return blendDarken
	case drawstream.BlendLighten:
		return blendLighten
	default:
		return blendSourceOver
	}
}

// Porter-Duff operators (premultiplied alpha).

// S + D*(1-Sa)
func blendSourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return clampAdd(sr, mulDiv255(dr, invSa)),
		clampAdd(sg, mulDiv255(dg, invSa)),
		clampAdd(sb, mulDiv255(db, invSa)),
		clampAdd(sa, mulDiv255(da, invSa))
}

// S*Da
func blendSourceIn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(sr, da), mulDiv255(sg, da), mulDiv255(sb, da), mulDiv255(sa, da)
}

// S*(1-Da)
func blendSourceOut(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	return mulDiv255(sr, invDa), mulDiv255(sg, invDa), mulDiv255(sb, invDa), mulDiv255(sa, invDa)
}

// S*(1-Da) + D
func blendDestinationOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	return clampAdd(mulDiv255(sr, invDa), dr),
		clampAdd(mulDiv255(sg, invDa), dg),
		clampAdd(mulDiv255(sb, invDa), db),
		clampAdd(mulDiv255(sa, invDa), da)
}

// D*Sa
func blendDestinationIn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(dr, sa), mulDiv255(dg, sa), mulDiv255(db, sa), mulDiv255(da, sa)
}

// D*(1-Sa)
func blendDestinationOut(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return mulDiv255(dr, invSa), mulDiv255(dg, invSa), mulDiv255(db, invSa), mulDiv255(da, invSa)
}

// S*Da + D*(1-Sa), alpha stays Da
func blendSourceAtop(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return clampAdd(mulDiv255(sr, da), mulDiv255(dr, invSa)),
		clampAdd(mulDiv255(sg, da), mulDiv255(dg, invSa)),
		clampAdd(mulDiv255(sb, da), mulDiv255(db, invSa)),
		da
}

// S*(1-Da) + D*Sa, alpha becomes Sa
func blendDestinationAtop(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	return clampAdd(mulDiv255(sr, invDa), mulDiv255(dr, sa)),
		clampAdd(mulDiv255(sg, invDa), mulDiv255(dg, sa)),
		clampAdd(mulDiv255(sb, invDa), mulDiv255(db, sa)),
		sa
}

// Separable modes, per W3C compositing: the channel operator B runs on
// unmultiplied channels, then the result is composited as
// (1-Sa)*D + (1-Da)*S + Sa*Da*B.

func blendMultiply(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, mulDiv255)
}

func blendScreen(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		return 255 - mulDiv255(255-s, 255-d)
	})
}

func blendDarken(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if s < d {
			return s
		}
		return d
	})
}

func blendLighten(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if s > d {
			return s
		}
		return d
	})
}

func separable(sr, sg, sb, sa, dr, dg, db, da byte, op func(s, d byte) byte) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	// Unpremultiply before running the channel operator.
	us := func(c byte) byte { return byte(uint16(c) * 255 / uint16(sa)) }
	ud := func(c byte) byte { return byte(uint16(c) * 255 / uint16(da)) }
	br := op(us(sr), ud(dr))
	bg := op(us(sg), ud(dg))
	bb := op(us(sb), ud(db))

	invSa := 255 - sa
	invDa := 255 - da
	saDa := mulDiv255(sa, da)
	r := clampAdd(clampAdd(mulDiv255(dr, invSa), mulDiv255(sr, invDa)), mulDiv255(saDa, br))
	g := clampAdd(clampAdd(mulDiv255(dg, invSa), mulDiv255(sg, invDa)), mulDiv255(saDa, bg))
	b := clampAdd(clampAdd(mulDiv255(db, invSa), mulDiv255(sb, invDa)), mulDiv255(saDa, bb))
	a := clampAdd(sa, mulDiv255(da, invSa))
	return r, g, b, a
}

// mulDiv255 multiplies two bytes treating them as 0-1 fractions, rounding.
func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}

// clampAdd adds two bytes, clamping at 255.
func clampAdd(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}
