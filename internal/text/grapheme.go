package text

import "github.com/rivo/uniseg"

// navigatorWindow is the number of bytes of forward/backward context
// fetched from the store before asking uniseg to resolve a boundary.
// Extended on demand when a cluster or the restart search would
// otherwise overrun it (ZWJ sequences, long combining-mark runs).
const navigatorWindow = 256

// Navigator answers grapheme-cluster boundary queries over a Rope,
// re-fetching chunks from the store as context when a cluster decision
// needs bytes outside the current window (UAX #29, including ZWJ
// sequences, emoji variation selectors, regional-indicator pairs, and
// emoji modifiers, all of which uniseg already implements correctly
// given enough forward/backward context).
type Navigator struct {
	rope *Rope
}

// NewNavigator returns a Navigator over rope.
func NewNavigator(rope *Rope) *Navigator { return &Navigator{rope: rope} }

// NextBoundary returns the smallest grapheme-cluster boundary strictly
// greater than offset, or (0, false) if offset == len(bytes).
func (g *Navigator) NextBoundary(offset int) (int, bool) {
	total := g.rope.Len()
	if offset >= total {
		return 0, false
	}
	window := navigatorWindow
	for {
		end := offset + window
		if end > total {
			end = total
		}
		chunk := g.rope.Slice(offset, end)
		cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(string(chunk), -1)
		if len(cluster) < len(chunk) || end == total {
			next := offset + len(cluster)
			if next > total {
				next = total
			}
			return next, true
		}
		// the cluster consumed the whole window and more text remains:
		// widen the window and re-resolve.
		window *= 2
	}
}

// PrevBoundary returns the largest grapheme-cluster boundary strictly
// less than offset, or (0, false) if offset == 0.
//
// offset is assumed to already sit on a boundary (the Cursor invariant
// guarantees this), so resolving the previous boundary only requires
// forward re-segmentation from a known-safe earlier boundary: the
// start of some line, which is always a grapheme-cluster boundary
// since line terminators are themselves boundaries.
func (g *Navigator) PrevBoundary(offset int) (int, bool) {
	if offset <= 0 {
		return 0, false
	}
	window := navigatorWindow
	for {
		restart := offset - window
		if restart <= 0 {
			restart = 0
		} else {
			line := g.rope.ByteToLine(restart)
			restart = g.rope.LineToByte(line)
		}
		last, ok := g.scanLastBoundaryBefore(restart, offset)
		if ok || restart == 0 {
			if !ok {
				return 0, false
			}
			return last, true
		}
		window *= 2
	}
}

func (g *Navigator) scanLastBoundaryBefore(restart, offset int) (int, bool) {
	chunk := g.rope.Slice(restart, offset)
	str := string(chunk)
	prev := restart
	last := -1
	state := -1
	for len(str) > 0 {
		if prev < offset {
			last = prev
		}
		cluster, rest, _, newState := uniseg.FirstGraphemeClusterInString(str, state)
		state = newState
		prev += len(cluster)
		str = rest
	}
	if last < 0 {
		return 0, false
	}
	return last, true
}

// CountGraphemeClusters counts the grapheme clusters in b, used by
// byte-to-column conversion.
func CountGraphemeClusters(b []byte) int {
	return uniseg.GraphemeClusterCount(string(b))
}
