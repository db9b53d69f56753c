package text

import "github.com/rivo/uniseg"

// NextWordBoundary returns the smallest Unicode word boundary strictly
// greater than offset, or (0, false) if offset == len(bytes). Mirrors
// NextBoundary's windowed-rescan shape but segments words instead of
// grapheme clusters.
func (g *Navigator) NextWordBoundary(offset int) (int, bool) {
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
		word, _, _ := uniseg.FirstWordInString(string(chunk), -1)
		if len(word) < len(chunk) || end == total {
			next := offset + len(word)
			if next > total {
				next = total
			}
			return next, true
		}
		window *= 2
	}
}

// PrevWordBoundary returns the largest Unicode word boundary strictly
// less than offset, or (0, false) if offset == 0. Restarts scanning from
// the nearest line start, same as PrevBoundary.
func (g *Navigator) PrevWordBoundary(offset int) (int, bool) {
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
		last, ok := g.scanLastWordBoundaryBefore(restart, offset)
		if ok || restart == 0 {
			if !ok {
				return 0, false
			}
			return last, true
		}
		window *= 2
	}
}

func (g *Navigator) scanLastWordBoundaryBefore(restart, offset int) (int, bool) {
	chunk := g.rope.Slice(restart, offset)
	str := string(chunk)
	prev := restart
	last := -1
	state := -1
	for len(str) > 0 {
		if prev < offset {
			last = prev
		}
		word, rest, newState := uniseg.FirstWordInString(str, state)
		state = newState
		prev += len(word)
		str = rest
	}
	if last < 0 {
		return 0, false
	}
	return last, true
}
