package text

import "testing"

func TestNavigatorGraphemeMoveRight(t *testing.T) {
	s := "a😊ä👍🏻b👨‍👩‍👦"
	r := NewRope([]byte(s))
	nav := NewNavigator(r)

	want := []int{1, 5, 7, 15, 16, 34, 34, 34}
	offset := 0
	for i, w := range want {
		next, ok := nav.NextBoundary(offset)
		if ok {
			offset = next
		}
		if offset != w {
			t.Fatalf("step %d: offset = %d, want %d", i, offset, w)
		}
	}
}

func TestNavigatorPrevBoundaryMirrorsNext(t *testing.T) {
	s := "a😊äb"
	r := NewRope([]byte(s))
	nav := NewNavigator(r)

	var boundaries []int
	offset := 0
	boundaries = append(boundaries, offset)
	for {
		next, ok := nav.NextBoundary(offset)
		if !ok {
			break
		}
		offset = next
		boundaries = append(boundaries, offset)
	}

	for i := len(boundaries) - 1; i > 0; i-- {
		prev, ok := nav.PrevBoundary(boundaries[i])
		if !ok {
			t.Fatalf("PrevBoundary(%d) returned !ok", boundaries[i])
		}
		if prev != boundaries[i-1] {
			t.Fatalf("PrevBoundary(%d) = %d, want %d", boundaries[i], prev, boundaries[i-1])
		}
	}
}

func TestCountGraphemeClusters(t *testing.T) {
	if got := CountGraphemeClusters([]byte("abc")); got != 3 {
		t.Fatalf("CountGraphemeClusters(abc) = %d, want 3", got)
	}
	if got := CountGraphemeClusters([]byte("👨‍👩‍👦")); got != 1 {
		t.Fatalf("CountGraphemeClusters(family emoji) = %d, want 1", got)
	}
}
