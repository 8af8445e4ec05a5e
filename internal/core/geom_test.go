package core

import "testing"

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{
			name:     "overlapping rects",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(5, 5, 10, 10),
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(15, 0, 10, 10),
			expected: false,
		},
		{
			name:     "non-overlapping vertical",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(0, 15, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent horizontal (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(10, 0, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent vertical (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(0, 10, 10, 10),
			expected: false,
		},
		{
			name:     "contained rect",
			a:        NewRect(0, 0, 20, 20),
			b:        NewRect(5, 5, 5, 5),
			expected: true,
		},
		{
			name:     "single pixel overlap",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(9, 9, 10, 10),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.a.Intersects(tc.b)
			if result != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", result, tc.expected)
			}
			// Also test symmetry
			resultReverse := tc.b.Intersects(tc.a)
			if resultReverse != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", resultReverse, tc.expected)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}

	cx, cy := r.Center()
	if cx != 15 || cy != 17 {
		t.Errorf("Center() = (%d, %d), expected (15, 17)", cx, cy)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestAbs(t *testing.T) {
	for _, tc := range []struct{ in, want int }{{5, 5}, {-5, 5}, {0, 0}} {
		if got := Abs(tc.in); got != tc.want {
			t.Errorf("Abs(%d) = %d, expected %d", tc.in, got, tc.want)
		}
	}
}

func TestRectTranslate(t *testing.T) {
	r := NewRect(10, 20, 4, 6)

	moved := r.Translate(-15, 7)
	if moved.X != -5 || moved.Y != 27 || moved.W != 4 || moved.H != 6 {
		t.Errorf("Translate(-15, 7) = %+v", moved)
	}
	// Value receiver: original untouched
	if r.X != 10 || r.Y != 20 {
		t.Errorf("Translate mutated the receiver: %+v", r)
	}
}

func TestRectEdgeSetters(t *testing.T) {
	r := NewRect(790, 590, 30, 20)

	if got := r.WithRight(800); got.X != 770 || got.Right() != 800 {
		t.Errorf("WithRight(800) = %+v", got)
	}
	if got := r.WithBottom(600); got.Y != 580 || got.Bottom() != 600 {
		t.Errorf("WithBottom(600) = %+v", got)
	}
}

func TestNewRectCentered(t *testing.T) {
	r := NewRectCentered(100, 50, 40, 10)
	if r.X != 80 || r.Y != 45 {
		t.Errorf("NewRectCentered = %+v, expected top-left (80, 45)", r)
	}
	cx, cy := r.Center()
	if cx != 100 || cy != 50 {
		t.Errorf("Center() = (%d, %d), expected (100, 50)", cx, cy)
	}
}

func TestRectWithin(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"inside", NewRect(10, 10, 5, 5), true},
		{"touching all edges", NewRect(0, 0, 800, 600), true},
		{"left overflow", NewRect(-1, 0, 5, 5), false},
		{"right overflow", NewRect(796, 0, 5, 5), false},
		{"top overflow", NewRect(0, -1, 5, 5), false},
		{"bottom overflow", NewRect(0, 596, 5, 5), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.Within(800, 600); got != tc.want {
				t.Errorf("Within(800, 600) = %v, expected %v", got, tc.want)
			}
		})
	}
}
