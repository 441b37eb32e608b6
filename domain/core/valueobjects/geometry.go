package valueobjects

// Position is a point in canvas space. Canvas space is the unbounded logical
// coordinate system nodes live in, independent of the current pan/zoom.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a position from canvas coordinates
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Translate returns the position shifted by (dx, dy)
func (p Position) Translate(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Equals checks if two positions are equal
func (p Position) Equals(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Size is the width and height of a resizable node box
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize creates a size, clamping negative dimensions to zero
func NewSize(width, height float64) Size {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Size{Width: width, Height: height}
}

// IsZero checks if the size has no area
func (s Size) IsZero() bool {
	return s.Width == 0 || s.Height == 0
}

// Rect is an axis-aligned bounding box in canvas space
type Rect struct {
	Min  Position
	Size Size
}

// NewRect creates a rect from an anchor position and a size
func NewRect(min Position, size Size) Rect {
	return Rect{Min: min, Size: size}
}

// Max returns the bottom-right corner
func (r Rect) Max() Position {
	return Position{X: r.Min.X + r.Size.Width, Y: r.Min.Y + r.Size.Height}
}

// Contains reports whether p lies inside the rect (inclusive)
func (r Rect) Contains(p Position) bool {
	max := r.Max()
	return p.X >= r.Min.X && p.X <= max.X && p.Y >= r.Min.Y && p.Y <= max.Y
}

// ContainsRect reports whether other lies entirely inside the rect
func (r Rect) ContainsRect(other Rect) bool {
	return r.Contains(other.Min) && r.Contains(other.Max())
}
