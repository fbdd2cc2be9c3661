package model

import (
	"strings"

	"github.com/google/uuid"
)

// Orientation represents how a box is turned on the pallet surface.
type Orientation int

const (
	Horizontal Orientation = iota // Box length runs along the pallet length
	Vertical                      // Box turned 90°, width runs along the pallet length
)

func (o Orientation) String() string {
	if o == Vertical {
		return "Vertical"
	}
	return "Horizontal"
}

// Code returns the single-character formula code ("H" or "V").
func (o Orientation) Code() string {
	if o == Vertical {
		return "V"
	}
	return "H"
}

// ParseOrientation converts a formula code or a spelled-out name to an Orientation.
// It returns false if the string is not recognized.
func ParseOrientation(s string) (Orientation, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "H", "HORIZONTAL":
		return Horizontal, true
	case "V", "VERTICAL":
		return Vertical, true
	default:
		return Horizontal, false
	}
}

// Point2D represents a 2D coordinate in pallet space (mm).
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box holds the dimensions of the cartons being stacked.
type Box struct {
	Length float64 `json:"length" toml:"length"` // mm
	Width  float64 `json:"width" toml:"width"`   // mm
	Height float64 `json:"height" toml:"height"` // mm
}

func NewBox(length, width, height float64) Box {
	return Box{Length: length, Width: width, Height: height}
}

// Extents returns the footprint of the box along pallet X and Y for an orientation.
func (b Box) Extents(o Orientation) (dx, dy float64) {
	if o == Vertical {
		return b.Width, b.Length
	}
	return b.Length, b.Width
}

// Validate rejects boxes with a zero or negative footprint.
func (b Box) Validate() error {
	if b.Length <= 0 || b.Width <= 0 {
		return NewError(CodeDegenerateGeometry, "box dimensions must be positive, got %gx%g", b.Length, b.Width)
	}
	return nil
}

// Pallet is the rectangular surface a pattern is laid out on.
type Pallet struct {
	Length float64 `json:"length" toml:"length"` // mm, pallet X axis
	Width  float64 `json:"width" toml:"width"`   // mm, pallet Y axis
}

func NewPallet(length, width float64) Pallet {
	return Pallet{Length: length, Width: width}
}

// Validate rejects pallets with a zero or negative surface.
func (p Pallet) Validate() error {
	if p.Length <= 0 || p.Width <= 0 {
		return NewError(CodeDegenerateGeometry, "pallet dimensions must be positive, got %gx%g", p.Length, p.Width)
	}
	return nil
}

// Bounds returns the pallet surface as a rectangle anchored at the origin.
func (p Pallet) Bounds() Rect {
	return Rect{X: 0, Y: 0, Length: p.Length, Width: p.Width}
}

// Area returns the pallet surface area.
func (p Pallet) Area() float64 {
	return p.Length * p.Width
}

// Rect is an axis-aligned rectangle in pallet space. Length is the extent
// along pallet X, Width the extent along pallet Y.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

func (r Rect) EndX() float64 { return r.X + r.Length }
func (r Rect) EndY() float64 { return r.Y + r.Width }

// Contains tests whether a point lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.X && p.X <= r.EndX() && p.Y >= r.Y && p.Y <= r.EndY()
}

// ContainsRect tests whether another rectangle lies fully inside the receiver,
// allowing it to poke out by at most tol on any edge.
func (r Rect) ContainsRect(o Rect, tol float64) bool {
	return o.X >= r.X-tol && o.EndX() <= r.EndX()+tol &&
		o.Y >= r.Y-tol && o.EndY() <= r.EndY()+tol
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(o Rect) Rect {
	x1 := min(r.X, o.X)
	y1 := min(r.Y, o.Y)
	x2 := max(r.EndX(), o.EndX())
	y2 := max(r.EndY(), o.EndY())
	return Rect{X: x1, Y: y1, Length: x2 - x1, Width: y2 - y1}
}

// Side identifies one edge of a box. Sides are ordered clockwise so that
// turning a box by one quarter maps side s onto side s+1.
type Side int

const (
	SideBack  Side = iota // far Y edge
	SideRight             // far X edge
	SideFront             // near Y edge
	SideLeft              // near X edge
)

func (s Side) String() string {
	switch s {
	case SideBack:
		return "Back"
	case SideRight:
		return "Right"
	case SideFront:
		return "Front"
	default:
		return "Left"
	}
}

// Sides is a per-side flag set indexed by Side.
type Sides [4]bool

// AllSides returns a set with every side flagged.
func AllSides() Sides {
	return Sides{true, true, true, true}
}

// Count returns the number of flagged sides.
func (s Sides) Count() int {
	n := 0
	for _, v := range s {
		if v {
			n++
		}
	}
	return n
}

// Rotate turns the flag set clockwise by quarter turns.
func (s Sides) Rotate(quarters int) Sides {
	var out Sides
	for i, v := range s {
		out[(i+quarters%4+4)%4] = v
	}
	return out
}

// Item is one box placed on a pallet layer.
type Item struct {
	ID            string      `json:"id"`
	Slot          int         `json:"slot"` // Index of the source formula in the pattern definition
	Orientation   Orientation `json:"orientation"`
	StartX        float64     `json:"start_x"`
	StartY        float64     `json:"start_y"`
	EndX          float64     `json:"end_x"`
	EndY          float64     `json:"end_y"`
	Formula       string      `json:"formula"`        // Source formula the item was evaluated from
	LabelRotation int         `json:"label_rotation"` // Quarter turns applied to the box labels (0-3)
	ExposedLabels Sides       `json:"exposed_labels"` // Pallet sides showing a box label
	OuterSides    Sides       `json:"outer_sides"`    // Sides at the pattern's outer boundary
	Colliding     bool        `json:"colliding"`
	Selected      bool        `json:"selected"`
}

// NewItem creates an item with origin (x, y) and footprint dx by dy.
func NewItem(o Orientation, x, y, dx, dy float64) Item {
	return Item{
		ID:          uuid.New().String()[:8],
		Orientation: o,
		StartX:      x,
		StartY:      y,
		EndX:        x + dx,
		EndY:        y + dy,
		OuterSides:  AllSides(),
	}
}

// Rect returns the item's footprint rectangle.
func (it Item) Rect() Rect {
	return Rect{X: it.StartX, Y: it.StartY, Length: it.EndX - it.StartX, Width: it.EndY - it.StartY}
}

// Translate returns a copy of the item shifted by dx, dy.
func (it Item) Translate(dx, dy float64) Item {
	it.StartX += dx
	it.EndX += dx
	it.StartY += dy
	it.EndY += dy
	return it
}

// Pattern is the ordered item list of one pallet layer.
type Pattern []Item

// Bounds returns the bounding box of all items, or an empty rect for an empty pattern.
func (p Pattern) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	b := p[0].Rect()
	for _, it := range p[1:] {
		b = b.Union(it.Rect())
	}
	return b
}

// UsedArea returns the total footprint of all items.
func (p Pattern) UsedArea() float64 {
	var total float64
	for _, it := range p {
		r := it.Rect()
		total += r.Length * r.Width
	}
	return total
}

// Efficiency returns the share of the pallet surface covered, in percent.
func (p Pattern) Efficiency(pallet Pallet) float64 {
	a := pallet.Area()
	if a == 0 {
		return 0
	}
	return (p.UsedArea() / a) * 100.0
}

// CollisionCount returns the number of items flagged as colliding.
func (p Pattern) CollisionCount() int {
	n := 0
	for _, it := range p {
		if it.Colliding {
			n++
		}
	}
	return n
}

// BoxFormula is the parsed form of one item's formula: the item's start
// offset as multiples of the box length and width on each pallet axis.
type BoxFormula struct {
	Orientation Orientation `json:"orientation"`
	XLength     float64     `json:"x_length"`
	XWidth      float64     `json:"x_width"`
	YLength     float64     `json:"y_length"`
	YWidth      float64     `json:"y_width"`
	Group       string      `json:"group,omitempty"`
}

// Offset evaluates the formula against a box: offset = a·length + b·width per axis.
func (f BoxFormula) Offset(b Box) (x, y float64) {
	x = f.XLength*b.Length + f.XWidth*b.Width
	y = f.YLength*b.Length + f.YWidth*b.Width
	return x, y
}

// Placement is a slot found by the placement search, with the formula that reproduces it.
type Placement struct {
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Orientation Orientation `json:"orientation"`
	Formula     string      `json:"formula"`
}

// Layer names one pallet layer a pattern can be assigned to.
type Layer string

const (
	LayerOdd  Layer = "odd"
	LayerEven Layer = "even"
	LayerTop  Layer = "top"
)

// AllLayers lists the layers in stacking order.
var AllLayers = []Layer{LayerOdd, LayerEven, LayerTop}

// ParseLayer converts a layer name to a Layer.
func ParseLayer(s string) (Layer, bool) {
	switch Layer(strings.ToLower(strings.TrimSpace(s))) {
	case LayerOdd:
		return LayerOdd, true
	case LayerEven:
		return LayerEven, true
	case LayerTop:
		return LayerTop, true
	default:
		return "", false
	}
}
