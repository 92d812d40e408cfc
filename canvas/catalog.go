package canvas

// Size is a width and height in pixels.
type Size struct {
	W, H int
}

// Swap returns s rotated by 90 degrees.
func (s Size) Swap() Size { return Size{W: s.H, H: s.W} }

// Kind describes a device in the catalog.
type Kind struct {
	Key              Key
	Name             string
	Initial          Point
	InitialZ         int
	InitialLandscape bool
	Rotatable        bool
	// Viewport is the emulated screen in its native orientation.
	Viewport Size
	// Frame is the on-screen size of the mockup in its native orientation.
	Frame Size
	// Footprint is the on-screen width of the viewport's native width.
	Footprint int
}

// Geometry is the sizing of a device iframe: the page is laid out at
// Viewport and shrunk by Scale into Frame.
type Geometry struct {
	Viewport Size
	Scale    float64
	Frame    Size
}

// Geometry returns the sizing of k in the given orientation. The scale
// stays the same across orientations so rotating never zooms the page.
func (k Kind) Geometry(landscape bool) Geometry {
	g := Geometry{
		Viewport: k.Viewport,
		Scale:    float64(k.Footprint) / float64(k.Viewport.W),
		Frame:    k.Frame,
	}
	if k.Rotatable && landscape {
		g.Viewport = g.Viewport.Swap()
		g.Frame = g.Frame.Swap()
	}
	return g
}

var catalog = []Kind{
	{
		Key: Desktop, Name: "Desktop",
		Initial: Point{300, 100}, InitialZ: 1, InitialLandscape: true,
		Viewport: Size{1920, 1080}, Frame: Size{640, 360}, Footprint: 640,
	},
	{
		Key: Laptop, Name: "Laptop",
		Initial: Point{750, 380}, InitialZ: 2, InitialLandscape: true,
		Viewport: Size{1280, 800}, Frame: Size{400, 250}, Footprint: 400,
	},
	{
		Key: Tablet, Name: "Tablet",
		Initial: Point{180, 380}, InitialZ: 3, Rotatable: true,
		Viewport: Size{768, 1024}, Frame: Size{230, 320}, Footprint: 230,
	},
	{
		Key: Mobile, Name: "Mobile",
		Initial: Point{380, 450}, InitialZ: 4, Rotatable: true,
		Viewport: Size{390, 844}, Frame: Size{130, 280}, Footprint: 130,
	},
}

// Catalog returns every device kind in display order.
func Catalog() []Kind {
	out := make([]Kind, len(catalog))
	copy(out, catalog)
	return out
}

// KindOf returns the catalog entry for key.
func KindOf(key Key) (Kind, bool) {
	for _, k := range catalog {
		if k.Key == key {
			return k, true
		}
	}
	return Kind{}, false
}
