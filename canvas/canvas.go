// Package canvas models the multi-device preview: a fixed set of device
// mockups that can be shown, hidden, dragged, stacked and rotated.
package canvas

import (
	"errors"
	"fmt"
	"strings"
)

// Key identifies a device kind.
type Key string

const (
	Desktop Key = "desktop"
	Laptop  Key = "laptop"
	Tablet  Key = "tablet"
	Mobile  Key = "mobile"
)

// ErrUnknownDevice is returned for keys outside the catalog.
var ErrUnknownDevice = errors.New("unknown device")

// ErrNotRotatable is returned by Rotate for fixed-orientation devices.
var ErrNotRotatable = errors.New("device cannot rotate")

// InitialCounter is the stacking counter value of a fresh canvas.
const InitialCounter = 10

// Point is a position in canvas pixels.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Phase is the interaction state of one device: Hidden, Idle or Dragging.
type Phase interface {
	isPhase()
}

// Hidden devices are not rendered.
type Hidden struct{}

// Idle devices are visible and at rest.
type Idle struct{}

// Dragging devices follow the pointer. StartPointer and StartPos are
// captured on pointer down so every move is computed from them.
type Dragging struct {
	StartPointer Point
	StartPos     Point
}

func (Hidden) isPhase()   {}
func (Idle) isPhase()     {}
func (Dragging) isPhase() {}

// Device is the state of one mockup.
type Device struct {
	Key       Key
	Phase     Phase
	Pos       Point
	Z         int
	Landscape bool
}

// Visible reports whether the device is shown.
func (d Device) Visible() bool {
	_, hidden := d.Phase.(Hidden)
	return !hidden
}

// IsDragging reports whether the device follows the pointer.
func (d Device) IsDragging() bool {
	_, ok := d.Phase.(Dragging)
	return ok
}

// Kind returns the catalog entry of the device.
func (d Device) Kind() Kind {
	k, _ := KindOf(d.Key)
	return k
}

// Geometry returns the iframe sizing for the device's orientation.
func (d Device) Geometry() Geometry {
	return d.Kind().Geometry(d.Landscape)
}

// Canvas holds every device of the catalog. The zero value is not usable;
// call New.
type Canvas struct {
	devices []Device
	counter int
}

// New returns a canvas in its initial layout.
func New() *Canvas {
	c := &Canvas{}
	c.Reset()
	return c
}

// Reset restores every device to its initial position, z-order, visibility
// and orientation, and resets the stacking counter.
func (c *Canvas) Reset() {
	c.devices = make([]Device, len(catalog))
	for i, k := range catalog {
		c.devices[i] = Device{
			Key:       k.Key,
			Phase:     Idle{},
			Pos:       k.Initial,
			Z:         k.InitialZ,
			Landscape: k.InitialLandscape,
		}
	}
	c.counter = InitialCounter
}

// Devices returns a copy of every device in catalog order.
func (c *Canvas) Devices() []Device {
	out := make([]Device, len(c.devices))
	copy(out, c.devices)
	return out
}

// Device returns the state of one device.
func (c *Canvas) Device(key Key) (Device, error) {
	d, err := c.lookup(key)
	if err != nil {
		return Device{}, err
	}
	return *d, nil
}

// Counter returns the current stacking counter.
func (c *Canvas) Counter() int { return c.counter }

// Visible returns the visible devices in catalog order.
func (c *Canvas) Visible() []Device {
	var out []Device
	for _, d := range c.devices {
		if d.Visible() {
			out = append(out, d)
		}
	}
	return out
}

func (c *Canvas) lookup(key Key) (*Device, error) {
	for i := range c.devices {
		if c.devices[i].Key == key {
			return &c.devices[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, key)
}

func (c *Canvas) nextZ() int {
	c.counter++
	return c.counter
}

// Toggle shows a hidden device on top of the stack, or hides a visible one.
// Hiding a dragged device ends the drag.
func (c *Canvas) Toggle(key Key) error {
	d, err := c.lookup(key)
	if err != nil {
		return err
	}
	switch d.Phase.(type) {
	case Hidden:
		d.Phase = Idle{}
		d.Z = c.nextZ()
	default:
		d.Phase = Hidden{}
	}
	return nil
}

// BringToFront stacks a device above every other.
func (c *Canvas) BringToFront(key Key) error {
	d, err := c.lookup(key)
	if err != nil {
		return err
	}
	d.Z = c.nextZ()
	return nil
}

// PointerDown starts dragging a visible device from pointer p and brings it
// to the front. It does nothing for hidden devices. Any other drag ends.
func (c *Canvas) PointerDown(key Key, p Point) error {
	d, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !d.Visible() {
		return nil
	}
	c.PointerUp()
	d.Phase = Dragging{StartPointer: p, StartPos: d.Pos}
	d.Z = c.nextZ()
	return nil
}

// PointerMove moves the dragged device, if any, to its start position plus
// the pointer offset since PointerDown.
func (c *Canvas) PointerMove(p Point) {
	for i := range c.devices {
		if drag, ok := c.devices[i].Phase.(Dragging); ok {
			c.devices[i].Pos = drag.StartPos.Add(p.Sub(drag.StartPointer))
		}
	}
}

// PointerUp ends any drag.
func (c *Canvas) PointerUp() {
	for i := range c.devices {
		if c.devices[i].IsDragging() {
			c.devices[i].Phase = Idle{}
		}
	}
}

// PointerLeave ends any drag when the pointer leaves the canvas.
func (c *Canvas) PointerLeave() { c.PointerUp() }

// Rotate flips the orientation of a rotatable device.
func (c *Canvas) Rotate(key Key) error {
	d, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !d.Kind().Rotatable {
		return fmt.Errorf("%w: %s", ErrNotRotatable, key)
	}
	d.Landscape = !d.Landscape
	return nil
}

// Dragged returns the key of the device being dragged, if any.
func (c *Canvas) Dragged() (Key, bool) {
	for _, d := range c.devices {
		if d.IsDragging() {
			return d.Key, true
		}
	}
	return "", false
}

// NormalizeURL trims raw and prefixes https:// when no scheme is given.
// Empty input stays empty.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return u
	}
	return "https://" + u
}
