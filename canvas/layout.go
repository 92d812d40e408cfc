package canvas

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Placement moves one device to an absolute position.
type Placement struct {
	Key Key
	Pos Point
}

// Layout is a shareable set of changes from the initial canvas, carried in
// the query string: hide=mobile&rotate=tablet&pos=tablet:120:300.
type Layout struct {
	Hide   []Key
	Rotate []Key
	Place  []Placement
}

// ParseLayout reads a Layout from query values. Values may repeat or be
// comma separated.
func ParseLayout(q url.Values) (Layout, error) {
	var l Layout
	for _, raw := range splitValues(q["hide"]) {
		key, err := parseKey(raw)
		if err != nil {
			return Layout{}, err
		}
		l.Hide = append(l.Hide, key)
	}
	for _, raw := range splitValues(q["rotate"]) {
		key, err := parseKey(raw)
		if err != nil {
			return Layout{}, err
		}
		l.Rotate = append(l.Rotate, key)
	}
	for _, raw := range splitValues(q["pos"]) {
		parts := strings.Split(raw, ":")
		if len(parts) != 3 {
			return Layout{}, fmt.Errorf("invalid position %q", raw)
		}
		key, err := parseKey(parts[0])
		if err != nil {
			return Layout{}, err
		}
		x, errX := strconv.Atoi(parts[1])
		y, errY := strconv.Atoi(parts[2])
		if errX != nil || errY != nil {
			return Layout{}, fmt.Errorf("invalid position %q", raw)
		}
		l.Place = append(l.Place, Placement{Key: key, Pos: Point{x, y}})
	}
	return l, nil
}

func splitValues(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func parseKey(raw string) (Key, error) {
	key := Key(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := KindOf(key); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDevice, raw)
	}
	return key, nil
}

// Apply replays l on c through the same operations a user would perform:
// toggles, rotations and a drag per placement.
func (c *Canvas) Apply(l Layout) error {
	for _, key := range l.Rotate {
		if err := c.Rotate(key); err != nil {
			return err
		}
	}
	for _, p := range l.Place {
		d, err := c.Device(p.Key)
		if err != nil {
			return err
		}
		if !d.Visible() {
			continue
		}
		if err := c.PointerDown(p.Key, d.Pos); err != nil {
			return err
		}
		c.PointerMove(p.Pos)
		c.PointerUp()
	}
	for _, key := range l.Hide {
		d, err := c.Device(key)
		if err != nil {
			return err
		}
		if d.Visible() {
			if err := c.Toggle(key); err != nil {
				return err
			}
		}
	}
	return nil
}

// Encode returns the query values that reproduce l.
func (l Layout) Encode() url.Values {
	q := url.Values{}
	for _, k := range l.Hide {
		q.Add("hide", string(k))
	}
	for _, k := range l.Rotate {
		q.Add("rotate", string(k))
	}
	for _, p := range l.Place {
		q.Add("pos", fmt.Sprintf("%s:%d:%d", p.Key, p.Pos.X, p.Pos.Y))
	}
	return q
}

// LayoutOf describes how c differs from a fresh canvas.
func LayoutOf(c *Canvas) Layout {
	var l Layout
	for _, d := range c.Devices() {
		k := d.Kind()
		if d.Landscape != k.InitialLandscape {
			l.Rotate = append(l.Rotate, d.Key)
		}
		if d.Pos != k.Initial {
			l.Place = append(l.Place, Placement{Key: d.Key, Pos: d.Pos})
		}
		if !d.Visible() {
			l.Hide = append(l.Hide, d.Key)
		}
	}
	return l
}
