// Package input turns level-triggered button states into edge-triggered events.
package input

// Button identifies one physical control.
type Button int

const (
	Up Button = iota
	Down
	Left
	Right
	A // select / confirm
	B // back
	Start
	numButtons
)

// String returns the protocol name for a Button.
func (b Button) String() string {
	switch b {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case A:
		return "a"
	case B:
		return "b"
	case Start:
		return "start"
	default:
		return "unknown"
	}
}

// ParseButton returns the Button with the given protocol name.
func ParseButton(name string) (Button, bool) {
	for b := Up; b < numButtons; b++ {
		if b.String() == name {
			return b, true
		}
	}
	return 0, false
}

// Snapshot holds the pressed level of every button for one step.
type Snapshot uint8

// With returns a copy of s with the given buttons pressed.
func (s Snapshot) With(buttons ...Button) Snapshot {
	for _, b := range buttons {
		s |= 1 << uint(b)
	}
	return s
}

// Pressed reports whether b is held in s.
func (s Snapshot) Pressed(b Button) bool {
	return s&(1<<uint(b)) != 0
}

// FromMap builds a Snapshot from protocol names; unknown names are ignored.
func FromMap(levels map[string]bool) Snapshot {
	var s Snapshot
	for name, down := range levels {
		if !down {
			continue
		}
		if b, ok := ParseButton(name); ok {
			s = s.With(b)
		}
	}
	return s
}

// Detector remembers the previous step's levels.
type Detector struct {
	prev Snapshot
}

// Step returns the buttons that went from released to pressed since the last
// call and stores cur for the next one. Held buttons never fire twice.
func (d *Detector) Step(cur Snapshot) Snapshot {
	rising := cur &^ d.prev
	d.prev = cur
	return rising
}

// Prime sets the remembered levels without reporting edges, so buttons
// already held when a consumer starts listening do not fire.
func (d *Detector) Prime(levels Snapshot) {
	d.prev = levels
}
