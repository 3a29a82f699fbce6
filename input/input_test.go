package input

import "testing"

func TestStepFiresOnlyOnRisingEdge(t *testing.T) {
	var d Detector
	held := Snapshot(0).With(A)

	if got := d.Step(held); !got.Pressed(A) {
		t.Fatal("expected A to fire on first press")
	}
	for i := 0; i < 5; i++ {
		if got := d.Step(held); got.Pressed(A) {
			t.Fatalf("expected A not to repeat while held (step %d)", i)
		}
	}
	d.Step(0)
	if got := d.Step(held); !got.Pressed(A) {
		t.Error("expected A to fire again after release")
	}
}

func TestStepIndependentButtons(t *testing.T) {
	var d Detector
	d.Step(Snapshot(0).With(Up))
	got := d.Step(Snapshot(0).With(Up, Left))
	if got.Pressed(Up) {
		t.Error("Up was already held, expected no edge")
	}
	if !got.Pressed(Left) {
		t.Error("expected Left edge")
	}
}

func TestFromMap(t *testing.T) {
	s := FromMap(map[string]bool{"up": true, "a": true, "b": false, "jump": true})
	if !s.Pressed(Up) || !s.Pressed(A) {
		t.Errorf("expected up and a pressed, got %08b", s)
	}
	if s.Pressed(B) {
		t.Error("b was released")
	}
}

func TestButtonStringRoundTrip(t *testing.T) {
	for b := Up; b < numButtons; b++ {
		got, ok := ParseButton(b.String())
		if !ok || got != b {
			t.Errorf("ParseButton(%q) = %v, %v", b.String(), got, ok)
		}
	}
	if _, ok := ParseButton("select"); ok {
		t.Error("expected unknown name to fail")
	}
}

func TestPrimeSuppressesHeldButtons(t *testing.T) {
	var d Detector
	d.Prime(Snapshot(0).With(A))
	if got := d.Step(Snapshot(0).With(A, B)); got.Pressed(A) || !got.Pressed(B) {
		t.Errorf("expected only B to fire after priming with A, got %08b", got)
	}
}
