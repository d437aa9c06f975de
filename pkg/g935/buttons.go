package g935

import "log/slog"

// MicArm is the position of the microphone arm.
type MicArm uint8

const (
	MicArmUp MicArm = iota
	MicArmDown
)

func (m MicArm) String() string {
	if m == MicArmDown {
		return "down"
	}
	return "up"
}

// Buttons holds the pressed state of the three G-keys.
type Buttons struct {
	G1 bool
	G2 bool
	G3 bool
}

// Wheel holds the scroll state of the volume wheel.
type Wheel struct {
	Up   bool
	Down bool
}

// ButtonState is an immutable snapshot of every button-like input on the
// headset. Edge events are derived by comparing two temporally ordered
// snapshots.
type ButtonState struct {
	Buttons Buttons
	Wheel   Wheel
	MicArm  MicArm
	// MuteButton is set only on the snapshot produced by a mute press; it is
	// transient and never carried over to later snapshots.
	MuteButton bool
}

// MicFlippedUp reports whether the microphone arm moved from down to up.
func (s ButtonState) MicFlippedUp(old ButtonState) bool {
	return old.MicArm == MicArmDown && s.MicArm == MicArmUp
}

// MicFlippedDown reports whether the microphone arm moved from up to down.
func (s ButtonState) MicFlippedDown(old ButtonState) bool {
	return old.MicArm == MicArmUp && s.MicArm == MicArmDown
}

// G1Pressed reports whether the G1 key went down since old.
func (s ButtonState) G1Pressed(old ButtonState) bool {
	return !old.Buttons.G1 && s.Buttons.G1
}

// G1Released reports whether the G1 key came up since old.
func (s ButtonState) G1Released(old ButtonState) bool {
	return old.Buttons.G1 && !s.Buttons.G1
}

// G2Pressed reports whether the G2 key went down since old.
func (s ButtonState) G2Pressed(old ButtonState) bool {
	return !old.Buttons.G2 && s.Buttons.G2
}

// G2Released reports whether the G2 key came up since old.
func (s ButtonState) G2Released(old ButtonState) bool {
	return old.Buttons.G2 && !s.Buttons.G2
}

// G3Pressed reports whether the G3 key went down since old.
func (s ButtonState) G3Pressed(old ButtonState) bool {
	return !old.Buttons.G3 && s.Buttons.G3
}

// G3Released reports whether the G3 key came up since old.
func (s ButtonState) G3Released(old ButtonState) bool {
	return old.Buttons.G3 && !s.Buttons.G3
}

// ScrollUp reports whether the wheel is scrolling up.
func (s ButtonState) ScrollUp() bool { return s.Wheel.Up }

// ScrollDown reports whether the wheel is scrolling down.
func (s ButtonState) ScrollDown() bool { return s.Wheel.Down }

// ScrollEnd reports whether scrolling stopped since old.
func (s ButtonState) ScrollEnd(old ButtonState) bool {
	return (old.Wheel.Up || old.Wheel.Down) && !s.Wheel.Up && !s.Wheel.Down
}

// MuteButtonPressed reports whether the mute button was pressed when this
// snapshot was taken.
func (s ButtonState) MuteButtonPressed() bool { return s.MuteButton }

// decodeButtons reads the G-key bitfield from a gkeys notification frame.
func decodeButtons(frame []byte) Buttons {
	return Buttons{
		G1: frame[4]&0x01 != 0,
		G2: frame[4]&0x02 != 0,
		G3: frame[4]&0x04 != 0,
	}
}

// decodeWheel reads the scroll bitfield from a wheel notification frame.
func decodeWheel(frame []byte) Wheel {
	return Wheel{
		Up:   frame[1]&0x01 != 0,
		Down: frame[1]&0x02 != 0,
	}
}

// decodeMicArm reads the arm position from a mic-arm notification frame. An
// unexpected value is logged and treated as up.
func decodeMicArm(frame []byte) MicArm {
	switch frame[1] {
	case 0x10:
		return MicArmUp
	case 0x20:
		return MicArmDown
	default:
		slog.Error("unexpected microphone arm state, defaulting to up",
			slog.Int("state", int(frame[1])))
		return MicArmUp
	}
}
