package g935

import (
	"encoding/binary"
	"fmt"
)

// Light selects one of the two independently addressable light zones.
type Light uint8

const (
	LightLogo Light = 0x00
	LightSide Light = 0x01
)

// EffectKind discriminates light effects.
type EffectKind uint8

const (
	EffectOff EffectKind = iota
	EffectStatic
	EffectBreathing
	EffectColorCycle
)

// Effect describes the desired visual effect for one light zone. Only the
// fields belonging to Kind are meaningful; the constructors below keep the
// rest zeroed so values compare with ==.
type Effect struct {
	Kind             EffectKind
	Red, Green, Blue uint8
	Rate             uint16
	Brightness       uint8
}

// Off returns the off effect.
func Off() Effect { return Effect{Kind: EffectOff} }

// Static returns a static color effect.
func Static(red, green, blue uint8) Effect {
	return Effect{Kind: EffectStatic, Red: red, Green: green, Blue: blue}
}

// Breathing returns a breathing color effect.
func Breathing(red, green, blue uint8, rate uint16, brightness uint8) Effect {
	return Effect{Kind: EffectBreathing, Red: red, Green: green, Blue: blue, Rate: rate, Brightness: brightness}
}

// ColorCycle returns a color cycle effect.
func ColorCycle(rate uint16, brightness uint8) Effect {
	return Effect{Kind: EffectColorCycle, Rate: rate, Brightness: brightness}
}

// ProfileType selects whether a light setting applies until the next
// power-on or is stored in the on-device profile.
type ProfileType uint8

const (
	ProfileTemporary ProfileType = 0x00
	ProfilePermanent ProfileType = 0x02
)

const lightConfigLen = 13

// LightConfig is the full configuration for one light zone.
type LightConfig struct {
	Light   Light
	Effect  Effect
	Profile ProfileType
}

// Encode serializes the configuration into the fixed 13-byte wire body.
// Breathing carries its rate at bytes 5-6 and brightness at byte 8;
// ColorCycle carries them at bytes 7-8 and byte 9.
func (c LightConfig) Encode() []byte {
	body := make([]byte, lightConfigLen)

	body[0] = byte(c.Light)
	body[1] = byte(c.Effect.Kind)

	switch c.Effect.Kind {
	case EffectOff:
	case EffectStatic:
		body[2] = c.Effect.Red
		body[3] = c.Effect.Green
		body[4] = c.Effect.Blue
	case EffectBreathing:
		body[2] = c.Effect.Red
		body[3] = c.Effect.Green
		body[4] = c.Effect.Blue
		binary.BigEndian.PutUint16(body[5:7], c.Effect.Rate)
		body[8] = c.Effect.Brightness
	case EffectColorCycle:
		binary.BigEndian.PutUint16(body[7:9], c.Effect.Rate)
		body[9] = c.Effect.Brightness
	}

	body[12] = byte(c.Profile)
	return body
}

// DecodeLightConfig parses a 13-byte light configuration body. Out-of-range
// discriminants indicate a desynchronized protocol stream and are fatal for
// the call.
func DecodeLightConfig(b []byte) (LightConfig, error) {
	if len(b) < lightConfigLen {
		return LightConfig{}, fmt.Errorf("g935: short light config body: %d bytes", len(b))
	}
	if b[0] > 1 {
		return LightConfig{}, fmt.Errorf("g935: light zone out of range: %d", b[0])
	}
	if b[1] > 3 {
		return LightConfig{}, fmt.Errorf("g935: light effect out of range: %d", b[1])
	}
	if b[12] != byte(ProfileTemporary) && b[12] != byte(ProfilePermanent) {
		return LightConfig{}, fmt.Errorf("g935: light profile type out of range: %d", b[12])
	}

	var effect Effect
	switch EffectKind(b[1]) {
	case EffectOff:
		effect = Off()
	case EffectStatic:
		effect = Static(b[2], b[3], b[4])
	case EffectBreathing:
		effect = Breathing(b[2], b[3], b[4], binary.BigEndian.Uint16(b[5:7]), b[8])
	case EffectColorCycle:
		effect = ColorCycle(binary.BigEndian.Uint16(b[7:9]), b[9])
	}

	return LightConfig{
		Light:   Light(b[0]),
		Effect:  effect,
		Profile: ProfileType(b[12]),
	}, nil
}
