package g935

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLightConfigRoundTrip(t *testing.T) {
	effects := []Effect{
		Off(),
		Static(0x10, 0x20, 0x30),
		Breathing(0xff, 0x00, 0x80, 0x2710, 0x64),
		ColorCycle(0x1388, 0x32),
	}

	for _, light := range []Light{LightLogo, LightSide} {
		for _, profile := range []ProfileType{ProfileTemporary, ProfilePermanent} {
			for _, effect := range effects {
				cfg := LightConfig{Light: light, Effect: effect, Profile: profile}

				got, err := DecodeLightConfig(cfg.Encode())
				require.NoError(t, err)
				assert.Equal(t, cfg, got)
			}
		}
	}
}

func TestLightConfigEncodeLayout(t *testing.T) {
	body := LightConfig{
		Light:   LightSide,
		Effect:  Breathing(0x01, 0x02, 0x03, 0x1234, 0x55),
		Profile: ProfilePermanent,
	}.Encode()

	require.Len(t, body, 13)
	assert.Equal(t, []byte{0x01, 0x02, 0x01, 0x02, 0x03, 0x12, 0x34, 0x00, 0x55, 0x00, 0x00, 0x00, 0x02}, body)
}

func TestLightConfigEncodeColorCycleLayout(t *testing.T) {
	body := LightConfig{
		Light:  LightLogo,
		Effect: ColorCycle(0x1234, 0x55),
	}.Encode()

	// ColorCycle carries its rate two bytes later than Breathing does.
	assert.Equal(t, []byte{0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x12, 0x34, 0x55, 0x00, 0x00, 0x00}, body)
}

func TestDecodeLightConfigRejectsBadDiscriminants(t *testing.T) {
	valid := LightConfig{Light: LightLogo, Effect: Off()}.Encode()

	cases := map[string]func([]byte){
		"light zone":   func(b []byte) { b[0] = 0x02 },
		"effect kind":  func(b []byte) { b[1] = 0x04 },
		"profile type": func(b []byte) { b[12] = 0x01 },
	}

	for name, corrupt := range cases {
		body := append([]byte(nil), valid...)
		corrupt(body)

		_, err := DecodeLightConfig(body)
		require.Error(t, err, name)
	}
}

func TestDecodeLightConfigRejectsShortBody(t *testing.T) {
	_, err := DecodeLightConfig(make([]byte, 12))
	require.Error(t, err)
}
