package g935

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seagrayinc/g935-hidpp/internal/hid"
)

func TestConfigFieldStartsDirty(t *testing.T) {
	field := newConfigField(42)
	assert.True(t, field.Dirty())
	assert.Equal(t, 42, field.Get())
}

func TestConfigFieldSetMarksDirty(t *testing.T) {
	field := newConfigField(1)
	field.dirty = false

	field.Set(2)
	assert.True(t, field.Dirty())
	assert.Equal(t, 2, field.Get())
}

func TestSyncClearsDirtyOnSuccess(t *testing.T) {
	dev := hid.NewMockDevice()
	dev.OnWrite = echoReply
	headset := newTestHeadset(dev)

	cfg := NewConfig()
	require.NoError(t, cfg.sync(headset))

	assert.False(t, cfg.buttonHandler.Dirty())
	assert.False(t, cfg.sideLightEffect.Dirty())
	assert.False(t, cfg.logoLightEffect.Dirty())
}

func TestSyncKeepsDirtyOnFailure(t *testing.T) {
	dev := hid.NewMockDevice()
	dev.FailWhenDrained = true
	headset := newTestHeadset(dev)

	cfg := NewConfig()
	err := cfg.sync(headset)
	require.Error(t, err)

	// Every failed field keeps its flag so the next iteration retries.
	assert.True(t, cfg.buttonHandler.Dirty())
	assert.True(t, cfg.sideLightEffect.Dirty())
	assert.True(t, cfg.logoLightEffect.Dirty())

	dev.OnWrite = echoReply
	require.NoError(t, cfg.sync(headset))
	assert.False(t, cfg.sideLightEffect.Dirty())
}

func TestSyncAttemptsAllFieldsDespiteFailures(t *testing.T) {
	dev := hid.NewMockDevice()
	dev.FailWhenDrained = true
	headset := newTestHeadset(dev)

	cfg := NewConfig()
	require.Error(t, cfg.sync(headset))

	// One request per dirty device-backed field: buttons, side, logo.
	assert.Len(t, dev.Writes, 3)
}

func TestSyncOnlyPushesDirtyFields(t *testing.T) {
	dev := hid.NewMockDevice()
	dev.OnWrite = echoReply
	headset := newTestHeadset(dev)

	cfg := NewConfig()
	require.NoError(t, cfg.sync(headset))
	writes := len(dev.Writes)

	require.NoError(t, cfg.sync(headset))
	assert.Len(t, dev.Writes, writes, "clean config must not touch the device")

	cfg.SetLogoLightEffect(Static(1, 2, 3))
	require.NoError(t, cfg.sync(headset))
	assert.Len(t, dev.Writes, writes+1)
}

func TestMarkAllDirtyForcesFullRepush(t *testing.T) {
	dev := hid.NewMockDevice()
	dev.OnWrite = echoReply
	headset := newTestHeadset(dev)

	cfg := NewConfig()
	require.NoError(t, cfg.sync(headset))
	writes := len(dev.Writes)

	cfg.markAllDirty()
	require.NoError(t, cfg.sync(headset))
	assert.Len(t, dev.Writes, writes+3)
}

func TestHandlerSurvivesInvocation(t *testing.T) {
	dev := hid.NewMockDevice()
	dev.OnWrite = echoReply
	headset := newTestHeadset(dev)

	calls := 0
	cfg := NewConfig()
	cfg.SetButtonHandler(func(cfg *Config, h *Headset, state ButtonState) {
		calls++
	})
	require.NoError(t, cfg.sync(headset))

	cfg.callButtonHandler(headset, ButtonState{})
	cfg.callButtonHandler(headset, ButtonState{})

	assert.Equal(t, 2, calls, "handler must be retained across invocations")
	assert.False(t, cfg.buttonHandler.Dirty())
}

func TestHandlerReassignmentDuringInvocation(t *testing.T) {
	dev := hid.NewMockDevice()
	dev.OnWrite = echoReply
	headset := newTestHeadset(dev)

	var firstCalls, secondCalls int
	cfg := NewConfig()
	cfg.SetButtonHandler(func(cfg *Config, h *Headset, state ButtonState) {
		firstCalls++
		cfg.SetButtonHandler(func(cfg *Config, h *Headset, state ButtonState) {
			secondCalls++
		})
	})
	require.NoError(t, cfg.sync(headset))

	cfg.callButtonHandler(headset, ButtonState{})
	// The reassignment must win over restoring the original handler, and its
	// dirty bit must survive for the next sync.
	assert.True(t, cfg.buttonHandler.Dirty())

	cfg.callButtonHandler(headset, ButtonState{})
	assert.Equal(t, 1, firstCalls)
	assert.Equal(t, 1, secondCalls)
}

func TestPeriodicHandlerReassignment(t *testing.T) {
	dev := hid.NewMockDevice()
	headset := newTestHeadset(dev)

	calls := 0
	cfg := NewConfig()
	cfg.SetPeriodicHandler(func(cfg *Config, h *Headset) {
		calls++
	})

	cfg.callPeriodicHandler(headset)
	cfg.callPeriodicHandler(headset)
	assert.Equal(t, 2, calls)
}
