package g935

import (
	"errors"
	"fmt"
)

// ConfigField wraps a desired-state value with a dirty flag. A fresh field is
// dirty so the first reconciliation pushes the initial state to the device.
type ConfigField[T any] struct {
	val   T
	dirty bool
}

func newConfigField[T any](val T) ConfigField[T] {
	return ConfigField[T]{val: val, dirty: true}
}

// Set replaces the value and marks the field for synchronization.
func (f *ConfigField[T]) Set(val T) {
	f.val = val
	f.MarkDirty()
}

// Get returns the current value.
func (f *ConfigField[T]) Get() T {
	return f.val
}

// MarkDirty flags the field for re-application to the device.
func (f *ConfigField[T]) MarkDirty() {
	f.dirty = true
}

// Dirty reports whether the field needs synchronization.
func (f *ConfigField[T]) Dirty() bool {
	return f.dirty
}

// ButtonHandler reacts to a new button state snapshot. Handlers may mutate
// the configuration and issue further device requests.
type ButtonHandler func(cfg *Config, h *Headset, state ButtonState)

// PowerStateHandler reacts to a power state transition.
type PowerStateHandler func(cfg *Config, h *Headset, state PowerState)

// PeriodicHandler runs once per event loop iteration.
type PeriodicHandler func(cfg *Config, h *Headset)

// Config is the desired headset state, reconciled lazily against the device.
type Config struct {
	buttonHandler     ConfigField[ButtonHandler]
	powerStateHandler ConfigField[PowerStateHandler]
	periodicHandler   ConfigField[PeriodicHandler]
	sideLightEffect   ConfigField[Effect]
	logoLightEffect   ConfigField[Effect]
}

// NewConfig returns a configuration with every field dirty, so the first
// sync pushes a complete state to the device.
func NewConfig() *Config {
	return &Config{
		buttonHandler:     newConfigField[ButtonHandler](nil),
		powerStateHandler: newConfigField[PowerStateHandler](nil),
		periodicHandler:   newConfigField[PeriodicHandler](nil),
		sideLightEffect:   newConfigField(Off()),
		logoLightEffect:   newConfigField(Off()),
	}
}

// SetButtonHandler installs (or with nil removes) the button handler. The
// button reporting feature is enabled on the device iff a handler is set.
func (c *Config) SetButtonHandler(h ButtonHandler) {
	c.buttonHandler.Set(h)
}

// SetPowerStateHandler installs (or with nil removes) the power state
// handler.
func (c *Config) SetPowerStateHandler(h PowerStateHandler) {
	c.powerStateHandler.Set(h)
}

// SetPeriodicHandler installs (or with nil removes) the periodic handler.
func (c *Config) SetPeriodicHandler(h PeriodicHandler) {
	c.periodicHandler.Set(h)
}

// SetSideLightEffect sets the effect for the side lights.
func (c *Config) SetSideLightEffect(e Effect) {
	c.sideLightEffect.Set(e)
}

// SetLogoLightEffect sets the effect for the logo light.
func (c *Config) SetLogoLightEffect(e Effect) {
	c.logoLightEffect.Set(e)
}

// sync pushes every dirty field to the device. A field's flag is cleared
// only when its own push succeeds; failures are collected and do not stop
// the remaining fields from being attempted.
func (c *Config) sync(h *Headset) error {
	var errs []error

	if c.buttonHandler.Dirty() {
		if err := h.enableButtons(c.buttonHandler.Get() != nil); err != nil {
			errs = append(errs, fmt.Errorf("sync button reporting: %w", err))
		} else {
			c.buttonHandler.dirty = false
		}
	}

	if c.powerStateHandler.Dirty() {
		// No device state backs the power state handler.
		c.powerStateHandler.dirty = false
	}

	if c.sideLightEffect.Dirty() {
		_, err := h.SetLights(LightConfig{
			Light:   LightSide,
			Effect:  c.sideLightEffect.Get(),
			Profile: ProfileTemporary,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("sync side lights: %w", err))
		} else {
			c.sideLightEffect.dirty = false
		}
	}

	if c.logoLightEffect.Dirty() {
		_, err := h.SetLights(LightConfig{
			Light:   LightLogo,
			Effect:  c.logoLightEffect.Get(),
			Profile: ProfileTemporary,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("sync logo lights: %w", err))
		} else {
			c.logoLightEffect.dirty = false
		}
	}

	return errors.Join(errs...)
}

// markAllDirty forces a full re-push of every field. The device forgets its
// configuration across sleep and power cycles.
func (c *Config) markAllDirty() {
	c.buttonHandler.MarkDirty()
	c.powerStateHandler.MarkDirty()
	c.periodicHandler.MarkDirty()
	c.sideLightEffect.MarkDirty()
	c.logoLightEffect.MarkDirty()
}

// callButtonHandler invokes the button handler if one is set. The field's
// dirty flag is cleared before the call so a reassignment made by the
// handler itself is detectable; without one, the original handler is kept.
func (c *Config) callButtonHandler(h *Headset, state ButtonState) {
	handler := c.buttonHandler.Get()
	if handler == nil {
		return
	}
	c.buttonHandler.val = nil
	c.buttonHandler.dirty = false

	handler(c, h, state)

	if !c.buttonHandler.dirty {
		c.buttonHandler.val = handler
	}
}

// callPowerStateHandler invokes the power state handler if one is set, with
// the same reassignment semantics as callButtonHandler.
func (c *Config) callPowerStateHandler(h *Headset, state PowerState) {
	handler := c.powerStateHandler.Get()
	if handler == nil {
		return
	}
	c.powerStateHandler.val = nil
	c.powerStateHandler.dirty = false

	handler(c, h, state)

	if !c.powerStateHandler.dirty {
		c.powerStateHandler.val = handler
	}
}

// callPeriodicHandler invokes the periodic handler if one is set, with the
// same reassignment semantics as callButtonHandler.
func (c *Config) callPeriodicHandler(h *Headset) {
	handler := c.periodicHandler.Get()
	if handler == nil {
		return
	}
	c.periodicHandler.val = nil
	c.periodicHandler.dirty = false

	handler(c, h)

	if !c.periodicHandler.dirty {
		c.periodicHandler.val = handler
	}
}
