// Package g935 provides programmatic access to the Logitech G935 wireless
// headset over its HID++ channel: battery telemetry, G-key buttons, light
// effects and the long-running event loop that dispatches device
// notifications.
package g935

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/seagrayinc/g935-hidpp/internal/hid"
	"github.com/seagrayinc/g935-hidpp/internal/hidpp"
)

// VID/PID of the G935 wireless receiver.
const (
	LogitechVID uint16 = 0x046d
	G935PID     uint16 = 0x0a87
)

const (
	pollTimeout = 500 * time.Millisecond
	// After this much consecutive idle time the configuration is re-pushed
	// unconditionally, in case the device dropped it across a host sleep
	// without announcing a reconnect.
	idleRepushAfter = 20 * time.Second
)

// Headset is an open connection to the headset. It owns the device channel
// exclusively; all methods are synchronous and must be called from a single
// goroutine.
type Headset struct {
	transport *hidpp.Transport
	features  *hidpp.FeatureMap

	// idleRepushPolls is the idle poll count that triggers a configuration
	// re-push.
	idleRepushPolls int
}

// Open connects to the first G935 receiver found, resolves the feature map
// and verifies the protocol version.
func Open() (*Headset, error) {
	mgr, err := hid.NewManager()
	if err != nil {
		return nil, fmt.Errorf("init hid: %w", err)
	}

	dev, err := mgr.OpenVIDPID(LogitechVID, G935PID)
	if err != nil {
		return nil, fmt.Errorf("open headset: %w", err)
	}

	return open(dev)
}

func open(dev hid.Device) (*Headset, error) {
	transport := hidpp.NewTransport(dev)

	features, err := hidpp.ResolveFeatures(transport)
	if err != nil {
		return nil, err
	}

	h := &Headset{
		transport:       transport,
		features:        features,
		idleRepushPolls: int(idleRepushAfter / pollTimeout),
	}

	major, minor, err := h.protocolVersion()
	if err != nil {
		return nil, fmt.Errorf("read protocol version: %w", err)
	}
	if major != 4 || minor != 2 {
		slog.Warn("untested protocol version; this code was validated against 4.2",
			slog.Int("major", int(major)), slog.Int("minor", int(minor)))
	} else {
		slog.Debug("found protocol version 4.2")
	}

	name, err := h.DeviceName()
	if err != nil {
		return nil, fmt.Errorf("read device name: %w", err)
	}
	slog.Info("connected to device", slog.String("name", name))

	return h, nil
}

// protocolVersion pings the root feature and returns the negotiated HID++
// version. A mismatched echo byte is logged but not fatal.
func (h *Headset) protocolVersion() (major, minor uint8, err error) {
	const echo = 0xaf

	resp, err := h.features.Root.Request(h.transport, []byte{0x11, 0x00, 0x00, echo})
	if err != nil {
		return 0, 0, err
	}
	if len(resp) < 7 {
		return 0, 0, fmt.Errorf("g935: short protocol version response: %d bytes", len(resp))
	}
	if resp[6] != echo {
		slog.Error("ping response did not match the request",
			slog.Int("echo", int(resp[6])))
	}

	return resp[4], resp[5], nil
}

// DeviceName reads the marketing name of the headset, assembled from 16-byte
// chunks.
func (h *Headset) DeviceName() (string, error) {
	resp, err := h.features.DeviceName.Request(h.transport, []byte{0x01})
	if err != nil {
		return "", err
	}
	if len(resp) < 5 {
		return "", fmt.Errorf("g935: short device name length response: %d bytes", len(resp))
	}
	length := int(resp[4])

	var name strings.Builder
	for i := 0; name.Len() < length; i++ {
		resp, err := h.features.DeviceName.Request(h.transport, []byte{0x11, byte(i)})
		if err != nil {
			return "", err
		}

		rest := length - name.Len()
		if rest > 16 {
			rest = 16
		}
		if len(resp) < 4+rest {
			return "", fmt.Errorf("g935: short device name chunk response: %d bytes", len(resp))
		}
		name.Write(resp[4 : 4+rest])
	}

	if !utf8.ValidString(name.String()) {
		return "", fmt.Errorf("g935: device name is not valid utf-8")
	}
	return name.String(), nil
}

// GetBatteryStatus reads the current battery voltage, charging status and
// estimated charge level.
func (h *Headset) GetBatteryStatus() (BatteryStatus, error) {
	resp, err := h.features.Battery.Request(h.transport, []byte{0x01})
	if err != nil {
		return BatteryStatus{}, err
	}
	if len(resp) < 4 {
		return BatteryStatus{}, fmt.Errorf("g935: short battery response: %d bytes", len(resp))
	}
	return decodeBatteryStatus(resp[4:])
}

// SetLights applies a light configuration and returns the configuration the
// device acknowledged.
func (h *Headset) SetLights(cfg LightConfig) (LightConfig, error) {
	slog.Debug("setting lights",
		slog.Int("light", int(cfg.Light)), slog.Int("effect", int(cfg.Effect.Kind)))

	body := append([]byte{0x31}, cfg.Encode()...)

	resp, err := h.features.Lights.Request(h.transport, body)
	if err != nil {
		return LightConfig{}, err
	}
	if len(resp) < 4 {
		return LightConfig{}, fmt.Errorf("g935: short lights response: %d bytes", len(resp))
	}
	return DecodeLightConfig(resp[4:])
}

// enableButtons switches G-key reporting on or off. With reporting off the
// keys fall back to their default media functions.
func (h *Headset) enableButtons(enable bool) error {
	slog.Debug("setting button reporting", slog.Bool("enable", enable))

	var flag byte
	if enable {
		flag = 1
	}

	resp, err := h.features.GKeys.Request(h.transport, []byte{0x21, flag})
	if err != nil {
		return err
	}
	if len(resp) >= 5 && resp[4] != flag {
		slog.Error("enable buttons response did not match the request",
			slog.Int("expected", int(flag)), slog.Int("found", int(resp[4])))
	}

	return nil
}

// Run polls the device for notifications and dispatches them to the handlers
// in cfg, re-synchronizing the configuration after every iteration. It only
// returns when the device channel fails fatally.
func (h *Headset) Run(cfg *Config) error {
	if err := cfg.sync(h); err != nil {
		slog.Error("initial config synchronization failed", slog.Any("error", err))
	}

	var buttonState ButtonState
	idlePolls := 0

	for {
		msg, err := h.transport.NextUnsolicited(pollTimeout)
		if err != nil {
			return fmt.Errorf("g935: device channel lost: %w", err)
		}

		switch {
		case len(msg) == 0:
			// Poll timed out. Re-push the configuration periodically to
			// survive host sleeps the device never announces.
			idlePolls++
			if idlePolls > h.idleRepushPolls {
				idlePolls = 0
				h.repushConfig(cfg)
			}

		case len(msg) == 2 && msg[0] == 0x08 && (msg[1] == 0x10 || msg[1] == 0x20):
			buttonState.MicArm = decodeMicArm(msg)
			slog.Debug("mic arm state changed", slog.String("state", buttonState.MicArm.String()))

			cfg.callButtonHandler(h, buttonState)

		case len(msg) == 2 && msg[0] == 0x08 && msg[1] == 0x01:
			slog.Debug("mute button pressed")

			muted := buttonState
			muted.MuteButton = true
			cfg.callButtonHandler(h, muted)

		case h.isFeaturePush(msg, h.features.GKeys):
			buttonState.Buttons = decodeButtons(msg)
			slog.Debug("button state changed",
				slog.Bool("g1", buttonState.Buttons.G1),
				slog.Bool("g2", buttonState.Buttons.G2),
				slog.Bool("g3", buttonState.Buttons.G3))

			cfg.callButtonHandler(h, buttonState)

		case len(msg) == 5 && msg[0] == 0x01 && msg[2] == 0x00 && msg[3] == 0x00 && msg[4] == 0x00:
			buttonState.Wheel = decodeWheel(msg)
			slog.Debug("wheel state changed",
				slog.Bool("up", buttonState.Wheel.Up),
				slog.Bool("down", buttonState.Wheel.Down))

			cfg.callButtonHandler(h, buttonState)

		case h.isFeaturePush(msg, h.features.Battery):
			var powerState PowerState
			if allZero(msg[4:]) {
				powerState = Disconnected
			} else {
				// The device loses its configuration while powered off and
				// needs a full re-sync after reconnecting.
				cfg.markAllDirty()
				powerState = Connected
			}
			slog.Debug("power state changed", slog.String("state", powerState.String()))

			cfg.callPowerStateHandler(h, powerState)

		default:
			slog.Info("unhandled message from device",
				slog.String("bytes", hidpp.EncodeFrameToString(msg)))
		}

		cfg.callPeriodicHandler(h)

		if err := cfg.sync(h); err != nil {
			slog.Error("config re-synchronization failed", slog.Any("error", err))
		}
	}
}

// isFeaturePush reports whether msg is an unsolicited notification from the
// given feature.
func (h *Headset) isFeaturePush(msg []byte, f hidpp.Feature) bool {
	return len(msg) >= 5 &&
		msg[0] == hidpp.ReportIDLong &&
		msg[1] == hidpp.DeviceIndexWired &&
		msg[2] == f.Index &&
		msg[3] == 0x00
}

// repushConfig force-applies button reporting and both light effects,
// best-effort. Errors are logged; the dirty flags are untouched.
func (h *Headset) repushConfig(cfg *Config) {
	if err := h.enableButtons(cfg.buttonHandler.Get() != nil); err != nil {
		slog.Warn("periodic button reporting re-push failed", slog.Any("error", err))
	}

	for _, lc := range []LightConfig{
		{Light: LightSide, Effect: cfg.sideLightEffect.Get(), Profile: ProfileTemporary},
		{Light: LightLogo, Effect: cfg.logoLightEffect.Get(), Profile: ProfileTemporary},
	} {
		if _, err := h.SetLights(lc); err != nil {
			slog.Warn("periodic light re-push failed", slog.Any("error", err))
		}
	}
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0x00 {
			return false
		}
	}
	return true
}
