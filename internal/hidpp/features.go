package hidpp

import (
	"fmt"
	"log/slog"
)

// Well-known feature IDs for the G935.
const (
	FeatureIDRoot       uint16 = 0x0000
	FeatureIDBattery    uint16 = 0x1f20
	FeatureIDDeviceName uint16 = 0x0005
	FeatureIDGKeys      uint16 = 0x8010
	FeatureIDLights     uint16 = 0x8070
)

const maxRequestBodyLen = LongReportLen - 3

// Feature is a device-assigned index for one capability group, valid for the
// lifetime of a single connection.
type Feature struct {
	Index uint8
}

// Request sends body through this feature and returns the raw response. The
// body is placed after the report ID, device index and feature index, and the
// frame is zero-padded to the long report length.
func (f Feature) Request(t *Transport, body []byte) ([]byte, error) {
	if len(body) > maxRequestBodyLen {
		return nil, fmt.Errorf("hidpp: feature request body too large: %d bytes", len(body))
	}

	frame := make([]byte, LongReportLen)
	frame[0] = ReportIDLong
	frame[1] = DeviceIndexWired
	frame[2] = f.Index
	copy(frame[3:], body)

	return t.Request(frame)
}

// FeatureMap holds the resolved feature indices of one connection.
type FeatureMap struct {
	Root       Feature
	Battery    Feature
	DeviceName Feature
	GKeys      Feature
	Lights     Feature
}

// ResolveFeatures looks up every required feature through the root feature.
// The root feature is index 0 by protocol convention. Any resolution failure
// aborts the whole batch.
func ResolveFeatures(t *Transport) (*FeatureMap, error) {
	fm := &FeatureMap{Root: Feature{Index: 0}}

	table := []struct {
		name string
		id   uint16
		dst  *Feature
	}{
		{"battery", FeatureIDBattery, &fm.Battery},
		{"devname", FeatureIDDeviceName, &fm.DeviceName},
		{"gkeys", FeatureIDGKeys, &fm.GKeys},
		{"lights", FeatureIDLights, &fm.Lights},
	}

	for _, ent := range table {
		f, err := resolveFeature(t, fm.Root, ent.id)
		if err != nil {
			return nil, fmt.Errorf("resolve feature %s: %w", ent.name, err)
		}
		if f.Index == 0 {
			// The device answers unsupported IDs with index 0, which aliases
			// the root feature. Later operations on it will misbehave.
			slog.Warn("device resolved feature to the root index; feature is likely unsupported",
				slog.String("feature", ent.name), slog.Int("id", int(ent.id)))
		}
		*ent.dst = f

		slog.Debug("resolved feature",
			slog.String("feature", ent.name), slog.Int("index", int(f.Index)))
	}

	return fm, nil
}

func resolveFeature(t *Transport, root Feature, id uint16) (Feature, error) {
	resp, err := root.Request(t, []byte{0x01, byte(id >> 8), byte(id)})
	if err != nil {
		return Feature{}, err
	}
	if len(resp) < 5 {
		return Feature{}, fmt.Errorf("hidpp: short feature resolution response: %d bytes", len(resp))
	}

	return Feature{Index: resp[4]}, nil
}
