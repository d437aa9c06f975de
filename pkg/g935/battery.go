package g935

import (
	"encoding/binary"
	"fmt"
	"log/slog"
)

// ChargingStatus reports what the battery is currently doing.
type ChargingStatus uint8

const (
	Discharging ChargingStatus = iota
	Charging
	Full
)

func (s ChargingStatus) String() string {
	switch s {
	case Discharging:
		return "discharging"
	case Charging:
		return "charging"
	case Full:
		return "full"
	}
	return fmt.Sprintf("unknown charging status %d", uint8(s))
}

// BatteryStatus is one battery telemetry sample.
type BatteryStatus struct {
	// Voltage is the battery voltage in millivolts.
	Voltage uint16
	// Status is the charging status.
	Status ChargingStatus
	// Charge is the estimated charge percentage, 0-100.
	Charge float64
}

// EstimateChargeLevel converts a battery voltage in millivolts to a charge
// percentage. The curve is a calibration fit for the G633/G933/G935 battery
// and must not be altered: linear below 3525 mV, clamped above 4030 mV and a
// quartic in between.
func EstimateChargeLevel(voltage uint16) float64 {
	v := float64(voltage)

	switch {
	case voltage <= 3525:
		return 0.03*v - 101.0
	case voltage > 4030:
		return 100.0
	default:
		return 0.0000000037268473*v*v*v*v -
			0.000056056262*v*v*v +
			0.3156052*v*v -
			788.09375*v +
			736315.3
	}
}

// decodeBatteryStatus decodes the battery feature payload: big-endian
// millivolts followed by the charging status byte. Unknown status bytes are
// logged and treated as discharging.
func decodeBatteryStatus(b []byte) (BatteryStatus, error) {
	if len(b) < 3 {
		return BatteryStatus{}, fmt.Errorf("g935: short battery payload: %d bytes", len(b))
	}

	var status ChargingStatus
	switch b[2] {
	case 1:
		status = Discharging
	case 3:
		status = Charging
	case 7:
		status = Full
	default:
		slog.Warn("unknown charging status, defaulting to discharging",
			slog.Int("status", int(b[2])))
		status = Discharging
	}

	voltage := binary.BigEndian.Uint16(b[0:2])

	return BatteryStatus{
		Voltage: voltage,
		Status:  status,
		Charge:  EstimateChargeLevel(voltage),
	}, nil
}
