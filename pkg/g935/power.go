package g935

// PowerState is the wireless link state of the headset, derived from battery
// feature push notifications.
type PowerState uint8

const (
	// Connected means the headset is powered on and linked.
	Connected PowerState = iota
	// Disconnected means the headset turned off or went out of range.
	Disconnected
)

func (s PowerState) String() string {
	if s == Disconnected {
		return "disconnected"
	}
	return "connected"
}
