package hid

import "time"

// Device represents an opened HID device capable of report I/O.
type Device interface {
	Write([]byte) (int, error)                      // send output report
	ReadTimeout([]byte, time.Duration) (int, error) // read input report; returns 0 bytes on timeout
	Close() error
}

// Info represents a HID device descriptor.
type Info struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Product      string
	Manufacturer string
}

// Manager enumerates and opens HID devices.
type Manager interface {
	List() ([]Info, error)
	OpenVIDPID(vendorID, productID uint16) (Device, error)
	Close() error
}

// NewManager returns the hidapi-backed HID manager.
func NewManager() (Manager, error) {
	return newManager()
}
