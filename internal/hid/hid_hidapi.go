//go:build cgo

package hid

import (
	"time"

	hidapi "github.com/sstallion/go-hid"
)

type hidapiManager struct{}

func newManager() (Manager, error) {
	if err := hidapi.Init(); err != nil {
		return nil, err
	}
	return &hidapiManager{}, nil
}

func (m *hidapiManager) List() ([]Info, error) {
	var out []Info
	err := hidapi.Enumerate(hidapi.VendorIDAny, hidapi.ProductIDAny, func(info *hidapi.DeviceInfo) error {
		out = append(out, Info{
			Path:         info.Path,
			VendorID:     info.VendorID,
			ProductID:    info.ProductID,
			Product:      info.ProductStr,
			Manufacturer: info.MfrStr,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *hidapiManager) OpenVIDPID(vendorID, productID uint16) (Device, error) {
	d, err := hidapi.OpenFirst(vendorID, productID)
	if err != nil {
		return nil, err
	}
	return &hidapiDevice{d}, nil
}

func (m *hidapiManager) Close() error {
	return hidapi.Exit()
}

type hidapiDevice struct{ d *hidapi.Device }

func (d *hidapiDevice) Write(p []byte) (int, error) {
	return d.d.Write(p)
}

func (d *hidapiDevice) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	return d.d.ReadWithTimeout(p, timeout)
}

func (d *hidapiDevice) Close() error {
	return d.d.Close()
}
