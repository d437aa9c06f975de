//go:build !cgo

package hid

import "errors"

func newManager() (Manager, error) {
	return nil, errors.New("hid: hidapi backend requires cgo")
}
