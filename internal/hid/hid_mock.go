package hid

import (
	"errors"
	"time"
)

// ErrMockClosed is returned by MockDevice reads once the scripted input is
// exhausted and FailWhenDrained is set.
var ErrMockClosed = errors.New("hid: mock device closed")

// MockDevice is an in-memory Device for tests. Reads are served from a
// scripted queue; a zero-length entry simulates a read timeout. OnWrite, when
// set, computes reply frames that are appended to the queue after each write.
type MockDevice struct {
	Writes          [][]byte
	OnWrite         func(frame []byte) [][]byte
	FailWhenDrained bool

	reads [][]byte
}

func NewMockDevice() *MockDevice {
	return &MockDevice{}
}

// QueueRead appends frames to the scripted input. Queue an empty frame to
// simulate one timed-out read.
func (m *MockDevice) QueueRead(frames ...[]byte) {
	m.reads = append(m.reads, frames...)
}

func (m *MockDevice) Write(p []byte) (int, error) {
	frame := append([]byte(nil), p...)
	m.Writes = append(m.Writes, frame)
	if m.OnWrite != nil {
		m.reads = append(m.reads, m.OnWrite(frame)...)
	}
	return len(p), nil
}

func (m *MockDevice) ReadTimeout(p []byte, _ time.Duration) (int, error) {
	if len(m.reads) == 0 {
		if m.FailWhenDrained {
			return 0, ErrMockClosed
		}
		return 0, nil
	}
	frame := m.reads[0]
	m.reads = m.reads[1:]
	return copy(p, frame), nil
}

func (m *MockDevice) Close() error { return nil }
