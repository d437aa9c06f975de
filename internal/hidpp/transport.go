// Package hidpp implements the feature-indexed HID++ 2.0 request/response
// protocol over a raw HID report channel.
package hidpp

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/seagrayinc/g935-hidpp/internal/hid"
)

const (
	// ReportIDLong is the HID++ long report ID.
	ReportIDLong = 0x11
	// DeviceIndexWired addresses the device directly rather than through a
	// receiver slot.
	DeviceIndexWired = 0xff
	// LongReportLen is the total length of a long report, header included.
	LongReportLen = 20

	// headerLen is the correlation header: report ID, device index, feature
	// index and function byte. A response belongs to a request iff these
	// four bytes match.
	headerLen = 4

	readBufLen = 1024
)

// ErrTimeout is returned when no correlated response arrives within the
// request deadline.
var ErrTimeout = errors.New("hidpp: request timed out")

// Transport serializes one request at a time over the device channel and
// buffers any unsolicited traffic read while waiting for the reply.
type Transport struct {
	dev hid.Device

	// ReadTimeout bounds a single blocking read.
	ReadTimeout time.Duration
	// RequestDeadline bounds the total time spent waiting for a correlated
	// response across repeated reads.
	RequestDeadline time.Duration

	queue [][]byte
}

func NewTransport(dev hid.Device) *Transport {
	return &Transport{
		dev:             dev,
		ReadTimeout:     500 * time.Millisecond,
		RequestDeadline: 2 * time.Second,
	}
}

func (t *Transport) write(frame []byte) error {
	slog.Debug("writing frame", slog.String("bytes", EncodeFrameToString(frame)))

	_, err := t.dev.Write(frame)
	if err != nil {
		return fmt.Errorf("hid write: %w", err)
	}
	return nil
}

// read performs one bounded read. A nil, nil result means the read timed out
// without data.
func (t *Transport) read(timeout time.Duration) ([]byte, error) {
	buf := make([]byte, readBufLen)

	n, err := t.dev.ReadTimeout(buf, timeout)
	if err != nil {
		return nil, fmt.Errorf("hid read: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	frame := buf[:n]
	slog.Debug("read frame", slog.String("bytes", EncodeFrameToString(frame)))
	return frame, nil
}

// Request writes frame and reads until a response carrying the same
// correlation header arrives. Frames read in the meantime are queued for
// NextUnsolicited rather than discarded. ErrTimeout is returned when the
// overall deadline elapses first.
func (t *Transport) Request(frame []byte) ([]byte, error) {
	if err := t.write(frame); err != nil {
		return nil, err
	}

	start := time.Now()
	for {
		resp, err := t.read(t.ReadTimeout)
		if err != nil {
			return nil, err
		}

		switch {
		case len(resp) == 0:
			// Timed out on this read slice; keep waiting for the reply
			// until the overall deadline.
		case len(resp) >= headerLen && string(resp[:headerLen]) == string(frame[:headerLen]):
			return resp, nil
		default:
			slog.Debug("buffering unrequested message for later",
				slog.String("bytes", EncodeFrameToString(resp)))
			t.queue = append(t.queue, resp)
		}

		if time.Since(start) > t.RequestDeadline {
			return nil, ErrTimeout
		}
	}
}

// NextUnsolicited returns the next message that arrived outside a
// request/response exchange. Buffered messages are drained in arrival order
// before any fresh read; otherwise a single read bounded by timeout is
// performed. A nil message with a nil error means nothing arrived in time.
func (t *Transport) NextUnsolicited(timeout time.Duration) ([]byte, error) {
	if len(t.queue) > 0 {
		msg := t.queue[0]
		t.queue = t.queue[1:]

		slog.Debug("returning an unrequested message from the buffer")
		return msg, nil
	}

	return t.read(timeout)
}

// EncodeFrameToString renders a frame as dash-separated hex octets for logs.
func EncodeFrameToString(b []byte) string {
	hexDigits := hex.EncodeToString(b)
	var builder strings.Builder
	for i, r := range hexDigits {
		if i > 0 && i%2 == 0 {
			builder.WriteString("-")
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
