package hidpp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seagrayinc/g935-hidpp/internal/hid"
)

func testRequestFrame(feature, function byte) []byte {
	frame := make([]byte, LongReportLen)
	frame[0] = ReportIDLong
	frame[1] = DeviceIndexWired
	frame[2] = feature
	frame[3] = function
	return frame
}

func matchingResponse(req []byte) []byte {
	resp := make([]byte, LongReportLen)
	copy(resp, req[:headerLen])
	return resp
}

func TestRequestReturnsCorrelatedResponse(t *testing.T) {
	dev := hid.NewMockDevice()
	req := testRequestFrame(0x03, 0x01)
	resp := matchingResponse(req)
	resp[4] = 0x09
	dev.QueueRead(resp)

	tr := NewTransport(dev)

	got, err := tr.Request(req)
	require.NoError(t, err)
	assert.Equal(t, resp, got)
	assert.Equal(t, [][]byte{req}, dev.Writes)
}

func TestRequestBuffersUnsolicitedTraffic(t *testing.T) {
	dev := hid.NewMockDevice()
	req := testRequestFrame(0x03, 0x01)

	// A response never correlates unless its first four bytes match the
	// request; everything else must survive for later consumption.
	mismatched := matchingResponse(req)
	mismatched[3] = 0x21
	first := []byte{0x08, 0x10}
	second := []byte{0x08, 0x01}
	resp := matchingResponse(req)
	dev.QueueRead(first, mismatched, second, resp)

	tr := NewTransport(dev)

	got, err := tr.Request(req)
	require.NoError(t, err)
	assert.Equal(t, resp, got)

	for _, want := range [][]byte{first, mismatched, second} {
		msg, err := tr.NextUnsolicited(time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, want, msg)
	}
}

func TestNextUnsolicitedPrefersBufferOverFreshReads(t *testing.T) {
	dev := hid.NewMockDevice()
	req := testRequestFrame(0x03, 0x01)
	buffered := []byte{0x08, 0x20}
	fresh := []byte{0x08, 0x01}
	dev.QueueRead(buffered, matchingResponse(req))

	tr := NewTransport(dev)
	_, err := tr.Request(req)
	require.NoError(t, err)

	// The fresh frame sits in the device, but the buffered one is older and
	// must come out first.
	dev.QueueRead(fresh)

	msg, err := tr.NextUnsolicited(time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, buffered, msg)

	msg, err = tr.NextUnsolicited(time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, fresh, msg)
}

func TestNextUnsolicitedTimesOutEmpty(t *testing.T) {
	dev := hid.NewMockDevice()
	tr := NewTransport(dev)

	msg, err := tr.NextUnsolicited(time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, msg)
}

func TestRequestDeadlineSurfacesTimeout(t *testing.T) {
	dev := hid.NewMockDevice()

	tr := NewTransport(dev)
	tr.RequestDeadline = 0

	_, err := tr.Request(testRequestFrame(0x03, 0x01))
	require.ErrorIs(t, err, ErrTimeout)
}

func TestRequestPropagatesReadErrors(t *testing.T) {
	dev := hid.NewMockDevice()
	dev.FailWhenDrained = true

	tr := NewTransport(dev)

	_, err := tr.Request(testRequestFrame(0x03, 0x01))
	require.ErrorIs(t, err, hid.ErrMockClosed)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestEncodeFrameToString(t *testing.T) {
	assert.Equal(t, "11-ff-05", EncodeFrameToString([]byte{0x11, 0xff, 0x05}))
	assert.Equal(t, "", EncodeFrameToString(nil))
}
