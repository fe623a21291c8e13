package device

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUUID(t *testing.T) {
	assert.Equal(t, "00002a1900001000800000805f9b34fb", NormalizeUUID("00002A19-0000-1000-8000-00805F9B34FB"))
	assert.Equal(t, "2a19", NormalizeUUID("2A19"))
}

func TestNotFoundErrorMessages(t *testing.T) {
	svc := &NotFoundError{Resource: "service", UUIDs: []string{"180D"}}
	assert.Equal(t, `service "180D" not found`, svc.Error())

	char := &NotFoundError{Resource: "characteristic", UUIDs: []string{"180D", "2A37"}}
	assert.Equal(t, `characteristic "2A37" not found in service "180D"`, char.Error())

	desc := &NotFoundError{Resource: "descriptor", UUIDs: []string{"2A37", "2902"}}
	assert.Equal(t, `descriptor "2902" not found in characteristic "2A37"`, desc.Error())

	empty := &NotFoundError{Resource: "service"}
	assert.Equal(t, "service not found", empty.Error())
}

func TestConnectionErrorIs(t *testing.T) {
	err := &ConnectionError{State: NotConnected, Msg: "dropped mid-read"}
	assert.True(t, errors.Is(err, ErrNotConnected))
	assert.False(t, errors.Is(err, ErrAlreadyConnected))
	assert.Equal(t, "not_connected: dropped mid-read", err.Error())
}

func TestIsConnectionState(t *testing.T) {
	err := &ConnectionError{State: AlreadyConnected}
	assert.True(t, IsConnectionState(err, AlreadyConnected))
	assert.False(t, IsConnectionState(err, NotConnected))
	assert.False(t, IsConnectionState(errors.New("boom"), NotConnected))
}
