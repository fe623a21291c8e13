// Package device describes the minimal async transport contract
// (spec §6.4) the codec core's consumers are expected to provide. The
// core never talks to a real BLE radio; it hands parsed bytes to and
// from whatever Port implementation the caller wires up.
//
// Grounded on
// _examples/srgg-blecli/internal/device/device.go's Connection /
// Characteristic / Descriptor / Service interface family, generalized
// from those CLI-shaped abstractions (subscription streaming modes,
// KnownName lookups baked into the device layer) down to the narrower
// contract §6.4 actually asks of a transport: connect, disconnect,
// characteristic/descriptor read-write, notify, service discovery,
// pairing, RSSI, MTU, and a disconnect callback.
package device

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// NormalizeUUID converts a UUID string to the lowercase, no-dashes form
// a Port implementation keys its internal lookups by.
func NormalizeUUID(uuid string) string {
	return strings.ToLower(strings.ReplaceAll(uuid, "-", ""))
}

// NotFoundError reports a missing GATT resource, same shape as the
// teacher's device.NotFoundError.
type NotFoundError struct {
	Resource string
	UUIDs    []string
}

func (e *NotFoundError) Error() string {
	if len(e.UUIDs) == 0 {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	if len(e.UUIDs) == 1 {
		return fmt.Sprintf("%s %q not found", e.Resource, e.UUIDs[0])
	}
	parent := "service"
	if e.Resource == "descriptor" {
		parent = "characteristic"
	}
	return fmt.Sprintf("%s %q not found in %s %q", e.Resource, e.UUIDs[len(e.UUIDs)-1], parent, e.UUIDs[0])
}

// ConnectionState is the specific kind of connection-state failure.
type ConnectionState string

const (
	NotConnected     ConnectionState = "not_connected"
	AlreadyConnected ConnectionState = "already_connected"
	NotInitialized   ConnectionState = "not_initialized"
)

// ConnectionError wraps a connection-state failure.
type ConnectionError struct {
	State ConnectionState
	Msg   string
}

func (e *ConnectionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.State)
	}
	return fmt.Sprintf("%s: %s", e.State, e.Msg)
}

func (e *ConnectionError) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*ConnectionError)
	if !ok {
		return false
	}
	return e.State == t.State
}

var (
	ErrNotConnected     = &ConnectionError{State: NotConnected}
	ErrAlreadyConnected = &ConnectionError{State: AlreadyConnected}
	ErrNotInitialized   = &ConnectionError{State: NotInitialized}
	ErrTimeout          = errors.New("timeout")
	ErrUnsupported      = errors.New("unsupported")
)

// IsConnectionState reports whether err is a ConnectionError in state.
func IsConnectionState(err error, state ConnectionState) bool {
	var cerr *ConnectionError
	if errors.As(err, &cerr) {
		return cerr.State == state
	}
	return false
}

// NotifyHandler receives a notification's raw bytes, keyed by the
// characteristic UUID that produced it.
type NotifyHandler func(uuid string, data []byte)

// DisconnectedCallback fires once the transport observes the
// connection drop, with the error (if any) that caused it.
type DisconnectedCallback func(err error)

// ServiceDescription is the discovery-time shape of a single GATT
// service: its UUID and the UUIDs of its characteristics (spec §6.4's
// "{service: {uuid}, characteristics: map[uuid-string -> ...]}").
type ServiceDescription struct {
	UUID            string
	Characteristics []string
}

// Port is the minimal async contract the codec core's façade assumes
// from any BLE transport it is handed (spec §6.4). Implementations may
// be thread- or task-based internally; the core treats a Port as
// opaque and never reaches past this interface.
type Port interface {
	Connect(ctx context.Context, timeout time.Duration) error
	Disconnect() error

	ReadCharacteristic(ctx context.Context, uuid string) ([]byte, error)
	WriteCharacteristic(ctx context.Context, uuid string, data []byte, withResponse bool) error

	StartNotify(ctx context.Context, uuid string, handler NotifyHandler) error
	StopNotify(ctx context.Context, uuid string) error

	ReadDescriptor(ctx context.Context, uuid string) ([]byte, error)
	WriteDescriptor(ctx context.Context, uuid string, data []byte) error

	GetServices(ctx context.Context) ([]ServiceDescription, error)

	Pair(ctx context.Context) error
	Unpair(ctx context.Context) error

	ReadRSSI(ctx context.Context) (int, error)
	MTUSize() int

	SetDisconnectedCallback(fn DisconnectedCallback)
}
