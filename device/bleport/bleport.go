// Package bleport is the one concrete device.Port implementation the
// library ships: a thin adapter over github.com/go-ble/ble's GATT
// client. It owns nothing about codec semantics — it moves raw bytes
// in and out of a real radio and lets the C8 translator façade do the
// parsing, rather than parsing ad hoc inside the connection layer.
//
// Grounded on
// _examples/srgg-blecli/internal/device/go-ble/connection.go and
// characteristic.go (ble.Dial/DiscoverProfile wiring, the
// connMutex-guarded services map, NormalizeError's go-ble message
// sniffing, the disconnect-monitor goroutine watching a Darwin
// client's Disconnected() channel).
package bleport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-ble/ble"
	"github.com/sirupsen/logrus"

	"github.com/srg/bluetoothsig/device"
)

var log = logrus.WithField("component", "bleport")

// Port adapts a github.com/go-ble/ble client to device.Port.
type Port struct {
	address string

	mu          sync.RWMutex
	client      ble.Client
	connected   bool
	mtu         int
	disconnects device.DisconnectedCallback

	charsByUUID map[string]*ble.Characteristic
	descByUUID  map[string]*ble.Descriptor
	servicesRaw []*ble.Service

	ctx    context.Context
	cancel context.CancelCauseFunc
}

// New returns a Port targeting the given BLE address. The underlying
// client is not created until Connect is called.
func New(address string) *Port {
	return &Port{
		address:     address,
		charsByUUID: make(map[string]*ble.Characteristic),
		descByUUID:  make(map[string]*ble.Descriptor),
	}
}

// Connect dials the device and discovers its GATT profile.
func (p *Port) Connect(ctx context.Context, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.connected {
		return device.ErrAlreadyConnected
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.WithField("address", p.address).Debug("dialing BLE device")
	client, err := ble.Dial(dialCtx, ble.NewAddr(p.address))
	if err != nil {
		return fmt.Errorf("dial %s: %w", p.address, normalizeError(err))
	}

	profile, err := client.DiscoverProfile(true)
	if err != nil {
		_ = client.CancelConnection()
		return fmt.Errorf("discover profile: %w", normalizeError(err))
	}

	p.charsByUUID = make(map[string]*ble.Characteristic)
	p.descByUUID = make(map[string]*ble.Descriptor)
	p.servicesRaw = profile.Services
	for _, svc := range profile.Services {
		for _, c := range svc.Characteristics {
			p.charsByUUID[device.NormalizeUUID(c.UUID.String())] = c
			for _, d := range c.Descriptors {
				p.descByUUID[device.NormalizeUUID(d.UUID.String())] = d
			}
		}
	}

	p.client = client
	p.connected = true
	p.ctx, p.cancel = context.WithCancelCause(ctx)

	if darwinClient, ok := client.(interface{ Disconnected() <-chan struct{} }); ok {
		go func() {
			select {
			case <-darwinClient.Disconnected():
				p.handleDisconnect(device.ErrNotConnected)
			case <-p.ctx.Done():
			}
		}()
	}

	log.WithFields(logrus.Fields{"address": p.address, "services": len(profile.Services)}).Info("BLE device connected")
	return nil
}

func (p *Port) handleDisconnect(cause error) {
	p.mu.Lock()
	p.connected = false
	cb := p.disconnects
	if p.cancel != nil {
		p.cancel(cause)
	}
	p.mu.Unlock()
	if cb != nil {
		cb(cause)
	}
}

// Disconnect tears down the connection.
func (p *Port) Disconnect() error {
	p.mu.Lock()
	client := p.client
	connected := p.connected
	cb := p.disconnects
	p.connected = false
	if p.cancel != nil {
		p.cancel(nil)
	}
	p.mu.Unlock()

	if !connected || client == nil {
		return nil
	}
	err := normalizeError(client.CancelConnection())
	if cb != nil {
		cb(err)
	}
	return err
}

func (p *Port) lookupChar(uuid string) (*ble.Characteristic, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.charsByUUID[device.NormalizeUUID(uuid)]
	if !ok {
		return nil, &device.NotFoundError{Resource: "characteristic", UUIDs: []string{uuid}}
	}
	return c, nil
}

func (p *Port) lookupDesc(uuid string) (*ble.Descriptor, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	d, ok := p.descByUUID[device.NormalizeUUID(uuid)]
	if !ok {
		return nil, &device.NotFoundError{Resource: "descriptor", UUIDs: []string{uuid}}
	}
	return d, nil
}

func (p *Port) activeClient() (ble.Client, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.connected || p.client == nil {
		return nil, device.ErrNotConnected
	}
	return p.client, nil
}

// ReadCharacteristic reads a characteristic's current value.
func (p *Port) ReadCharacteristic(ctx context.Context, uuid string) ([]byte, error) {
	c, err := p.lookupChar(uuid)
	if err != nil {
		return nil, err
	}
	client, err := p.activeClient()
	if err != nil {
		return nil, err
	}
	data, err := client.ReadCharacteristic(c)
	if err != nil {
		return nil, fmt.Errorf("read characteristic %s: %w", uuid, normalizeError(err))
	}
	return data, nil
}

// WriteCharacteristic writes data to a characteristic.
func (p *Port) WriteCharacteristic(ctx context.Context, uuid string, data []byte, withResponse bool) error {
	c, err := p.lookupChar(uuid)
	if err != nil {
		return err
	}
	client, err := p.activeClient()
	if err != nil {
		return err
	}
	if err := client.WriteCharacteristic(c, data, !withResponse); err != nil {
		return fmt.Errorf("write characteristic %s: %w", uuid, normalizeError(err))
	}
	return nil
}

// StartNotify subscribes to a characteristic's notifications.
func (p *Port) StartNotify(ctx context.Context, uuid string, handler device.NotifyHandler) error {
	c, err := p.lookupChar(uuid)
	if err != nil {
		return err
	}
	client, err := p.activeClient()
	if err != nil {
		return err
	}
	err = client.Subscribe(c, false, func(data []byte) {
		handler(uuid, data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", uuid, normalizeError(err))
	}
	return nil
}

// StopNotify unsubscribes from a characteristic's notifications.
func (p *Port) StopNotify(ctx context.Context, uuid string) error {
	c, err := p.lookupChar(uuid)
	if err != nil {
		return err
	}
	client, err := p.activeClient()
	if err != nil {
		return err
	}
	if err := client.Unsubscribe(c, false); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", uuid, normalizeError(err))
	}
	return nil
}

// ReadDescriptor reads a descriptor's raw value.
func (p *Port) ReadDescriptor(ctx context.Context, uuid string) ([]byte, error) {
	d, err := p.lookupDesc(uuid)
	if err != nil {
		return nil, err
	}
	client, err := p.activeClient()
	if err != nil {
		return nil, err
	}
	data, err := client.ReadDescriptor(d)
	if err != nil {
		return nil, fmt.Errorf("read descriptor %s: %w", uuid, normalizeError(err))
	}
	return data, nil
}

// WriteDescriptor writes a descriptor's raw value.
func (p *Port) WriteDescriptor(ctx context.Context, uuid string, data []byte) error {
	d, err := p.lookupDesc(uuid)
	if err != nil {
		return err
	}
	client, err := p.activeClient()
	if err != nil {
		return err
	}
	if err := client.WriteDescriptor(d, data); err != nil {
		return fmt.Errorf("write descriptor %s: %w", uuid, normalizeError(err))
	}
	return nil
}

// GetServices lists the discovered services and their characteristic
// UUIDs.
func (p *Port) GetServices(ctx context.Context) ([]device.ServiceDescription, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.connected {
		return nil, device.ErrNotConnected
	}

	out := make([]device.ServiceDescription, 0, len(p.servicesRaw))
	for _, svc := range p.servicesRaw {
		chars := make([]string, 0, len(svc.Characteristics))
		for _, c := range svc.Characteristics {
			chars = append(chars, device.NormalizeUUID(c.UUID.String()))
		}
		out = append(out, device.ServiceDescription{
			UUID:            device.NormalizeUUID(svc.UUID.String()),
			Characteristics: chars,
		})
	}
	return out, nil
}

// Pair is unsupported by go-ble/ble's cross-platform client surface;
// OS-level pairing is triggered implicitly by the first encrypted
// operation on most platforms.
func (p *Port) Pair(ctx context.Context) error {
	return device.ErrUnsupported
}

// Unpair is unsupported for the same reason as Pair.
func (p *Port) Unpair(ctx context.Context) error {
	return device.ErrUnsupported
}

// ReadRSSI reads the connection's current RSSI.
func (p *Port) ReadRSSI(ctx context.Context) (int, error) {
	client, err := p.activeClient()
	if err != nil {
		return 0, err
	}
	rssiReader, ok := client.(interface{ ReadRSSI() int })
	if !ok {
		return 0, device.ErrUnsupported
	}
	return rssiReader.ReadRSSI(), nil
}

// MTUSize returns the MTU recorded on the Port. Connect does not
// exchange or record an ATT MTU, so the value is 0.
func (p *Port) MTUSize() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mtu
}

// SetDisconnectedCallback registers fn to be invoked once the
// connection is observed to drop, whether via Disconnect or an
// out-of-band platform event.
func (p *Port) SetDisconnectedCallback(fn device.DisconnectedCallback) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disconnects = fn
}

func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", device.ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "device not connected"), strings.Contains(msg, "disconnected"):
		return fmt.Errorf("%w: %v", device.ErrNotConnected, err)
	case strings.Contains(msg, "device already connected"):
		return fmt.Errorf("%w: %v", device.ErrAlreadyConnected, err)
	case strings.Contains(msg, "connection is not initialized"):
		return fmt.Errorf("%w: %v", device.ErrNotInitialized, err)
	default:
		return err
	}
}
