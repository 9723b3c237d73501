// Package ble receives glove sensor notifications over Bluetooth LE and
// turns them into decoded snapshots on a channel. The notification callback
// runs on the Bluetooth stack's goroutine, so snapshots are handed off over
// a bounded channel and never touch engine state directly.
package ble

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tinygo.org/x/bluetooth"

	"glove-midi/sensor"
)

// The glove advertises one custom service with a single notify
// characteristic carrying the sensor payload.
const (
	serviceUUIDString = "6e400001-c352-4b0f-96e2-1f6a2f38f3a1"
	sensorUUIDString  = "6e400002-c352-4b0f-96e2-1f6a2f38f3a1"
)

var (
	serviceUUID = mustUUID(serviceUUIDString)
	sensorUUID  = mustUUID(sensorUUIDString)
)

func mustUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic("ble: bad UUID literal: " + err.Error())
	}
	return u
}

const scanRetryDelay = 2 * time.Second

// Receiver scans for the glove by advertised name, subscribes to its sensor
// characteristic, and reconnects when the link drops. Decoded snapshots
// arrive on Snapshots; every link loss is reported once on Disconnects so
// the run loop can release all notes.
type Receiver struct {
	adapter     *bluetooth.Adapter
	deviceName  string
	snapshots   chan sensor.Snapshot
	disconnects chan struct{}
	dropped     int
}

func NewReceiver(deviceName string) *Receiver {
	return &Receiver{
		adapter:     bluetooth.DefaultAdapter,
		deviceName:  deviceName,
		snapshots:   make(chan sensor.Snapshot, 8),
		disconnects: make(chan struct{}, 1),
	}
}

func (r *Receiver) Snapshots() <-chan sensor.Snapshot { return r.snapshots }

func (r *Receiver) Disconnects() <-chan struct{} { return r.disconnects }

// Run drives the scan/connect/subscribe cycle until ctx is cancelled.
// Blocking; run in a goroutine.
func (r *Receiver) Run(ctx context.Context) error {
	if err := r.adapter.Enable(); err != nil {
		return fmt.Errorf("ble enable: %w", err)
	}

	lost := make(chan struct{}, 1)
	r.adapter.SetConnectHandler(func(dev bluetooth.Device, connected bool) {
		if !connected {
			select {
			case lost <- struct{}{}:
			default:
			}
		}
	})

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		dev, err := r.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("ble: connect failed, retrying", "device", r.deviceName, "err", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(scanRetryDelay):
			}
			continue
		}

		select {
		case <-ctx.Done():
			_ = dev.Disconnect()
			return ctx.Err()
		case <-lost:
			slog.Warn("ble: link lost, rescanning", "device", r.deviceName)
			r.signalDisconnect()
		}
	}
}

func (r *Receiver) connect(ctx context.Context) (bluetooth.Device, error) {
	result, err := r.scan(ctx)
	if err != nil {
		return bluetooth.Device{}, err
	}

	dev, err := r.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return bluetooth.Device{}, fmt.Errorf("connect: %w", err)
	}
	slog.Info("ble: connected", "device", r.deviceName)

	if err := r.subscribe(dev); err != nil {
		_ = dev.Disconnect()
		return bluetooth.Device{}, err
	}
	return dev, nil
}

func (r *Receiver) scan(ctx context.Context) (bluetooth.ScanResult, error) {
	var result bluetooth.ScanResult
	found := false

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-scanCtx.Done()
		_ = r.adapter.StopScan()
	}()

	slog.Info("ble: scanning", "device", r.deviceName)
	err := r.adapter.Scan(func(a *bluetooth.Adapter, res bluetooth.ScanResult) {
		if res.LocalName() != r.deviceName {
			return
		}
		result = res
		found = true
		_ = a.StopScan()
	})
	if err != nil {
		return result, fmt.Errorf("scan: %w", err)
	}
	if !found {
		return result, fmt.Errorf("scan stopped before %q was found", r.deviceName)
	}
	return result, nil
}

func (r *Receiver) subscribe(dev bluetooth.Device) error {
	svcs, err := dev.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil {
		return fmt.Errorf("discover service: %w", err)
	}
	if len(svcs) == 0 {
		return fmt.Errorf("glove service %s not found", serviceUUIDString)
	}
	chars, err := svcs[0].DiscoverCharacteristics([]bluetooth.UUID{sensorUUID})
	if err != nil {
		return fmt.Errorf("discover characteristic: %w", err)
	}
	if len(chars) == 0 {
		return fmt.Errorf("sensor characteristic %s not found", sensorUUIDString)
	}

	return chars[0].EnableNotifications(func(buf []byte) {
		snap, ok := sensor.Decode(buf)
		if !ok {
			// Defined behavior for malformed payloads: drop silently.
			slog.Debug("ble: malformed payload dropped", "len", len(buf))
			return
		}
		select {
		case r.snapshots <- snap:
		default:
			// Never block the stack callback; the consumer only needs the
			// freshest reading anyway.
			r.dropped++
			if r.dropped%100 == 1 {
				slog.Warn("ble: snapshot queue full, dropping", "dropped", r.dropped)
			}
		}
	})
}

func (r *Receiver) signalDisconnect() {
	select {
	case r.disconnects <- struct{}{}:
	default:
	}
}
