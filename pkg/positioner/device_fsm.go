package positioner

import (
	"context"

	"github.com/looplab/fsm"
)

// Device state bitmask values reported by the focal-plane snapshot.
// A zero mask means the device is fully operational.
const (
	StateOK         int32 = 0
	StateStuck      int32 = 2
	StateBroken     int32 = 4
	StateRestricted int32 = 8

	// ValidStateMask covers every known state bit.
	ValidStateMask int32 = StateStuck | StateBroken | StateRestricted
)

// DeviceState represents the states of a positioner device
const (
	DeviceOK         = "ok"
	DeviceStuck      = "stuck"
	DeviceBroken     = "broken"
	DeviceRestricted = "restricted"
)

// DeviceFSM represents the finite state machine for a positioner device
type DeviceFSM struct {
	*fsm.FSM
}

// NewDeviceFSM creates a new FSM for a positioner device, seeded from the
// raw state bitmask. Broken wins over stuck, stuck over restricted.
func NewDeviceFSM(state int32) *DeviceFSM {
	initial := DeviceOK
	switch {
	case state&StateBroken != 0:
		initial = DeviceBroken
	case state&StateStuck != 0:
		initial = DeviceStuck
	case state&StateRestricted != 0:
		initial = DeviceRestricted
	}
	return &DeviceFSM{
		FSM: fsm.NewFSM(
			initial,
			fsm.Events{
				{Name: "jam", Src: []string{DeviceOK, DeviceRestricted}, Dst: DeviceStuck},
				{Name: "break", Src: []string{DeviceOK, DeviceStuck, DeviceRestricted}, Dst: DeviceBroken},
				{Name: "restrict", Src: []string{DeviceOK}, Dst: DeviceRestricted},
				{Name: "restore", Src: []string{DeviceStuck, DeviceRestricted}, Dst: DeviceOK},
			},
			fsm.Callbacks{},
		),
	}
}

// Operational reports whether the device is in the ok state.
func (f *DeviceFSM) Operational() bool {
	return f.Current() == DeviceOK
}

// Jam marks the device as stuck.
func (f *DeviceFSM) Jam() error {
	return f.Event(context.Background(), "jam")
}

// Break marks the device as broken. Broken is terminal.
func (f *DeviceFSM) Break() error {
	return f.Event(context.Background(), "break")
}

// Restrict marks the device as range-restricted.
func (f *DeviceFSM) Restrict() error {
	return f.Event(context.Background(), "restrict")
}

// Restore returns a stuck or restricted device to service.
func (f *DeviceFSM) Restore() error {
	return f.Event(context.Background(), "restore")
}
