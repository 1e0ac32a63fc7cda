// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package connectivity

import "fmt"

// DeviceType classifies the radio interface of a remote device.
type DeviceType int

const (
	DeviceTypeUnknown DeviceType = 0
	DeviceTypeBREDR   DeviceType = 1
	DeviceTypeLE      DeviceType = 2
	// DeviceTypeDual is a device reachable over both BR/EDR and LE.
	DeviceTypeDual DeviceType = 3
)

// String returns the human-readable name of a device type.
func (t DeviceType) String() string {
	switch t {
	case DeviceTypeUnknown:
		return "unknown"
	case DeviceTypeBREDR:
		return "bredr"
	case DeviceTypeLE:
		return "le"
	case DeviceTypeDual:
		return "dual"
	default:
		return fmt.Sprintf("device_type(%d)", int(t))
	}
}

// DeviceInfo identifies the remote device a session or event refers
// to. It is embedded by value into records; the aggregator never
// shares a DeviceInfo between records.
type DeviceInfo struct {
	// DeviceClass is the class-of-device bitmask reported by the
	// remote device.
	DeviceClass int64 `json:"device_class"`

	// DeviceType is the radio interface classification.
	DeviceType DeviceType `json:"device_type"`
}

// WakeEventType distinguishes radio wake lock transitions.
type WakeEventType int

const (
	WakeEventUnknown  WakeEventType = 0
	WakeEventAcquired WakeEventType = 1
	WakeEventReleased WakeEventType = 2
)

// String returns the human-readable name of a wake event type.
func (t WakeEventType) String() string {
	switch t {
	case WakeEventUnknown:
		return "unknown"
	case WakeEventAcquired:
		return "acquired"
	case WakeEventReleased:
		return "released"
	default:
		return fmt.Sprintf("wake_event_type(%d)", int(t))
	}
}

// ScanTech identifies the radio technology a scan ran over.
type ScanTech int

const (
	ScanTechUnknown ScanTech = 0
	ScanTechBREDR   ScanTech = 1
	ScanTechLE      ScanTech = 2
	ScanTechBoth    ScanTech = 3
)

// String returns the human-readable name of a scan technology.
func (t ScanTech) String() string {
	switch t {
	case ScanTechUnknown:
		return "unknown"
	case ScanTechBREDR:
		return "bredr"
	case ScanTechLE:
		return "le"
	case ScanTechBoth:
		return "both"
	default:
		return fmt.Sprintf("scan_tech(%d)", int(t))
	}
}

// ScanEventType distinguishes scan start from scan stop.
type ScanEventType int

const (
	ScanEventStart ScanEventType = 0
	ScanEventStop  ScanEventType = 1
)

// String returns the human-readable name of a scan event type.
func (t ScanEventType) String() string {
	switch t {
	case ScanEventStart:
		return "start"
	case ScanEventStop:
		return "stop"
	default:
		return fmt.Sprintf("scan_event_type(%d)", int(t))
	}
}

// PairEvent records one pairing attempt with a remote device.
type PairEvent struct {
	// DisconnectReason is the stack's numeric reason code for how the
	// pairing attempt ended.
	DisconnectReason int64 `json:"disconnect_reason"`

	// TimestampMS is the event time in milliseconds since the epoch
	// chosen by the caller.
	TimestampMS int64 `json:"event_time_millis"`

	// Device identifies the device paired with.
	Device DeviceInfo `json:"device_paired_with"`
}

// WakeEvent records one radio wake lock transition.
type WakeEvent struct {
	// Type is the wake lock transition direction.
	Type WakeEventType `json:"wake_event_type"`

	// Requestor names the subsystem that requested the wake lock.
	Requestor string `json:"requestor,omitempty"`

	// Name is the wake lock's own name.
	Name string `json:"name,omitempty"`

	// TimestampMS is the event time in milliseconds.
	TimestampMS int64 `json:"event_time_millis"`
}

// ScanEvent records the start or stop of a device scan.
type ScanEvent struct {
	// Type is whether the scan started or stopped.
	Type ScanEventType `json:"scan_event_type"`

	// Initiator names the subsystem that started the scan.
	Initiator string `json:"initiator,omitempty"`

	// Technology is the radio technology scanned.
	Technology ScanTech `json:"scan_technology_type"`

	// ResultCount is the number of devices found. Meaningful only on
	// stop events.
	ResultCount int64 `json:"number_results"`

	// TimestampMS is the event time in milliseconds.
	TimestampMS int64 `json:"event_time_millis"`
}
