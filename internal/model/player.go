package model

import (
	"fmt"
	"strings"
)

// PlayerID uniquely identifies a player across devices
type PlayerID string

// DeviceType identifies the platform the app runs on
type DeviceType string

const (
	DeviceTypeAndroid DeviceType = "android" // primary platform
	DeviceTypeIOS     DeviceType = "ios"     // secondary platform
)

// Valid reports whether d is a known device type
func (d DeviceType) Valid() bool {
	return d == DeviceTypeAndroid || d == DeviceTypeIOS
}

// ParseDeviceType parses a device type case-insensitively
func ParseDeviceType(s string) (DeviceType, error) {
	d := DeviceType(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDeviceType, s)
	}
	return d, nil
}

// SetupMethod records how the player configuration was created
type SetupMethod string

const (
	SetupMethodNFC    SetupMethod = "nfc"    // proximity transfer between two devices
	SetupMethodManual SetupMethod = "manual" // both names typed on one device
	SetupMethodSolo   SetupMethod = "solo"   // no partner
)

// Valid reports whether m is a known setup method
func (m SetupMethod) Valid() bool {
	switch m {
	case SetupMethodNFC, SetupMethodManual, SetupMethodSolo:
		return true
	}
	return false
}

// ParseSetupMethod parses a setup method case-insensitively
func ParseSetupMethod(s string) (SetupMethod, error) {
	m := SetupMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSetupMethod, s)
	}
	return m, nil
}

// PlayerConfig is the single player configuration of this device.
// At most one exists at any time; saving replaces it.
type PlayerConfig struct {
	PlayerID    PlayerID    `json:"player_id"`
	PlayerName  string      `json:"player_name"`
	PartnerID   *PlayerID   `json:"partner_id"`   // nil in solo mode
	PartnerName *string     `json:"partner_name"` // nil in solo mode
	DeviceType  DeviceType  `json:"device_type"`
	SetupMethod SetupMethod `json:"setup_method"`
	SetupDate   int64       `json:"setup_date"` // epoch millis
}

// HasPartner reports whether the configuration includes a partner
func (c *PlayerConfig) HasPartner() bool {
	return c.PartnerID != nil && c.PartnerName != nil
}
