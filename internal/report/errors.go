package report

import (
	"errors"
	"fmt"
)

// ErrHomeZoneNotFound indicates the configured home zone does not exist
// and no zone type matched either.
var ErrHomeZoneNotFound = errors.New("home zone not found")

// ReferenceFetchError is a failure loading reference data (devices, zone
// types, zones). It is fatal to the whole report.
type ReferenceFetchError struct {
	Stage string // "devices", "zone types", "zones"
	Err   error
}

func (e *ReferenceFetchError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Stage, e.Err)
}

func (e *ReferenceFetchError) Unwrap() error { return e.Err }

// DeviceFetchError is a failure loading trips or logs for one device.
// The run halts: a report missing a device would silently under-state
// fleet activity, so no partial rows are returned.
type DeviceFetchError struct {
	DeviceName string
	Err        error
}

func (e *DeviceFetchError) Error() string {
	return fmt.Sprintf("loading trips and logs for %s: %v", e.DeviceName, e.Err)
}

func (e *DeviceFetchError) Unwrap() error { return e.Err }
