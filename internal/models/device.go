package models

// Group is a device group as reported by the fleet API.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Device is one tracked vehicle unit.
type Device struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Groups []Group `json:"groups,omitempty"`
}

// DisplayName returns the device name, falling back to the id for
// unnamed units.
func (d Device) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// EntityRef is a bare id reference to another entity (the trip and log
// feeds reference their device this way).
type EntityRef struct {
	ID string `json:"id"`
}
