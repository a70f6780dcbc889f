package network

import "fmt"

// IntegrityError is spec §7's NetworkIntegrityError: a dangling reference
// found while building the RoadNetwork. Build collects these and drops the
// offending object rather than aborting the load.
type IntegrityError struct {
	EntityKind string
	EntityID   ID
	Reason     string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("network: dropping %s %d: %s", e.EntityKind, e.EntityID, e.Reason)
}
