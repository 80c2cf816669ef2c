// ABOUTME: Buffer role enumeration and legal transitions
// ABOUTME: Roles cycle Free -> Writing -> Ready -> Reading -> Free
package triple

import "fmt"

// Role is the ownership tag of a Buffer
type Role uint32

const (
	// Free buffers belong to nobody and may be claimed by the producer
	Free Role = iota
	// Writing buffers are owned by the producer
	Writing
	// Ready buffers are complete and waiting for the consumer
	Ready
	// Reading buffers are owned by the consumer
	Reading
)

// String returns the role name
func (r Role) String() string {
	switch r {
	case Free:
		return "free"
	case Writing:
		return "writing"
	case Ready:
		return "ready"
	case Reading:
		return "reading"
	default:
		return fmt.Sprintf("role(%d)", uint32(r))
	}
}

// CanTransition reports whether to is the successor of r in the role cycle
func (r Role) CanTransition(to Role) bool {
	switch r {
	case Free:
		return to == Writing
	case Writing:
		return to == Ready
	case Ready:
		return to == Reading
	case Reading:
		return to == Free
	default:
		return false
	}
}
