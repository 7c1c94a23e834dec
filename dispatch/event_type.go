package dispatch

import "fmt"

/* EventType identifies which domain event triggers a webhook
 * Closed set: the booking platform only emits these five events
 */
type EventType int

const (
	AppointmentCreated EventType = iota + 1
	AppointmentCancelled
	AppointmentCompleted
	ProfessionalCreated
	ServiceCreated
)

// String returns the wire representation of the event type
func (e EventType) String() string {
	switch e {
	case AppointmentCreated:
		return "appointment_created"
	case AppointmentCancelled:
		return "appointment_cancelled"
	case AppointmentCompleted:
		return "appointment_completed"
	case ProfessionalCreated:
		return "professional_created"
	case ServiceCreated:
		return "service_created"
	default:
		return "unknown"
	}
}

// ParseEventType creates an EventType from its wire representation
func ParseEventType(str string) (EventType, error) {
	switch str {
	case "appointment_created":
		return AppointmentCreated, nil
	case "appointment_cancelled":
		return AppointmentCancelled, nil
	case "appointment_completed":
		return AppointmentCompleted, nil
	case "professional_created":
		return ProfessionalCreated, nil
	case "service_created":
		return ServiceCreated, nil
	default:
		return 0, fmt.Errorf("unknown event type: %q", str)
	}
}

// Validate checks if the event type is valid
func (e EventType) Validate() error {
	if e < AppointmentCreated || e > ServiceCreated {
		return fmt.Errorf("invalid event type: %d", e)
	}
	return nil
}
