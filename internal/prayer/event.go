package prayer

import "fmt"

// EventKind is one of the two fasting boundaries. The set is closed: every
// switch over EventKind handles both values.
type EventKind int

const (
	// EventPreDawn is the dawn boundary (Fajr), the end of sahur.
	EventPreDawn EventKind = iota + 1
	// EventSunset is the sunset boundary (Maghrib), the iftar.
	EventSunset
)

// FastingEvents lists both boundaries in daily order.
var FastingEvents = []EventKind{EventPreDawn, EventSunset}

// FirstPreDawnLabel replaces the ordinary pre-dawn label on the first day of
// the observance window.
const FirstPreDawnLabel = "İlk Sahur (Ramazan Başlangıcı)"

// Clock returns the boundary's clock time in s.
func (k EventKind) Clock(s DailySnapshot) Clock {
	switch k {
	case EventPreDawn:
		return s.Timings.Fajr
	case EventSunset:
		return s.Timings.Maghrib
	}
	panic(fmt.Sprintf("prayer: unknown event kind %d", int(k)))
}

// Label is the countdown label for an ordinary occurrence of the event.
func (k EventKind) Label() string {
	switch k {
	case EventPreDawn:
		return "İmsak (Sahur)"
	case EventSunset:
		return "Akşam (İftar)"
	}
	return ""
}

// AlertTitle is the short heading used when the boundary is reached.
func (k EventKind) AlertTitle() string {
	switch k {
	case EventPreDawn:
		return "Sahur Vakti"
	case EventSunset:
		return "İftar Vakti"
	}
	return ""
}

// String returns the stable identifier used in JSON and MQTT payloads.
func (k EventKind) String() string {
	switch k {
	case EventPreDawn:
		return "sahur"
	case EventSunset:
		return "iftar"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	switch k {
	case EventPreDawn, EventSunset:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown event kind %d", int(k))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EventKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "sahur":
		*k = EventPreDawn
	case "iftar":
		*k = EventSunset
	default:
		return fmt.Errorf("unknown event kind %q", string(b))
	}
	return nil
}
