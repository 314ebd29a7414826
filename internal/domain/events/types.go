package events

// EventType es la categoría de un evento. El conjunto es abierto: el store
// puede devolver tipos que este cliente no produce.
type EventType string

const (
	EventTypeFeeding    EventType = "feeding"
	EventTypeMedication EventType = "medication"
	EventTypeDiaper     EventType = "diaper"
)

// Toggles conocidos por los eventos de pañal.
const (
	TogglePoop = "poop"
	TogglePee  = "pee"
)
