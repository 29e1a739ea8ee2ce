package enums

// EventType classifies the life event a profile is built around.
type EventType string

const (
	EventBreakup         EventType = "breakup"
	EventDivorce         EventType = "divorce"
	EventCanceledWedding EventType = "canceled_wedding"
	EventFreshStart      EventType = "fresh_start"
	EventJobLoss         EventType = "job_loss"
	EventMedical         EventType = "medical"
	EventHousing         EventType = "housing"
	EventOther           EventType = "other"
)

var eventTypes = map[EventType]struct{}{
	EventBreakup:         {},
	EventDivorce:         {},
	EventCanceledWedding: {},
	EventFreshStart:      {},
	EventJobLoss:         {},
	EventMedical:         {},
	EventHousing:         {},
	EventOther:           {},
}

func (e EventType) IsValid() bool {
	_, ok := eventTypes[e]
	return ok
}

func (e EventType) String() string { return string(e) }
