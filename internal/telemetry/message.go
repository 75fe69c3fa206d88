package telemetry

// Kind identifies which entity a message updates.
type Kind int

const (
	KindUnknown Kind = iota
	KindPosition
	KindBattery
	KindHeartbeat
)

// Wire discriminants.
const (
	TagPosition  = "GlobalPosition"
	TagBattery   = "BatteryStatus"
	TagHeartbeat = "Heartbeat"
)

// String returns the wire tag for k.
func (k Kind) String() string {
	switch k {
	case KindPosition:
		return TagPosition
	case KindBattery:
		return TagBattery
	case KindHeartbeat:
		return TagHeartbeat
	default:
		return "Unknown"
	}
}

// ParseKind maps a wire tag to its Kind.
func ParseKind(tag string) (Kind, bool) {
	switch tag {
	case TagPosition:
		return KindPosition, true
	case TagBattery:
		return KindBattery, true
	case TagHeartbeat:
		return KindHeartbeat, true
	default:
		return KindUnknown, false
	}
}

// Kinds lists every known kind in display order.
func Kinds() []Kind {
	return []Kind{KindPosition, KindBattery, KindHeartbeat}
}

// Message is a decoded frame. Exactly one payload matching Kind is non-nil.
type Message struct {
	Kind      Kind
	Position  *GlobalPosition
	Battery   *BatteryStatus
	Heartbeat *Heartbeat
}

// PositionMessage wraps p.
func PositionMessage(p GlobalPosition) Message {
	return Message{Kind: KindPosition, Position: &p}
}

// BatteryMessage wraps a copy of b.
func BatteryMessage(b BatteryStatus) Message {
	dup := b.Clone()
	return Message{Kind: KindBattery, Battery: &dup}
}

// HeartbeatMessage wraps h.
func HeartbeatMessage(h Heartbeat) Message {
	return Message{Kind: KindHeartbeat, Heartbeat: &h}
}

// Valid reports whether the payload matches the kind.
func (m Message) Valid() bool {
	switch m.Kind {
	case KindPosition:
		return m.Position != nil
	case KindBattery:
		return m.Battery != nil
	case KindHeartbeat:
		return m.Heartbeat != nil
	default:
		return false
	}
}
