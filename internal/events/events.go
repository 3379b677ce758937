package events

// SnapshotEvent signals that a session recomputed its dashboard snapshot.
// Payload carries the snapshot already encoded as JSON, ready for fan-out.
type SnapshotEvent struct {
	SessionID string
	Payload   []byte
}

type Bus struct {
	Snapshots chan SnapshotEvent
}

func NewBus() *Bus {
	return &Bus{
		Snapshots: make(chan SnapshotEvent, 10),
	}
}
