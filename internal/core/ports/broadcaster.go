package ports

// Broadcaster fans a named event out to every currently connected realtime
// subscriber, best-effort and fire-and-forget: no acknowledgment, no retry,
// no replay for subscribers that connect later.
type Broadcaster interface {
	Broadcast(event string, payload any)
}
