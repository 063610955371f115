package ai

// Event types published to the notification bus. Delivery is synchronous and
// fire-and-forget; subscribers (UI, audio) must not assume acknowledgement.
const (
	EventSpawn       = "npc.spawn"
	EventStateChange = "npc.state_change"
	EventAttack      = "npc.attack"
	EventDeath       = "npc.death"
)

// StateChangeData is the payload of EventStateChange.
type StateChangeData struct {
	ID   string
	From State
	To   State
}

// AttackData is the payload of EventAttack. Target is the entity that was
// hit, for UI/audio subscribers that need the receiving side.
type AttackData struct {
	ID     string
	Damage int
	Target Target
}

// DeathData is the payload of EventDeath.
type DeathData struct {
	ID string
}
