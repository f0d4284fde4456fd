package domain

// Attribute keys with meaning to the core. Any other keys are stored as-is.
const (
	AttrKey    = "key"
	AttrAction = "action"
)

// Event is an immutable record of a worker action against a task type.
type Event struct {
	Time       int64
	Attributes map[string]string
}

// Key returns the item key the event refers to, if any.
func (e Event) Key() (string, bool) {
	k, ok := e.Attributes[AttrKey]
	if !ok || k == "" {
		return "", false
	}
	return k, true
}

// Action returns the recognized worker action carried by the event, if any.
func (e Event) Action() (Action, bool) {
	a := Action(e.Attributes[AttrAction])
	if !a.IsValid() {
		return "", false
	}
	return a, true
}

// ActionCount is the number of events carrying one action value in a time window.
type ActionCount struct {
	Action string `json:"action"`
	Count  int64  `json:"count"`
}

// HistoryBucket is the number of events carrying one action that fall into
// the bucket starting at Start (epoch seconds, UTC).
type HistoryBucket struct {
	Start  int64  `json:"start"`
	Action string `json:"action"`
	Count  int64  `json:"count"`
}
