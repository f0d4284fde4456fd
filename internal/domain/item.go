package domain

import "math"

// LeaseResolved is the lease_until value of an item that has been fixed or
// marked not-an-error. Lease columns are BIGINT, so no epoch-seconds timestamp
// can reach it.
const LeaseResolved int64 = math.MaxInt64

// LeaseState classifies an item's lease_until relative to a point in time.
type LeaseState string

const (
	LeaseAvailable LeaseState = "available"
	LeaseHeld      LeaseState = "leased"
	LeaseDone      LeaseState = "resolved"
)

// Item is one unit of correction work inside a task type.
type Item struct {
	Key        string
	Value      string
	LeaseUntil int64
}

// State returns the lease state of the item at now (epoch seconds). A lease
// granted until T is still held at now == T and reclaimable from T+1.
func (i Item) State(now int64) LeaseState {
	switch {
	case i.LeaseUntil == LeaseResolved:
		return LeaseDone
	case i.LeaseUntil != 0 && i.LeaseUntil >= now:
		return LeaseHeld
	default:
		return LeaseAvailable
	}
}

// Assignment is the result of asking for the next item of a task type.
// Complete means no eligible item was left; it is not an error.
type Assignment struct {
	Item      Item
	ExpiresAt int64
	Complete  bool
}

// ItemCounts summarizes the lease states of a task type's items.
type ItemCounts struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	Leased    int64 `json:"leased"`
	Resolved  int64 `json:"resolved"`
}
