package status

import "strings"

type Status string

const (
	Pending         Status = "pending"
	AssignToCourier Status = "assigntocourier"
	Collected       Status = "collected"
	Completed       Status = "completed"
	Cancelled       Status = "cancelled"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleBuyer    Role = "buyer"
	RoleDelivery Role = "delivery"
	RoleAdmin    Role = "admin"
)

// synonyms maps the spellings seen in backend payloads onto the canonical set.
// Keys are lower-cased with all whitespace removed.
var synonyms = map[string]Status{
	"pending":           Pending,
	"assigntocourier":   AssignToCourier,
	"assignedtocourier": AssignToCourier,
	"assigned":          AssignToCourier,
	"collected":         Collected,
	"completed":         Completed,
	"complete":          Completed,
	"cancelled":         Cancelled,
	"canceled":          Cancelled,
}

// Normalize folds a raw backend status onto the canonical set. Unknown
// statuses pass through unchanged so an unrecognized backend value degrades
// to a plain label instead of an error.
func Normalize(raw string) Status {
	folded := strings.ToLower(raw)
	folded = strings.Join(strings.Fields(folded), "")
	if s, ok := synonyms[folded]; ok {
		return s
	}
	return Status(raw)
}

var buyerNext = map[Status]map[Status]bool{
	Pending:         {AssignToCourier: true, Cancelled: true},
	AssignToCourier: {Completed: true, Cancelled: true},
	Collected:       {Completed: true},
	Completed:       {},
	Cancelled:       {},
}

var defaultNext = map[Status]map[Status]bool{
	Pending:         {AssignToCourier: true, Cancelled: true},
	AssignToCourier: {Cancelled: true},
	Collected:       {Completed: true},
	Completed:       {},
	Cancelled:       {},
}

// Transitions returns the adjacency table for the given role. Buyers may move
// an order from assigntocourier straight to completed, skipping collected;
// every other role uses the default table. The table is advisory: the backend
// stays authoritative and re-validates every transition.
func Transitions(role Role) map[Status]map[Status]bool {
	if role == RoleBuyer {
		return buyerNext
	}
	return defaultNext
}

func CanTransition(role Role, from, to Status) bool {
	return Transitions(role)[from][to]
}

// AllowedTargets lists the statuses reachable from the given one, in the
// canonical lifecycle order. Used by the UI to decide which buttons to enable.
func AllowedTargets(role Role, from Status) []Status {
	next := Transitions(role)[from]
	targets := make([]Status, 0, len(next))
	for _, s := range []Status{Pending, AssignToCourier, Collected, Completed, Cancelled} {
		if next[s] {
			targets = append(targets, s)
		}
	}
	return targets
}

func IsTerminal(s Status) bool {
	return s == Completed || s == Cancelled
}

// All lists the canonical statuses in lifecycle order.
func All() []Status {
	return []Status{Pending, AssignToCourier, Collected, Completed, Cancelled}
}
