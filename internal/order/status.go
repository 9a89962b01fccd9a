package order

// Status is the authoritative lifecycle state of an order.
type Status string

const (
	StatusAvailable       Status = "available"
	StatusAssigned        Status = "assigned"
	StatusEnRouteToPickup Status = "en_route_to_pickup"
	StatusPickedUp        Status = "picked_up"
	StatusDelivering      Status = "delivering"
	StatusDelivered       Status = "delivered"
	StatusCancelled       Status = "cancelled"
)

func (s Status) String() string { return string(s) }

// allowedTransitions is the single transition table every call site
// (customer cancel, deliverer progression, restaurant cancel, reaper)
// validates against. Cancellation from non-terminal states is handled by
// CanTransition rather than listed per row.
var allowedTransitions = map[Status]Status{
	StatusAvailable:       StatusAssigned,
	StatusAssigned:        StatusEnRouteToPickup,
	StatusEnRouteToPickup: StatusPickedUp,
	StatusPickedUp:        StatusDelivering,
	StatusDelivering:      StatusDelivered,
}

// ActiveStatuses are the non-terminal states, in lifecycle order.
var ActiveStatuses = []Status{
	StatusAvailable, StatusAssigned, StatusEnRouteToPickup, StatusPickedUp, StatusDelivering,
}

// TerminalStatuses admit no further transition.
var TerminalStatuses = []Status{StatusDelivered, StatusCancelled}

// ValidStatus reports whether s is a member of the status set.
func ValidStatus(s Status) bool {
	switch s {
	case StatusAvailable, StatusAssigned, StatusEnRouteToPickup,
		StatusPickedUp, StatusDelivering, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func IsTerminal(s Status) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether current -> next is a legal transition.
// Skip-ahead transitions and any transition out of a terminal state are
// rejected.
func CanTransition(current, next Status) bool {
	if IsTerminal(current) {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return allowedTransitions[current] == next
}
