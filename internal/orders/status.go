package orders

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirm   Status = "confirm"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusDelivered Status = "delivered"
	StatusRefund    Status = "refund"
)

// adminStatuses are the targets an admin may set. Orders can never be pushed
// back to pending.
var adminStatuses = map[Status]bool{
	StatusConfirm:   true,
	StatusFailed:    true,
	StatusCancelled: true,
	StatusCompleted: true,
	StatusDelivered: true,
	StatusRefund:    true,
}

// terminal statuses block every transition except the refund escape hatch.
var terminal = map[Status]bool{
	StatusCompleted: true,
	StatusCancelled: true,
}

func IsAdminStatus(s Status) bool { return adminStatuses[s] }

func CanTransition(from, to Status) bool {
	if terminal[from] && to != StatusRefund {
		return false
	}
	return true
}
