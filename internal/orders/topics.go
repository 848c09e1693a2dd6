package orders

const (
	TopicOrderCreated   = "order.created"
	TopicOrderDelivered = "order.delivered"
)

// Partition key = order id so a single order's events keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
