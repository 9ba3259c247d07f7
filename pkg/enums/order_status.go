package enums

// OrderStatus tracks the fulfillment lifecycle of a marketplace order.
type OrderStatus string

const (
	OrderStatusAwaitingApprove   OrderStatus = "awaiting_approve"
	OrderStatusAwaitingPackaging OrderStatus = "awaiting_packaging"
	OrderStatusAwaitingDeliver   OrderStatus = "awaiting_deliver"
	OrderStatusDelivering        OrderStatus = "delivering"
	OrderStatusDelivered         OrderStatus = "delivered"
	OrderStatusCancelled         OrderStatus = "cancelled"
	OrderStatusNotAccepted       OrderStatus = "not_accepted"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusAwaitingApprove,
	OrderStatusAwaitingPackaging,
	OrderStatusAwaitingDeliver,
	OrderStatusDelivering,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusNotAccepted,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseWildberriesStatus maps the joined two-digit Wildberries status code
// (order-item status followed by supply-task status, missing halves filled
// with 0) onto the local order lifecycle. The supply-task status is the more
// recent signal, so it wins whenever it is present.
func ParseWildberriesStatus(code string) OrderStatus {
	if len(code) != 2 {
		return OrderStatusAwaitingApprove
	}
	item, supply := code[0], code[1]

	switch supply {
	case '1':
		return OrderStatusAwaitingPackaging
	case '2':
		return OrderStatusAwaitingDeliver
	case '3':
		return OrderStatusDelivering
	case '4':
		return OrderStatusDelivered
	case '5':
		return OrderStatusNotAccepted
	}

	switch item {
	case '1':
		return OrderStatusAwaitingPackaging
	case '2':
		return OrderStatusDelivered
	case '3':
		return OrderStatusCancelled
	default:
		return OrderStatusAwaitingApprove
	}
}
