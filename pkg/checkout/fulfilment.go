package checkout

// Fulfilment is how an order reaches the customer.
type Fulfilment string

const (
	// Delivery ships to the customer's address for a flat fee.
	Delivery Fulfilment = "DELIVERY"

	// Pickup is collected from a chosen store, always fee-free.
	Pickup Fulfilment = "PICKUP"
)

// Valid reports whether the value is one of the two fulfilment modes.
func (f Fulfilment) Valid() bool {
	return f == Delivery || f == Pickup
}
