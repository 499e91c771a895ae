package enum

// ParseOrderType parses a wire name into an OrderType.
func ParseOrderType(s string) (OrderType, bool) {
	for i, name := range orderTypeNames {
		if name == s {
			return OrderType(i), true
		}
	}
	return 0, false
}

// ParseOrderStatus parses a wire name into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for i, name := range orderStatusNames {
		if name == s {
			return OrderStatus(i), true
		}
	}
	return 0, false
}

// ParsePaymentMethod parses a wire name into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	for i, name := range paymentMethodNames {
		if name == s {
			return PaymentMethod(i), true
		}
	}
	return 0, false
}

// ParseMovementType parses a wire name into a MovementType.
func ParseMovementType(s string) (MovementType, bool) {
	for i, name := range movementTypeNames {
		if name == s {
			return MovementType(i), true
		}
	}
	return 0, false
}

// ParsePricingMode parses a wire name into a PricingMode.
func ParsePricingMode(s string) (PricingMode, bool) {
	for i, name := range pricingModeNames {
		if name == s {
			return PricingMode(i), true
		}
	}
	return 0, false
}
