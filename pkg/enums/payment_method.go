package enums

// PaymentMethod is the customer-selected payment instrument for an order.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodCOD    PaymentMethod = "cod"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodUPI, PaymentMethodWallet, PaymentMethodCOD:
		return true
	}
	return false
}

func (m PaymentMethod) String() string {
	return string(m)
}
