package economy

// Status is the business outcome of an operation that can be refused without it being an error.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusInvalidQuantity
	StatusInvalidAmount
	StatusInsufficientFunds
	StatusMaxAmount
	StatusSameMember
	StatusBankLimit
	StatusOnCooldown
)

var statusNames = map[Status]string{
	StatusOK:                "ok",
	StatusNotFound:          "not found",
	StatusInvalidQuantity:   "invalid quantity",
	StatusInvalidAmount:     "invalid amount",
	StatusInsufficientFunds: "insufficient funds",
	StatusMaxAmount:         "max",
	StatusSameMember:        "same member",
	StatusBankLimit:         "bank limit",
	StatusOnCooldown:        "on cooldown",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}
