package hiero

// CustomFixedFee is a fixed fee charged in hbar, or in a token when
// DenominatingTokenID is set.
type CustomFixedFee struct {
	Amount              int64
	DenominatingTokenID *TokenID
}

// CustomFeeLimit caps the custom fees a payer accepts to pay for a
// transaction.
type CustomFeeLimit struct {
	PayerID *AccountID
	Fees    []CustomFixedFee
}
