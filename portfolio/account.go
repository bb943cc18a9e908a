package portfolio

import "github.com/shopspring/decimal"

// NewAccount returns an account denominated in currency holding
// startingCapital in cash
func NewAccount(currency string, startingCapital decimal.Decimal) *Account {
	return &Account{
		currency: currency,
		starting: startingCapital,
		balance:  startingCapital,
	}
}

// Currency returns the account denomination currency code
func (a *Account) Currency() string {
	return a.currency
}

// Balance returns the current cash balance
func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// StartingBalance returns the opening cash balance
func (a *Account) StartingBalance() decimal.Decimal {
	return a.starting
}

// Credit adds amount to the cash balance
func (a *Account) Credit(amount decimal.Decimal) {
	a.balance = a.balance.Add(amount)
}

// Debit removes amount from the cash balance. Balances may run negative,
// margin rules are not modelled here
func (a *Account) Debit(amount decimal.Decimal) {
	a.balance = a.balance.Sub(amount)
}

// Reset restores the opening balance
func (a *Account) Reset() {
	a.balance = a.starting
}
