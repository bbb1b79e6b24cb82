package enum

// TransactionType distinguishes scrap purchases from sales
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"
)

// Valid reports whether the type is a known transaction type
func (t TransactionType) Valid() bool {
	return t == TransactionTypeBuy || t == TransactionTypeSell
}

func (t TransactionType) String() string {
	return string(t)
}

// CustomerType classifies the counterparty of a transaction
type CustomerType string

const (
	CustomerTypePerson     CustomerType = "person"
	CustomerTypeCompany    CustomerType = "company"
	CustomerTypeGovernment CustomerType = "government"
)

// Valid reports whether the customer type is a known value
func (c CustomerType) Valid() bool {
	switch c {
	case CustomerTypePerson, CustomerTypeCompany, CustomerTypeGovernment:
		return true
	}
	return false
}

func (c CustomerType) String() string {
	return string(c)
}
