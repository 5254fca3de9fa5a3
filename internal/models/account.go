package models

// AccountType is the kind of account the statement belongs to.
type AccountType string

const (
	AccountSavings AccountType = "Savings"
	AccountCurrent AccountType = "Current"
	// AccountUnknown renders as an empty field.
	AccountUnknown AccountType = ""
)

// AccountInfo holds account metadata found in the statement header.
// Every field is independent; an empty string means it was not recognized.
type AccountInfo struct {
	AccountNumber     string      `json:"accountNumber,omitempty"`
	AccountHolderName string      `json:"accountHolderName,omitempty"`
	AccountType       AccountType `json:"accountType,omitempty"`
	IFSC              string      `json:"ifsc,omitempty"`
	MICR              string      `json:"micr,omitempty"`
	BankName          string      `json:"bankName,omitempty"`
	Address           string      `json:"address,omitempty"`
}

// IsEmpty reports whether no field was recognized.
func (a AccountInfo) IsEmpty() bool {
	return a == AccountInfo{}
}
