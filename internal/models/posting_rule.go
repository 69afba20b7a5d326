package models

// PostingRule is the db row mapping an event kind to account codes.
type PostingRule struct {
	EventKind         string  `db:"event_kind"`
	DebitAccountCode  string  `db:"debit_account_code"`
	CreditAccountCode string  `db:"credit_account_code"`
	TaxAccountCode    *string `db:"tax_account_code"`
	AuditFields
}
