package models

type MoneyAccountType string

const (
	MoneyAccountTypeBank       MoneyAccountType = "Bank"
	MoneyAccountTypeCash       MoneyAccountType = "Cash"
	MoneyAccountTypeCreditCard MoneyAccountType = "CC"
)

type PartyRole string

const (
	PartyRoleCustomer PartyRole = "Customer"
	PartyRoleSupplier PartyRole = "Supplier"
	PartyRoleEntity   PartyRole = "Entity"
)

type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "Invoice"
	DocumentTypeBill    DocumentType = "Bill"
)

type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "Draft"
	DocumentStatusConfirmed DocumentStatus = "Confirmed"
	DocumentStatusCancelled DocumentStatus = "Cancelled"
)

type PaymentMode string

const (
	PaymentModeBank       PaymentMode = "Bank"
	PaymentModeCash       PaymentMode = "Cash"
	PaymentModeCheque     PaymentMode = "Cheque"
	PaymentModeUPI        PaymentMode = "UPI"
	PaymentModeAdjustment PaymentMode = "Adjustment"
)

// TransactionStatus is shared by party payments and account transfers.
// Reversed records stay visible in history but are excluded from balances.
type TransactionStatus string

const (
	TransactionStatusActive   TransactionStatus = "Active"
	TransactionStatusReversed TransactionStatus = "Reversed"
)

// LedgerType says what a ledger row's ledger_id points at: a money account or
// a party sub-ledger.
type LedgerType string

const (
	LedgerTypeAccount LedgerType = "Account"
	LedgerTypeParty   LedgerType = "Party"
)

// AccountReferenceType links a journal back to the business record that
// produced it.
type AccountReferenceType string

const (
	AccountReferenceTypeCustomerReceipt       AccountReferenceType = "CP"
	AccountReferenceTypeSupplierPayment       AccountReferenceType = "SP"
	AccountReferenceTypeCustomerAdvanceRefund AccountReferenceType = "CAR"
	AccountReferenceTypeSupplierAdvanceRefund AccountReferenceType = "SAR"
	AccountReferenceTypeAccountTransfer       AccountReferenceType = "AT"
)
