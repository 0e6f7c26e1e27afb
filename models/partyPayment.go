package models

import (
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartyPayment is a receipt from a customer or a payment to a supplier. A
// payment may settle documents, carry an advance remainder, consume previously
// recorded advances, or refund an advance.
type PartyPayment struct {
	ID            int             `gorm:"primary_key" json:"id"`
	PaymentNumber string          `gorm:"size:255;uniqueIndex;not null" json:"payment_number"`
	PartyId       int             `gorm:"index;not null" json:"party_id" binding:"required"`
	Party         *Party          `gorm:"foreignKey:PartyId" json:"party,omitempty"`
	AccountId     *int            `gorm:"index" json:"account_id"`
	Account       *MoneyAccount   `gorm:"foreignKey:AccountId" json:"account,omitempty"`
	PaymentDate   time.Time       `gorm:"index;not null" json:"payment_date" binding:"required"`
	Mode          PaymentMode     `gorm:"type:enum('Bank','Cash','Cheque','UPI','Adjustment');not null" json:"mode" binding:"required"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount" binding:"required"`
	// AllocatedAmount is the portion applied to documents, AdvanceAmount the
	// unallocated remainder retained as advance, UsedAdvanceAmount the portion
	// of this payment funded from earlier advances instead of the account.
	AllocatedAmount   decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"allocated_amount"`
	AdvanceAmount     decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"advance_amount"`
	AdvanceApplied    decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"advance_applied"`
	UsedAdvanceAmount decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"used_advance_amount"`
	IsRefund          bool                `gorm:"not null;default:false" json:"is_refund"`
	ReferenceNumber   string              `gorm:"size:255" json:"reference_number"`
	Notes             string              `gorm:"size:500" json:"notes"`
	JournalId         *int                `gorm:"index" json:"journal_id"`
	Status            TransactionStatus   `gorm:"type:enum('Active','Reversed');default:'Active';not null" json:"status"`
	Allocations       []PaymentAllocation `gorm:"foreignKey:PaymentId" json:"allocations,omitempty"`
	CreatedBy         int                 `json:"created_by"`
	CreatedAt         time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

// AdvanceRemaining is the advance still available for later payments.
func (p PartyPayment) AdvanceRemaining() decimal.Decimal {
	return p.AdvanceAmount.Sub(p.AdvanceApplied)
}

// PaymentAllocation applies a portion of a payment against one document.
type PaymentAllocation struct {
	ID         int             `gorm:"primary_key" json:"id"`
	PaymentId  int             `gorm:"index;not null" json:"payment_id"`
	DocumentId int             `gorm:"index;not null" json:"document_id"`
	Document   *Document       `gorm:"foreignKey:DocumentId" json:"document,omitempty"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// AdvanceApplication records which earlier payment's advance funded a later
// payment or refund. Needed to give the advance back on reversal.
type AdvanceApplication struct {
	ID              int             `gorm:"primary_key" json:"id"`
	PaymentId       int             `gorm:"index;not null" json:"payment_id"`
	SourcePaymentId int             `gorm:"index;not null" json:"source_payment_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func GetPartyPayment(tx *gorm.DB, id int) (*PartyPayment, error) {
	var payment PartyPayment
	if err := tx.Preload("Allocations").First(&payment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewValidationError("payment_id", "payment %d not found", id)
		}
		return nil, err
	}
	return &payment, nil
}

// GetUnallocatedAdvances returns the party's active payments that still carry
// an unconsumed advance, oldest first. Advance consumption is FIFO like
// document allocation.
func GetUnallocatedAdvances(tx *gorm.DB, partyId int) ([]PartyPayment, error) {
	var payments []PartyPayment
	err := tx.
		Where("party_id = ? AND status = ? AND advance_amount > advance_applied", partyId, TransactionStatusActive).
		Order("payment_date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}
