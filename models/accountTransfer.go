package models

import (
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountTransfer moves money between two of the entity's own accounts. It
// touches only the account ledger, never any party's outstanding.
type AccountTransfer struct {
	ID              int               `gorm:"primary_key" json:"id"`
	TransferNumber  string            `gorm:"size:255;uniqueIndex;not null" json:"transfer_number"`
	FromAccountId   int               `gorm:"index;not null" json:"from_account_id" binding:"required"`
	FromAccount     *MoneyAccount     `gorm:"foreignKey:FromAccountId" json:"from_account,omitempty"`
	ToAccountId     int               `gorm:"index;not null" json:"to_account_id" binding:"required"`
	ToAccount       *MoneyAccount     `gorm:"foreignKey:ToAccountId" json:"to_account,omitempty"`
	TransferDate    time.Time         `gorm:"index;not null" json:"transfer_date" binding:"required"`
	Amount          decimal.Decimal   `gorm:"type:decimal(20,4);not null" json:"amount" binding:"required"`
	ReferenceNumber string            `gorm:"size:255" json:"reference_number"`
	Notes           string            `gorm:"size:500" json:"notes"`
	JournalId       *int              `gorm:"index" json:"journal_id"`
	Status          TransactionStatus `gorm:"type:enum('Active','Reversed');default:'Active';not null" json:"status"`
	CreatedBy       int               `json:"created_by"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetAccountTransfer(tx *gorm.DB, id int) (*AccountTransfer, error) {
	var transfer AccountTransfer
	if err := tx.First(&transfer, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewValidationError("transfer_id", "transfer %d not found", id)
		}
		return nil, err
	}
	return &transfer, nil
}
