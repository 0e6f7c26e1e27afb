package models

import (
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MoneyAccount struct {
	ID              int              `gorm:"primary_key" json:"id"`
	AccountType     MoneyAccountType `gorm:"type:enum('Bank','Cash','CC');default:'Cash';not null" json:"account_type" binding:"required"`
	AccountName     string           `gorm:"index;size:100;not null" json:"account_name" binding:"required"`
	AccountCode     string           `gorm:"size:50" json:"account_code"`
	AccountNumber   string           `gorm:"size:50" json:"account_number"`
	BankName        string           `gorm:"size:100" json:"bank_name"`
	// SanctionedLimit is only meaningful for CC accounts; utilization shows up
	// as a negative CurrentBalance.
	SanctionedLimit decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sanctioned_limit"`
	CurrentBalance  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"current_balance"`
	Description     string          `gorm:"type:text" json:"description"`
	IsActive        *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// AvailableBalance is what can actually be drawn from the account.
func (a MoneyAccount) AvailableBalance() decimal.Decimal {
	if a.AccountType == MoneyAccountTypeCreditCard {
		return a.SanctionedLimit.Add(a.CurrentBalance)
	}
	return a.CurrentBalance
}

func GetMoneyAccount(tx *gorm.DB, id int) (*MoneyAccount, error) {
	var account MoneyAccount
	if err := tx.First(&account, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewValidationError("account_id", "account %d not found", id)
		}
		return nil, err
	}
	return &account, nil
}
