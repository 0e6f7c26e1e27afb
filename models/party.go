package models

import (
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Party is a customer, supplier, or generic financial entity (lender,
// investor). OutstandingBalance is a derived projection: positive means the
// customer owes us, or that we owe the supplier/entity; negative is a credit
// balance the party holds with us, typically from an advance. It is mutated
// only by the ledger poster, document confirmation, and the reconciliation job.
type Party struct {
	ID                 int             `gorm:"primary_key" json:"id"`
	PartyName          string          `gorm:"index;size:100;not null" json:"party_name" binding:"required"`
	Role               PartyRole       `gorm:"type:enum('Customer','Supplier','Entity');not null;index" json:"role" binding:"required"`
	GstNumber          string          `gorm:"size:20" json:"gst_number"`
	// OpeningBalance is the onboarding baseline; never changed afterwards.
	OpeningBalance     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"opening_balance"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"outstanding_balance"`
	IsActive           *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetParty(tx *gorm.DB, id int) (*Party, error) {
	var party Party
	if err := tx.First(&party, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewValidationError("party_id", "party %d not found", id)
		}
		return nil, err
	}
	return &party, nil
}
