package models

import (
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Document is a sales invoice (customer) or purchase bill (supplier). Only
// Confirmed documents count toward a party's outstanding. RemainingBalance is
// owned by the settlement engine; everything else belongs to the sales and
// purchase modules.
type Document struct {
	ID               int             `gorm:"primary_key" json:"id"`
	DocumentType     DocumentType    `gorm:"type:enum('Invoice','Bill');not null;index:idx_doc_party_status,priority:2" json:"document_type" binding:"required"`
	PartyId          int             `gorm:"index;not null;index:idx_doc_party_status,priority:1" json:"party_id" binding:"required"`
	DocumentNumber   string          `gorm:"size:255;not null" json:"document_number"`
	DocumentDate     time.Time       `gorm:"index;not null" json:"document_date" binding:"required"`
	GrandTotal       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"grand_total"`
	RemainingBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"remaining_balance"`
	GstRate          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gst_rate"`
	InterState       bool            `gorm:"not null;default:false" json:"inter_state"`
	TaxableValue     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"taxable_value"`
	Cgst             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cgst"`
	Sgst             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sgst"`
	Igst             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"igst"`
	Status           DocumentStatus  `gorm:"type:enum('Draft','Confirmed','Cancelled');default:'Draft';not null;index:idx_doc_party_status,priority:3" json:"status"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetDocument(tx *gorm.DB, id int) (*Document, error) {
	var document Document
	if err := tx.First(&document, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewValidationError("document_id", "document %d not found", id)
		}
		return nil, err
	}
	return &document, nil
}

// ListOutstandingDocuments returns the party's confirmed, not fully settled
// documents, oldest first. FIFO allocation depends on this ordering.
func ListOutstandingDocuments(tx *gorm.DB, partyId int) ([]Document, error) {
	var documents []Document
	err := tx.
		Where("party_id = ? AND status = ? AND remaining_balance > 0", partyId, DocumentStatusConfirmed).
		Order("document_date ASC, id ASC").
		Find(&documents).Error
	return documents, err
}
