package workflow

import (
	"context"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/config"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/models"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ConfirmDocument flips a draft invoice or bill to Confirmed: seeds its
// remaining balance, computes its GST split, and raises the party's
// outstanding. This is the integration point the sales and purchase modules
// call when a document becomes financially real.
func ConfirmDocument(ctx context.Context, db *gorm.DB, logger *logrus.Logger, documentId int) (*models.Document, error) {
	var document *models.Document
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		document, err = models.GetDocument(tx, documentId)
		if err != nil {
			return err
		}

		if err := AcquirePartyPostingLock(tx, document.PartyId); err != nil {
			return err
		}
		defer ReleasePartyPostingLock(tx, document.PartyId)

		if document.Status != models.DocumentStatusDraft {
			return utils.NewValidationError("status",
				"document %s is %s, only drafts can be confirmed", document.DocumentNumber, document.Status)
		}
		if !document.GrandTotal.IsPositive() {
			return utils.NewValidationError("grand_total", "document %s has no amount", document.DocumentNumber)
		}

		party, err := models.GetParty(tx, document.PartyId)
		if err != nil {
			return err
		}
		if document.DocumentType == models.DocumentTypeInvoice && party.Role != models.PartyRoleCustomer {
			return utils.NewValidationError("document_type", "invoice %s belongs to a non-customer party", document.DocumentNumber)
		}
		if document.DocumentType == models.DocumentTypeBill && party.Role == models.PartyRoleCustomer {
			return utils.NewValidationError("document_type", "bill %s belongs to a customer party", document.DocumentNumber)
		}

		gst := utils.SplitGST(document.GrandTotal, document.GstRate, document.InterState)
		if err := tx.Model(document).Updates(map[string]interface{}{
			"status":            models.DocumentStatusConfirmed,
			"remaining_balance": document.GrandTotal,
			"taxable_value":     gst.TaxableValue,
			"cgst":              gst.CGST,
			"sgst":              gst.SGST,
			"igst":              gst.IGST,
		}).Error; err != nil {
			config.LogError(logger, "documentIntake.go", "ConfirmDocument", "UpdateDocument", document.ID, err)
			return err
		}

		newOutstanding := party.OutstandingBalance.Add(document.GrandTotal)
		if err := tx.Model(&models.Party{}).Where("id = ?", party.ID).
			UpdateColumn("outstanding_balance", newOutstanding).Error; err != nil {
			return err
		}

		document.Status = models.DocumentStatusConfirmed
		document.RemainingBalance = document.GrandTotal
		document.TaxableValue = gst.TaxableValue
		document.Cgst = gst.CGST
		document.Sgst = gst.SGST
		document.Igst = gst.IGST
		return nil
	})
	if err != nil {
		return nil, err
	}
	return document, nil
}
