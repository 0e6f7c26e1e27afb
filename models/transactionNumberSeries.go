package models

import (
	"fmt"
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionNumberSeries hands out document numbers per module. The row is
// locked for update inside the caller's transaction, so numbers within one
// module are gap-free and strictly increasing.
type TransactionNumberSeries struct {
	ID         int       `gorm:"primary_key" json:"id"`
	ModuleName string    `gorm:"size:100;uniqueIndex;not null" json:"module_name" binding:"required"`
	Prefix     string    `gorm:"size:10" json:"prefix"`
	NextNumber int64     `gorm:"not null;default:1" json:"next_number"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

const (
	SeriesModuleReceipt  = "Receipt"
	SeriesModulePayment  = "Payment"
	SeriesModuleTransfer = "Transfer"
)

var defaultSeriesPrefixes = map[string]string{
	SeriesModuleReceipt:  "RCPT-",
	SeriesModulePayment:  "PAY-",
	SeriesModuleTransfer: "TRF-",
}

// SeedTransactionNumberSeries inserts the default series rows, skipping any
// that already exist.
func SeedTransactionNumberSeries(db *gorm.DB) error {
	for moduleName, prefix := range defaultSeriesPrefixes {
		series := TransactionNumberSeries{ModuleName: moduleName, Prefix: prefix, NextNumber: 1}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&series).Error; err != nil {
			return err
		}
	}
	return nil
}

// NextTransactionNumber reserves the next number for a module and returns it
// formatted with the series prefix, e.g. "RCPT-42". Must be called inside a
// transaction; the SELECT ... FOR UPDATE holds the row until commit.
func NextTransactionNumber(tx *gorm.DB, moduleName string) (string, error) {
	var series TransactionNumberSeries
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("module_name = ?", moduleName).
		First(&series).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", utils.NewValidationError("module_name", "no number series for module %s", moduleName)
		}
		return "", err
	}
	number := series.NextNumber
	if err := tx.Model(&series).UpdateColumn("next_number", gorm.Expr("next_number + 1")).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", series.Prefix, number), nil
}
