package workflow

import (
	"errors"
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/models"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var ErrIdempotencyInProgress = errors.New("idempotency in progress")

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

// BeginIdempotency inserts STARTED. If SUCCEEDED exists, returns the stored
// reference id and skip=true, meaning "return the original result safely".
func BeginIdempotency(tx *gorm.DB, handlerName, requestKey string) (skip bool, referenceId int, err error) {
	key := models.IdempotencyKey{
		HandlerName: handlerName,
		RequestKey:  requestKey,
		Status:      models.IdempotencyStatusStarted,
	}
	if err := tx.Create(&key).Error; err == nil {
		return false, 0, nil
	} else if !isDuplicateKeyErr(err) {
		return false, 0, err
	}

	var existing models.IdempotencyKey
	if err := tx.Where("handler_name = ? AND request_key = ?", handlerName, requestKey).
		First(&existing).Error; err != nil {
		return false, 0, err
	}

	switch existing.Status {
	case models.IdempotencyStatusSucceeded:
		return true, existing.ReferenceId, nil
	case models.IdempotencyStatusStarted:
		// If another request is currently processing, let the client retry.
		// If it's stale, reuse the same row (set STARTED again).
		if time.Since(existing.UpdatedAt) < 5*time.Minute {
			return false, 0, ErrIdempotencyInProgress
		}
		fallthrough
	default:
		return false, 0, tx.Model(&models.IdempotencyKey{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{"status": models.IdempotencyStatusStarted, "last_error": nil}).Error
	}
}

func MarkIdempotencySucceeded(tx *gorm.DB, handlerName, requestKey string, referenceId int) error {
	return tx.Model(&models.IdempotencyKey{}).
		Where("handler_name = ? AND request_key = ?", handlerName, requestKey).
		Updates(map[string]interface{}{
			"status":       models.IdempotencyStatusSucceeded,
			"reference_id": referenceId,
			"last_error":   nil,
		}).Error
}

func MarkIdempotencyFailed(tx *gorm.DB, handlerName, requestKey string, err error) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return tx.Model(&models.IdempotencyKey{}).
		Where("handler_name = ? AND request_key = ?", handlerName, requestKey).
		Updates(map[string]interface{}{"status": models.IdempotencyStatusFailed, "last_error": &msg}).Error
}
