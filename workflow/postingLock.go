package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

// AcquirePartyPostingLock serializes settlement posting per party across
// instances using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same
// *gorm.DB that will do the posting transaction.
func AcquirePartyPostingLock(tx *gorm.DB, partyId int) error {
	return acquireLock(tx, fmt.Sprintf("posting:party:%d", partyId))
}

func ReleasePartyPostingLock(tx *gorm.DB, partyId int) {
	releaseLock(tx, fmt.Sprintf("posting:party:%d", partyId))
}

// AcquireAccountPostingLock serializes balance-affecting writes per money
// account. Transfers take both account locks in ascending id order to avoid
// deadlock.
func AcquireAccountPostingLock(tx *gorm.DB, accountId int) error {
	return acquireLock(tx, fmt.Sprintf("posting:account:%d", accountId))
}

func ReleaseAccountPostingLock(tx *gorm.DB, accountId int) {
	releaseLock(tx, fmt.Sprintf("posting:account:%d", accountId))
}

func acquireLock(tx *gorm.DB, lockName string) error {
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire %s", lockName)
	}
	return nil
}

func releaseLock(tx *gorm.DB, lockName string) {
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}
