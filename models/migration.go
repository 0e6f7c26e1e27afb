package models

import (
	"log"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&MoneyAccount{}, &Party{},
		&Document{},
		&AccountJournal{}, &AccountTransaction{},
		&PartyPayment{}, &PaymentAllocation{}, &AdvanceApplication{},
		&AccountTransfer{},
		&TransactionNumberSeries{},
		&IdempotencyKey{},
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := SeedTransactionNumberSeries(db); err != nil {
		log.Fatal(err)
	}
}
