package mysql

import (
	"context"

	"pesavest-backend/internal/domain/audit"
	"pesavest-backend/internal/domain/balance"
	"pesavest-backend/internal/domain/intent"
	"pesavest-backend/internal/domain/investment"
	"pesavest-backend/internal/domain/ledger"
	"pesavest-backend/internal/domain/payment"
	"pesavest-backend/internal/domain/plan"
	"pesavest-backend/internal/domain/withdrawal"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AutoMigrate is the explicit schema step at process startup. Nothing else
// creates tables; read paths never bootstrap.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&plan.Plan{},
		&intent.Intent{},
		&payment.Payment{},
		&investment.Investment{},
		&balance.Balance{},
		&ledger.Transaction{},
		&audit.Entry{},
		&withdrawal.Withdrawal{},
	)
}

// SeedDefaultPlans inserts the starter products on an empty plans table.
func SeedDefaultPlans(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&plan.Plan{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	mustDec := func(s string) decimal.Decimal {
		d, _ := decimal.NewFromString(s)
		return d
	}
	seed := []plan.Plan{
		{Code: "starter", Name: "Starter", MinAmount: mustDec("500"), MaxAmount: mustDec("9999"), DailyRate: mustDec("0.0150"), DurationDays: 30, Active: true},
		{Code: "growth", Name: "Growth", MinAmount: mustDec("10000"), MaxAmount: mustDec("99999"), DailyRate: mustDec("0.0200"), DurationDays: 30, Active: true},
		{Code: "premium", Name: "Premium", MinAmount: mustDec("100000"), MaxAmount: mustDec("1000000"), DailyRate: mustDec("0.0350"), DurationDays: 60, Active: true},
	}
	return db.WithContext(ctx).Create(&seed).Error
}
