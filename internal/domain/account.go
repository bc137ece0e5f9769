// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrOwnerAlreadyExists indicates that an account for the owner already exists.
	ErrOwnerAlreadyExists = errors.New("account owner already exists")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrNegativeAmount indicates negative amount.
	ErrNegativeAmount = errors.New("negative amount")
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidAdjustment indicates an unknown balance adjustment operation.
	ErrInvalidAdjustment = errors.New("invalid balance adjustment operation")
)

// Account holds a user's spendable balance in value units.
type Account struct {
	ID        int32     `json:"id"`
	Owner     string    `json:"owner"`
	Balance   string    `json:"balance"` // never negative
	CreatedAt time.Time `json:"created_at"`
}

// BalanceAdjustmentOp enumerates the supported balance adjustment operations.
type BalanceAdjustmentOp string

// Balance adjustment operations applied by the funding collaborator.
const (
	AdjustAdd      BalanceAdjustmentOp = "add"
	AdjustSubtract BalanceAdjustmentOp = "subtract"
	AdjustSet      BalanceAdjustmentOp = "set"
)

// BalanceAdjustment is a typed balance change request.
//
// Settlement never uses it; it exists so the funding/admin path does not leak
// untyped {operation, amount} shapes into the ledger contract.
type BalanceAdjustment struct {
	Op     BalanceAdjustmentOp `json:"op"`
	Amount string              `json:"amount"`
}
