package domain

import "time"

type TransactionKind string

const (
	KindIncome  TransactionKind = "INCOME"
	KindExpense TransactionKind = "EXPENSE"
)

// Valid reports whether the kind is one of the two accepted variants.
func (k TransactionKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is a single ledger entry recorded by a user.
// Amount is expressed in whole currency units and is always positive;
// the kind carries the income/expense direction.
type Transaction struct {
	ID          string
	Description string
	Amount      int64
	Kind        TransactionKind
	OccurredOn  time.Time
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Owner       *OwnerSummary
}

// OwnerSummary is the slice of the owning user joined onto transaction reads.
type OwnerSummary struct {
	ID    string
	Name  string
	Email string
}

// TransactionPatch carries a partial update. Fields left unset keep the
// stored value.
type TransactionPatch struct {
	Description Optional[string]
	Amount      Optional[int64]
	Kind        Optional[TransactionKind]
	OccurredOn  Optional[time.Time]
}
