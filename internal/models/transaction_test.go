package models

import "testing"

func TestTransactionTypeValid(t *testing.T) {
	for _, kind := range []TransactionType{TypePointsAdded, TypeStampAdded, TypePointsRedeemed, TypeCashbackRedeemed} {
		if !kind.Valid() {
			t.Errorf("%s should be valid", kind)
		}
	}
	for _, kind := range []TransactionType{"", "points", "POINTS_ADDED", "points_expired"} {
		if kind.Valid() {
			t.Errorf("%q should not be valid", kind)
		}
	}
}

func TestTransactionTypeDirection(t *testing.T) {
	if !TypePointsAdded.Credit() || !TypeStampAdded.Credit() {
		t.Error("earn types must credit the balance")
	}
	if TypePointsRedeemed.Credit() || TypeCashbackRedeemed.Credit() {
		t.Error("redeem types must debit the balance")
	}
}
