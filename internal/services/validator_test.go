package services

import (
	"errors"
	"testing"
)

func TestValidatorTransaction(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	valid := []byte(`{
		"customer_id": "7f8a1f8e-6f0b-4c45-9a2e-0c1d2e3f4a5b",
		"type": "points_added",
		"amount": 100,
		"description": "coffee purchase",
		"metadata": {"order": 42}
	}`)
	if err := v.Validate("transaction", valid); err != nil {
		t.Errorf("valid body rejected: %v", err)
	}

	cases := []struct {
		name string
		body string
	}{
		{"missing customer_id", `{"type":"points_added","amount":10}`},
		{"unknown type", `{"customer_id":"7f8a1f8e-6f0b-4c45-9a2e-0c1d2e3f4a5b","type":"points_gifted","amount":10}`},
		{"negative amount", `{"customer_id":"7f8a1f8e-6f0b-4c45-9a2e-0c1d2e3f4a5b","type":"points_added","amount":-1}`},
		{"string amount", `{"customer_id":"7f8a1f8e-6f0b-4c45-9a2e-0c1d2e3f4a5b","type":"points_added","amount":"10"}`},
		{"extra property", `{"customer_id":"7f8a1f8e-6f0b-4c45-9a2e-0c1d2e3f4a5b","type":"points_added","amount":10,"extra":true}`},
		{"not json at all", `hello`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate("transaction", []byte(tc.body))
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got: %v", err)
			}
		})
	}
}

func TestValidatorCustomerAndCampaign(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	if err := v.Validate("customer", []byte(`{"name":"Ada","email":"ada@example.test"}`)); err != nil {
		t.Errorf("valid customer rejected: %v", err)
	}
	if err := v.Validate("customer", []byte(`{"email":"ada@example.test"}`)); !errors.Is(err, ErrValidation) {
		t.Errorf("customer without name: expected ErrValidation, got %v", err)
	}

	if err := v.Validate("campaign", []byte(`{"name":"Free coffee","type":"stamps","reward":"1 coffee","points_required":10}`)); err != nil {
		t.Errorf("valid campaign rejected: %v", err)
	}
	if err := v.Validate("campaign", []byte(`{"name":"Free coffee","type":"raffle","reward":"x","points_required":10}`)); !errors.Is(err, ErrValidation) {
		t.Errorf("campaign with unknown type: expected ErrValidation, got %v", err)
	}
}

func TestValidatorUnknownSchema(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	err = v.Validate("receipt", []byte(`{}`))
	if err == nil || errors.Is(err, ErrValidation) {
		t.Errorf("unknown schema should be a plain error, got: %v", err)
	}
}
