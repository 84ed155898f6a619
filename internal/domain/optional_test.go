package domain

import (
	"encoding/json"
	"testing"
)

func TestOptionalDistinguishesAbsentNullValue(t *testing.T) {
	type payload struct {
		Phone Optional[string] `json:"phone"`
	}

	tests := []struct {
		name     string
		body     string
		wantSet  bool
		wantNull bool
		want     string
	}{
		{"absent", `{}`, false, false, ""},
		{"null", `{"phone":null}`, true, true, ""},
		{"empty", `{"phone":""}`, true, false, ""},
		{"value", `{"phone":"555-0101"}`, true, false, "555-0101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.body, err)
			}
			if p.Phone.Set != tt.wantSet {
				t.Errorf("Set = %v, want %v", p.Phone.Set, tt.wantSet)
			}
			if p.Phone.Null != tt.wantNull {
				t.Errorf("Null = %v, want %v", p.Phone.Null, tt.wantNull)
			}
			if p.Phone.Value != tt.want {
				t.Errorf("Value = %q, want %q", p.Phone.Value, tt.want)
			}
		})
	}
}

func TestOptionalNumericValue(t *testing.T) {
	type payload struct {
		Amount Optional[int64] `json:"amount"`
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"amount":300}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.Amount.Set || p.Amount.Null || p.Amount.Value != 300 {
		t.Errorf("got %+v, want set value 300", p.Amount)
	}
}
