package order

import "testing"

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusNew, StatusFilled, true},
		{StatusNew, StatusExpired, true},
		{StatusNew, StatusRejected, true},
		{StatusNew, StatusNew, true},
		{StatusFilled, StatusExpired, false},
		{StatusExpired, StatusFilled, false},
	}
	for _, tt := range tests {
		err := ValidateTransition(tt.from, tt.to)
		if (err == nil) != tt.ok {
			t.Fatalf("%s -> %s: ok=%v err=%v", tt.from, tt.to, tt.ok, err)
		}
	}
	if !StatusRejected.IsFinal() || StatusNew.IsFinal() {
		t.Fatalf("IsFinal mismatch")
	}
}
