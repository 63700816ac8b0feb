package auth

import "testing"

func TestValidatePasswordPolicy(t *testing.T) {
	cases := []struct {
		name    string
		pw      string
		wantErr bool
	}{
		{"too short", "Aa1!", true},
		{"missing special", "Abcdefg1", true},
		{"missing digit", "Abcdefg!", true},
		{"missing upper", "abcdefg1!", true},
		{"missing lower", "ABCDEFG1!", true},
		{"meets policy", "Abcdefg1!", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidatePasswordPolicy(c.pw)
			if c.wantErr && err == nil {
				t.Fatalf("expected an error for %q", c.pw)
			}
			if !c.wantErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", c.pw, err)
			}
		})
	}
}

func TestWasPreviouslyUsedChecksHistory(t *testing.T) {
	current, _ := HashPassword("Current1!")
	old, _ := HashPassword("OldPass1!")

	if !WasPreviouslyUsed("Current1!", current, nil) {
		t.Fatal("current password must count as previously used")
	}
	if !WasPreviouslyUsed("OldPass1!", current, []string{old}) {
		t.Fatal("a retained prior hash must count as previously used")
	}
	if WasPreviouslyUsed("BrandNew1!", current, []string{old}) {
		t.Fatal("a genuinely new password must not be flagged as reused")
	}
}

func TestPushHistoryTrimsToDepth(t *testing.T) {
	history := []string{"h4", "h3", "h2", "h1", "h0"}
	updated := PushHistory(history, "h5")
	if len(updated) != HistoryDepth {
		t.Fatalf("expected history capped at %d entries, got %d", HistoryDepth, len(updated))
	}
	if updated[0] != "h5" {
		t.Fatalf("expected newest hash first, got %q", updated[0])
	}
}

func TestGenerateTemporaryPasswordMeetsPolicy(t *testing.T) {
	temp, err := GenerateTemporaryPassword()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidatePasswordPolicy(temp); err != nil {
		t.Fatalf("generated temporary password failed policy: %v", err)
	}
}
