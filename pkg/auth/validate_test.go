package auth

import "testing"

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		wantErr  bool
	}{
		{"validuser", false},
		{"user_123", false},
		{"ab", true},
		{"has space", true},
		{"user@name", true},
		{"", true},
		{"waaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaytoolong", true},
	}
	for _, tt := range tests {
		if err := ValidateUsername(tt.username); (err != nil) != tt.wantErr {
			t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"player@example.com", false},
		{"Player@Example.COM", false},
		{"no-at-sign", true},
		{"", true},
		{"a b@example.com", true},
	}
	for _, tt := range tests {
		if err := ValidateEmail(tt.email); (err != nil) != tt.wantErr {
			t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Player@Example.COM "); got != "player@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"longenough1", false},
		{"short1", true},
		{"nodigitshere", true},
		{"12345678", true},
	}
	for _, tt := range tests {
		if err := ValidatePassword(tt.password); (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}
