package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/procure-recon/internal/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestParse(t *testing.T) {
	userID := uuid.New()
	parser := NewParser(testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":      userID.String(),
		"org_code": "ORG1",
		"role":     "approver",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	principal, err := parser.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if principal.UserID != userID {
		t.Errorf("userID = %s, want %s", principal.UserID, userID)
	}
	if principal.OrgCode != "ORG1" {
		t.Errorf("orgCode = %q, want ORG1", principal.OrgCode)
	}
	if principal.Role != model.RoleApprover {
		t.Errorf("role = %s, want APPROVER", principal.Role)
	}
}

func TestParseRejectsBadTokens(t *testing.T) {
	parser := NewParser(testSecret)
	userID := uuid.NewString()

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", signToken(t, "other-secret", jwt.MapClaims{
			"sub": userID, "org_code": "ORG1", "role": "admin",
		})},
		{"expired", signToken(t, testSecret, jwt.MapClaims{
			"sub": userID, "org_code": "ORG1", "role": "admin",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})},
		{"missing org", signToken(t, testSecret, jwt.MapClaims{
			"sub": userID, "role": "admin",
		})},
		{"bad subject", signToken(t, testSecret, jwt.MapClaims{
			"sub": "u-1", "org_code": "ORG1", "role": "admin",
		})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parser.Parse(tc.token); err == nil {
				t.Error("Parse succeeded, want error")
			}
		})
	}
}

func TestParseUnknownRoleDefaultsToViewer(t *testing.T) {
	parser := NewParser(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":      uuid.NewString(),
		"org_code": "ORG1",
		"role":     "superuser",
	})

	principal, err := parser.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if principal.Role != model.RoleViewer {
		t.Errorf("role = %s, want VIEWER fallback", principal.Role)
	}
}
