package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/procure-recon/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

type claims struct {
	OrgCode string `json:"org_code"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// Parse validates an access token and extracts the principal.
func (p *Parser) Parse(tokenString string) (model.Principal, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return model.Principal{}, ErrInvalidToken
	}

	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}
	if c.OrgCode == "" {
		return model.Principal{}, ErrInvalidToken
	}

	role := model.Role(strings.ToUpper(c.Role))
	switch role {
	case model.RoleAdmin, model.RoleApprover, model.RoleViewer:
	default:
		role = model.RoleViewer
	}

	return model.Principal{
		UserID:  userID,
		OrgCode: c.OrgCode,
		Role:    role,
	}, nil
}
