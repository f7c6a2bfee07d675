package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/gasops-dashboard/internal/model"
)

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

type accessClaims struct {
	Role       string   `json:"role"`
	StationIDs []string `json:"station_ids"`
	jwt.RegisteredClaims
}

// Parse validates an HS256 access token and extracts the principal with its
// station-ownership set. Unknown station ids in the claim are dropped.
func (p *Parser) Parse(token string) (model.Principal, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, err
	}
	if !parsed.Valid {
		return model.Principal{}, fmt.Errorf("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Principal{}, fmt.Errorf("invalid subject: %w", err)
	}

	stations := make([]uuid.UUID, 0, len(claims.StationIDs))
	for _, raw := range claims.StationIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		stations = append(stations, id)
	}

	return model.Principal{
		UserID:     userID,
		Role:       claims.Role,
		StationIDs: stations,
	}, nil
}
