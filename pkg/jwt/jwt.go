package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims incluye los claims estándar JWT más el alcance de la credencial:
// una empresa (CompanyID) o el administrador (Admin).
// ID (jti) es aleatorio para que dos logins en el mismo segundo produzcan tokens distintos.
type Claims struct {
	jwt.RegisteredClaims
	CompanyID string `json:"empresa_id,omitempty"`
	Admin     bool   `json:"admin,omitempty"`
}

// GenerateForCompany genera un token firmado para una empresa.
func GenerateForCompany(secret, companyID, issuer string, expMinutes int) (string, error) {
	return generate(secret, Claims{CompanyID: companyID}, companyID, issuer, expMinutes)
}

// GenerateForAdmin genera un token firmado con el rol de administrador.
func GenerateForAdmin(secret, issuer string, expMinutes int) (string, error) {
	return generate(secret, Claims{Admin: true}, "admin", issuer, expMinutes)
}

func generate(secret string, claims Claims, subject, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve los claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if !claims.Admin && claims.CompanyID == "" {
		return nil, fmt.Errorf("token sin alcance")
	}
	return claims, nil
}
