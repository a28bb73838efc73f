package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kabadiconnect/kabadi-backend/internal/config"
)

// User roles carried in JWT claims.
const (
	RoleCitizen   = "CITIZEN"
	RoleCollector = "COLLECTOR"
	RoleAdmin     = "ADMIN"
)

// GenerateJWT generates a signed token for an authenticated user
func GenerateJWT(userID, role, name, language string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"role":     role,
		"name":     name,
		"language": language,
		"exp":      time.Now().Add(time.Second * time.Duration(cfg.JWT.ExpiresIn)).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ValidateJWT validates a token and returns its claims
func ValidateJWT(tokenString string, cfg *config.Config) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateOTP returns a 6-digit one-time password
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenerateRecyclerID returns a citizen recycler id like WR-2026-04213
func GenerateRecyclerID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("WR-%d-%05d", time.Now().Year(), n.Int64()), nil
}

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in km
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// PeriodStart maps a dashboard filter (daily/monthly/yearly) to the start of
// the current period, or nil for no filter
func PeriodStart(filter string, now time.Time) *time.Time {
	var start time.Time
	switch filter {
	case "daily":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "monthly":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case "yearly":
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return nil
	}
	return &start
}
