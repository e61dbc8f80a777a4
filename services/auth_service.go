package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	config "github.com/gurukul/gurukul-backend/configs"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const passwordCost = 10

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func signingKey() ([]byte, error) {
	secret := config.Config("JWT_SECRET")
	if secret == "" {
		return nil, ErrSecretUnset
	}
	return []byte(secret), nil
}

// GenerateToken signs {id, role} with the configured secret.
func GenerateToken(id uuid.UUID, role string) (string, error) {
	key, err := signingKey()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"id":   id.String(),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(config.Duration("JWT_EXPIRY")).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// VerificationKey is the jwt.Keyfunc for tokens issued by GenerateToken.
// It accepts HMAC signatures only and fails while no secret is configured.
func VerificationKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return signingKey()
}

func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, VerificationKey)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// Identity is the caller named by a token.
type Identity struct {
	ID   uuid.UUID
	Role string
}

func IdentityFromClaims(claims jwt.MapClaims) (Identity, error) {
	rawID, _ := claims["id"].(string)
	role, _ := claims["role"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil || role == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: id, Role: role}, nil
}

// Login checks credentials for the given role and returns the account and a fresh token.
// Admins are gurus whose role is admin.
func Login(db *gorm.DB, role, email, password string) (interface{}, string, error) {
	var (
		account interface{}
		id      uuid.UUID
		hash    string
		err     error
	)

	switch role {
	case models.RoleGuru, models.RoleAdmin:
		var guru models.Guru
		q := db.Where("email = ?", strings.TrimSpace(email))
		if role == models.RoleAdmin {
			q = q.Where("role = ?", models.RoleAdmin)
		}
		err = q.First(&guru).Error
		account, id, hash = &guru, guru.ID, guru.Password
	case models.RoleStudent:
		var student models.Student
		err = db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&student).Error
		account, id, hash = &student, student.ID, student.Password
	default:
		return nil, "", ErrInvalidRole
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrUserNotFound
	}
	if err != nil {
		return nil, "", errors.Wrap(err, "load account")
	}
	if !CheckPassword(hash, password) {
		return nil, "", ErrInvalidPassword
	}

	token, err := GenerateToken(id, role)
	if err != nil {
		return nil, "", errors.Wrap(err, "sign token")
	}
	return account, token, nil
}

// LoadAccount returns the guru or student named by an identity.
func LoadAccount(db *gorm.DB, who Identity) (interface{}, error) {
	var err error
	var account interface{}
	switch who.Role {
	case models.RoleGuru, models.RoleAdmin:
		var guru models.Guru
		err = db.First(&guru, "id = ?", who.ID).Error
		account = &guru
	case models.RoleStudent:
		var student models.Student
		err = db.First(&student, "id = ?", who.ID).Error
		account = &student
	default:
		return nil, ErrInvalidRole
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load account")
	}
	return account, nil
}
