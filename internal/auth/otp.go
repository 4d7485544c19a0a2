// Package auth implements OTP email sign-in: a short-lived code is mailed to
// the customer, and a successful verification mints a JWT session plus a
// refresh token. Codes are stored bcrypt-hashed in redis with a TTL.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/coffee-storefront/internal/redissvc"
)

// ErrInvalidCode is returned when the submitted code does not match.
var ErrInvalidCode = errors.New("invalid code")

// ErrCodeExpired is returned when no code is pending for the email.
var ErrCodeExpired = errors.New("code expired or not requested")

// ErrTooManyAttempts is returned after the per-code attempt budget is spent.
var ErrTooManyAttempts = errors.New("too many attempts")

// ErrSessionNotFound is returned for unknown or expired refresh tokens.
var ErrSessionNotFound = errors.New("session not found")

const (
	maxAttempts     = 5
	refreshTokenTTL = 24 * time.Hour
)

// Session is the result of a successful verification.
type Session struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	Email        string `json:"email"`
	Role         string `json:"role"`
}

// OTPService owns code issuance and verification.
type OTPService struct {
	rs     *redissvc.RedisService
	mailer Mailer
	ttl    time.Duration
	admins map[string]bool
}

func NewOTPService(rs *redissvc.RedisService, mailer Mailer, ttl time.Duration, adminEmails []string) *OTPService {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(e)] = true
	}
	return &OTPService{rs: rs, mailer: mailer, ttl: ttl, admins: admins}
}

// SendOTP issues a fresh 6-digit code for the email, replacing any pending
// one, and mails it. Only the bcrypt hash is stored.
func (s *OTPService) SendOTP(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return errors.New("invalid email")
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	rdb, ctx := s.rs.Rdb(), s.rs.Ctx()
	if err := rdb.Set(ctx, otpKey(email), string(hash), s.ttl).Err(); err != nil {
		return fmt.Errorf("storing code: %w", err)
	}
	if err := rdb.Del(ctx, attemptsKey(email)).Err(); err != nil {
		return fmt.Errorf("resetting attempts: %w", err)
	}

	return s.mailer.SendCode(email, code)
}

// VerifyOTP checks the code and, on success, consumes it and opens a session.
func (s *OTPService) VerifyOTP(email, code string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	rdb, ctx := s.rs.Rdb(), s.rs.Ctx()

	attempts, err := rdb.Incr(ctx, attemptsKey(email)).Result()
	if err != nil {
		return Session{}, err
	}
	if attempts == 1 {
		rdb.Expire(ctx, attemptsKey(email), s.ttl)
	}
	if attempts > maxAttempts {
		return Session{}, ErrTooManyAttempts
	}

	hash, err := rdb.Get(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrCodeExpired
	}
	if err != nil {
		return Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		return Session{}, ErrInvalidCode
	}

	// Code is single-use.
	rdb.Del(ctx, otpKey(email), attemptsKey(email))

	return s.openSession(email)
}

// RefreshSession trades a refresh token for a fresh JWT.
func (s *OTPService) RefreshSession(refreshToken string) (Session, error) {
	rdb, ctx := s.rs.Rdb(), s.rs.Ctx()

	email, err := rdb.Get(ctx, refreshKey(refreshToken)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}

	role := s.roleFor(email)
	token, err := GenerateToken(email, role)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, RefreshToken: refreshToken, Email: email, Role: role}, nil
}

// Logout invalidates the refresh token. The short-lived JWT is left to
// expire on its own.
func (s *OTPService) Logout(refreshToken string) error {
	rdb, ctx := s.rs.Rdb(), s.rs.Ctx()
	return rdb.Del(ctx, refreshKey(refreshToken)).Err()
}

func (s *OTPService) openSession(email string) (Session, error) {
	role := s.roleFor(email)
	token, err := GenerateToken(email, role)
	if err != nil {
		return Session{}, err
	}

	refreshToken := uuid.NewString()
	rdb, ctx := s.rs.Rdb(), s.rs.Ctx()
	if err := rdb.Set(ctx, refreshKey(refreshToken), email, refreshTokenTTL).Err(); err != nil {
		return Session{}, fmt.Errorf("storing refresh token: %w", err)
	}

	return Session{Token: token, RefreshToken: refreshToken, Email: email, Role: role}, nil
}

func (s *OTPService) roleFor(email string) string {
	if s.admins[email] {
		return "admin"
	}
	return "customer"
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func otpKey(email string) string      { return "otp:" + email }
func attemptsKey(email string) string { return "otp:attempts:" + email }
func refreshKey(token string) string  { return "refresh:" + token }
