package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/rogerio-castellano/coffee-storefront/internal/auth"
)

// SendOTPHandler godoc
// @Summary Mail a one-time sign-in code
// @Tags auth
// @Accept json
// @Produce json
// @Param email body SendOTPRequest true "Customer email"
// @Success 202 {object} map[string]string
// @Failure 400 {string} string "Invalid input"
// @Router /auth/otp [post]
func SendOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req SendOTPRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	if err := otpService.SendOTP(req.Email); err != nil {
		log.Printf("sending OTP to %s: %v", req.Email, err)
		http.Error(w, "could not send code", http.StatusBadRequest)
		return
	}

	// 202: the code is on its way, nothing to return.
	if err := writeJSON(w, http.StatusAccepted, map[string]string{"message": "code sent"}); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

// VerifyOTPHandler godoc
// @Summary Verify a one-time code and open a session
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body VerifyOTPRequest true "Email and code"
// @Success 200 {object} auth.Session
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Invalid or expired code"
// @Failure 429 {string} string "Too many attempts"
// @Router /auth/verify [post]
func VerifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Code == "" {
		http.Error(w, "email and code are required", http.StatusBadRequest)
		return
	}

	session, err := otpService.VerifyOTP(req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTooManyAttempts):
			http.Error(w, "too many attempts", http.StatusTooManyRequests)
		case errors.Is(err, auth.ErrInvalidCode), errors.Is(err, auth.ErrCodeExpired):
			http.Error(w, "invalid or expired code", http.StatusUnauthorized)
		default:
			log.Printf("verifying OTP for %s: %v", req.Email, err)
			http.Error(w, "could not verify code", http.StatusInternalServerError)
		}
		return
	}

	if err := writeJSON(w, http.StatusOK, session); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

// RefreshSessionHandler godoc
// @Summary Trade a refresh token for a fresh session token
// @Tags auth
// @Accept json
// @Produce json
// @Param token body RefreshRequest true "Refresh token"
// @Success 200 {object} auth.Session
// @Failure 401 {string} string "Unknown session"
// @Router /auth/refresh [post]
func RefreshSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	session, err := otpService.RefreshSession(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			http.Error(w, "unknown session", http.StatusUnauthorized)
			return
		}
		http.Error(w, "could not refresh session", http.StatusInternalServerError)
		return
	}

	if err := writeJSON(w, http.StatusOK, session); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

// LogoutHandler godoc
// @Summary Invalidate a refresh token
// @Tags auth
// @Accept json
// @Success 204 "Logged out"
// @Router /auth/logout [post]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if err := otpService.Logout(req.RefreshToken); err != nil {
		log.Printf("logout: %v", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
