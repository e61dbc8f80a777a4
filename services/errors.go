package services

import "github.com/pkg/errors"

var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrGuruNotFound        = errors.New("guru not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrChatNotFound        = errors.New("chat not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrUserNotFound        = errors.New("user not found")

	ErrInvalidPassword     = errors.New("invalid password")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidToken        = errors.New("invalid token")
	ErrAlreadyEnrolled     = errors.New("student is already enrolled with this guru")
	ErrInvalidTransition   = errors.New("a completed session cannot return to pending")
	ErrInvalidStatus       = errors.New("invalid session status")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrNoCompletedSession  = errors.New("no completed session between student and guru")
	ErrTreasuryUnset       = errors.New("treasury account is not configured")
	ErrTreasuryNotFound    = errors.New("treasury account not found")
	ErrReceiverNotFound    = errors.New("receiver not found")
	ErrSelfTransfer        = errors.New("treasury cannot pay itself")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadySettled      = errors.New("transaction already paid to teacher")
	ErrNotChatMember       = errors.New("sender is not part of this chat")
	ErrEmptyMessage        = errors.New("message must be a non-empty string")
	ErrSecretUnset         = errors.New("JWT_SECRET is not configured")
)
