package services

import "errors"

var (
	// ErrMatchRequestPending rejects a second match request for a user while
	// the first one is still running.
	ErrMatchRequestPending = errors.New("a match request is already in progress")

	ErrUserNotFound           = errors.New("user not found")
	ErrMatchNotFound          = errors.New("match not found")
	ErrNotParticipant         = errors.New("user is not a participant of this match")
	ErrEmailTaken             = errors.New("email is already registered")
	ErrQuestionnaireCompleted = errors.New("questionnaire has already been completed")
	ErrInvalidAnswers         = errors.New("answers must be 10 values between 1 and 5")
	ErrInvalidProfile         = errors.New("name and email are required")

	errCounterpartUnavailable = errors.New("counterpart already has a match")
)
