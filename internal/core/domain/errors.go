package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("Error: Username is already taken!")
	ErrEmailTaken         = errors.New("Error: Email is already in use!")
	ErrForbidden          = errors.New("access forbidden")

	ErrServiceNotFound  = errors.New("service not found")
	ErrInvalidServiceID = errors.New("One or more service IDs are invalid.")

	ErrBookingNotFound      = errors.New("Booking not found.")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrBookingNotCompleted  = errors.New("Booking can only be deleted if its status is 'COMPLETED'.")
	ErrFeedbackNotOwner     = errors.New("You can only leave feedback for your own bookings.")
	ErrFeedbackNotCompleted = errors.New("You can only leave feedback for completed bookings.")
	ErrFeedbackExists       = errors.New("Feedback for this booking has already been submitted.")

	ErrAlreadyPaid         = errors.New("Payment for this booking is already completed.")
	ErrPaymentVerification = errors.New("Payment verification failed.")
	ErrPaymentAlreadyUsed  = errors.New("Payment has already been processed.")
	ErrPaymentAmount       = errors.New("Payment amount must match the booking total.")
	ErrOrderNotFound       = errors.New("payment order not found")
)

var (
	ErrInvalidRating      = errors.New("Rating must be between 1 and 5.")
	ErrInvalidPaymentInfo = errors.New("Payment details are incomplete.")
)
