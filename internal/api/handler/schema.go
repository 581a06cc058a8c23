package handler

import "time"

// messageResponse is the envelope of authentication failures.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username        string `json:"username"        validate:"required,min=3,max=20"`
	Email           string `json:"email"           validate:"required,max=50,email"`
	Password        string `json:"password"        validate:"required,min=6,max=40"`
	FirstName       string `json:"firstName"       validate:"required"`
	LastName        string `json:"lastName"        validate:"required"`
	Address         string `json:"address"`
	Phone           string `json:"phone"           validate:"required,len=10,numeric"`
	ProfileImageURL string `json:"profileImageUrl" validate:"omitempty,url"`
}

// userUpdateRequest leaves a field unchanged when it is empty.
type userUpdateRequest struct {
	Username        string `json:"username"        validate:"omitempty,min=3,max=20"`
	Email           string `json:"email"           validate:"omitempty,max=50,email"`
	Password        string `json:"password"        validate:"omitempty,min=6,max=40"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Address         string `json:"address"`
	Phone           string `json:"phone"           validate:"omitempty,len=10,numeric"`
	ProfileImageURL string `json:"profileImageUrl" validate:"omitempty,url"`
}

type serviceRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	ImageURL    string  `json:"imageUrl"    validate:"omitempty,url"`
}

type bookingRequest struct {
	ServiceIDs      []int64   `json:"carServiceIds"   validate:"required,min=1"`
	BookingDateTime time.Time `json:"bookingDateTime" validate:"required,futureorpresent"`
}

type statusRequest struct {
	Status        string `json:"status"        validate:"required,oneof=PENDING CONFIRMED IN_PROGRESS COMPLETED CANCELLED"`
	PaymentStatus string `json:"paymentStatus" validate:"omitempty,oneof=PENDING PAID"`
}

type feedbackRequest struct {
	BookingID int64  `json:"bookingId" validate:"required"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"   validate:"max=500"`
}

// paymentRequest charges the booking total when Amount is zero.
type paymentRequest struct {
	BookingID int64   `json:"bookingId" validate:"required"`
	Amount    float64 `json:"amount"    validate:"omitempty,gt=0"`
}
