package station

import "time"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Address         string `json:"address,omitempty"`
	Phone           string `json:"phone,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// UserUpdateRequest is sent as is; an empty Password leaves the password unchanged.
type UserUpdateRequest struct {
	Username        string `json:"username,omitempty"`
	Email           string `json:"email,omitempty"`
	Password        string `json:"password,omitempty"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	Address         string `json:"address,omitempty"`
	Phone           string `json:"phone,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

type ServiceRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

type BookingRequest struct {
	ServiceIDs      []int64   `json:"carServiceIds"`
	BookingDateTime time.Time `json:"bookingDateTime"`
}

type FeedbackRequest struct {
	BookingID int64  `json:"bookingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

type PaymentRequest struct {
	BookingID int64   `json:"bookingId"`
	Amount    float64 `json:"amount"`
}

type statusUpdate struct {
	Status string `json:"status"`
}
