package models

type PaymentMethod string

const (
	PaymentBank      PaymentMethod = "bank"
	PaymentStripe    PaymentMethod = "stripe"
	PaymentGooglePay PaymentMethod = "google_pay"
	PaymentApplePay  PaymentMethod = "apple_pay"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentBank, PaymentStripe, PaymentGooglePay, PaymentApplePay:
		return true
	}
	return false
}

type User struct {
	ID                     int           `json:"id"`
	Username               string        `json:"username"`
	Email                  string        `json:"email"`
	FirstName              string        `json:"first_name"`
	LastName               string        `json:"last_name"`
	ProfilePhoto           string        `json:"profile_photo,omitempty"`
	Bio                    string        `json:"bio,omitempty"`
	Phone                  string        `json:"phone,omitempty"`
	DeliveryAddress        string        `json:"delivery_address,omitempty"`
	PreferredPaymentMethod PaymentMethod `json:"preferred_payment_method,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Password2 string `json:"password2" binding:"required,eqfield=Password"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// ProfileUpdate carries the editable profile fields. Nil fields are
// left untouched; the avatar travels separately as a multipart file.
type ProfileUpdate struct {
	FirstName              *string
	LastName               *string
	Email                  *string
	Bio                    *string
	Phone                  *string
	DeliveryAddress        *string
	PreferredPaymentMethod *PaymentMethod
}
