package model

// Address is a delivery address referenced by placed orders.
type Address struct {
	ID       int64  `json:"id" db:"id"`
	Street   string `json:"street" db:"street"`
	Building string `json:"building" db:"building"`
	City     string `json:"city" db:"city"`
	State    string `json:"state" db:"state"`
	Country  string `json:"country" db:"country"`
	Pincode  string `json:"pincode" db:"pincode"`
}

// AddressRequest represents the payload for creating an address.
type AddressRequest struct {
	Street   string `json:"street" validate:"required"`
	Building string `json:"building"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Country  string `json:"country" validate:"required"`
	Pincode  string `json:"pincode" validate:"required,min=5"`
}
