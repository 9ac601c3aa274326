package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (poisha). All arithmetic stays on
// the integer; decimal is used for rendering only.
type Money int64

func (m Money) Display() string {
	return "৳" + decimal.New(int64(m), -2).StringFixed(2)
}

type Book struct {
	BID    string `json:"bid,omitempty"`
	Title  string `json:"title" validate:"required"`
	Author string `json:"author"`
	Desc   string `json:"desc"`
	Genre  string `json:"genre"`
	Price  Money  `json:"price" validate:"gte=0"`
}

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "CASH"
	PaymentBkash PaymentMethod = "BKASH"
	PaymentNagad PaymentMethod = "NAGAD"
	PaymentCard  PaymentMethod = "CARD"
)

func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentBkash, PaymentNagad, PaymentCard}
}

// OrderItem is one cart line snapshotted into a draft.
type OrderItem struct {
	BID      string `json:"id"`
	Title    string `json:"title"`
	Price    Money  `json:"price"`
	Quantity int    `json:"quantity"`
}

// OrderDraft is immutable once submitted; resubmission requires a new
// draft built from the surviving cart.
type OrderDraft struct {
	PhoneNumber   string        `json:"phone_number" validate:"required,e164"`
	Address       string        `json:"address" validate:"required"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=CASH BKASH NAGAD CARD"`
	Items         []OrderItem   `json:"books" validate:"required,min=1,dive"`
}

func (d OrderDraft) Total() Money {
	var total Money
	for _, it := range d.Items {
		total += it.Price * Money(it.Quantity)
	}
	return total
}

// Order is the confirmed payload returned by a successful verify.
type Order struct {
	OID           string        `json:"oid"`
	PhoneNumber   string        `json:"phone_number"`
	Address       string        `json:"address"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Items         []OrderItem   `json:"books"`
	Total         Money         `json:"total"`
	ConfirmedAt   time.Time     `json:"confirmed_at"`
}
