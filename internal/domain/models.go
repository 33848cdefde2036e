package domain

import (
	"errors"
	"strings"
	"time"
)

// Enumerations
const (
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"

	OrderInProgress  OrderStatus = "IN_PROGRESS"
	OrderCompleted   OrderStatus = "COMPLETED"
	OrderNotProvided OrderStatus = "NOT_PROVIDED"

	PaymentCash PaymentType = "CASH"
	PaymentQR   PaymentType = "QR"

	PaymentNotPaid PaymentStatus = "NOT_PAID"
	PaymentPaid    PaymentStatus = "PAID"
)

type Role string
type OrderStatus string
type PaymentType string
type PaymentStatus string

var ErrUnknownPaymentType = errors.New("unknown payment type")

// ParsePaymentType accepts any letter case and surrounding spaces.
func ParsePaymentType(s string) (PaymentType, error) {
	switch pt := PaymentType(strings.ToUpper(strings.TrimSpace(s))); pt {
	case PaymentCash, PaymentQR:
		return pt, nil
	}
	return "", ErrUnknownPaymentType
}

// ParseRole defaults to RoleEmployee for an empty value.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case "":
		return RoleEmployee, true
	case RoleEmployee, RoleAdmin:
		return r, true
	}
	return "", false
}

// Terminal reports whether no further transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderNotProvided
}

type Employee struct {
	ID        int64
	Name      string
	BranchID  int64
	Role      Role
	Active    bool
	PinHash   string
	// PinLookup is a keyed digest of the PIN; unique across employees.
	PinLookup string
	CreatedAt time.Time
}

func (e Employee) IsAdmin() bool { return e.Role == RoleAdmin }

// Service is a catalog entry; Price is in the smallest currency unit.
type Service struct {
	ID        int64
	Name      string
	Price     int64
	CreatedAt time.Time
}

type Shift struct {
	ID         int64
	EmployeeID int64
	StartedAt  time.Time
	EndedAt    *time.Time
	Active     bool
}

type Order struct {
	ID                int64
	EmployeeID        int64
	BranchID          int64
	ClientName        string
	ClientPhone       string
	Status            OrderStatus
	PaymentType       *PaymentType
	PaymentStatus     PaymentStatus
	NotProvidedReason string
	CreatedAt         time.Time
	CompletedAt       *time.Time
	Items             []OrderItem
}

// OrderItem links an order to a service with the price captured at intake.
type OrderItem struct {
	ServiceID int64
	Name      string
	Price     int64
}

// Amount sums every linked service.
func (o Order) Amount() int64 {
	var sum int64
	for _, it := range o.Items {
		sum += it.Price
	}
	return sum
}

func (o Order) ServiceNames() []string {
	names := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		names = append(names, it.Name)
	}
	return names
}

// Paid reports whether the order counts toward revenue.
func (o Order) Paid() bool {
	return o.Status == OrderCompleted && o.PaymentStatus == PaymentPaid && o.CompletedAt != nil
}
