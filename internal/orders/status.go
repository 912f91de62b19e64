package orders

import "github.com/ariefcatur/ricemart-orders/internal/apperr"

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPlaced    Status = "Placed"
	StatusShipped   Status = "Shipped"
	StatusCompleted Status = "Completed"
	StatusCanceled  Status = "Canceled"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusPlaced: true, StatusShipped: true, StatusCompleted: true, StatusCanceled: true},
	StatusPlaced:    {StatusShipped: true, StatusCompleted: true, StatusCanceled: true},
	StatusShipped:   {StatusCompleted: true, StatusCanceled: true},
	StatusCompleted: {},
	StatusCanceled:  {},
}

// ParseStatus accepts only the exact enumeration values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := validNext[st]; !ok {
		return "", apperr.InvalidInputf("invalid status %q", s)
	}
	return st, nil
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}
