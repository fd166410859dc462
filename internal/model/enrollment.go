package model

import "time"

// EnrollmentStatus tracks how far a user has progressed towards owning a course.
type EnrollmentStatus string

const (
    StatusNew               EnrollmentStatus = "NEW"
    StatusWaitingForPayment EnrollmentStatus = "WAITING_FOR_PAYMENT"
    StatusPaid              EnrollmentStatus = "PAID"
)

// transitions lists the moves the payment flow is allowed to make.  PAID is
// terminal.
var transitions = map[EnrollmentStatus][]EnrollmentStatus{
    StatusNew:               {StatusWaitingForPayment, StatusPaid},
    StatusWaitingForPayment: {StatusPaid, StatusNew},
    StatusPaid:              nil,
}

// Valid reports whether s is one of the enum values.
func (s EnrollmentStatus) Valid() bool {
    _, ok := transitions[s]
    return ok
}

// CanTransition reports whether the payment flow may move from s to next.
func (s EnrollmentStatus) CanTransition(next EnrollmentStatus) bool {
    for _, t := range transitions[s] {
        if t == next {
            return true
        }
    }
    return false
}

// Enrollment ties one user to one course.  (UserID, CourseID) is unique.
type Enrollment struct {
    ID        uint64           `json:"id"`         // enrollments.id
    UserID    uint64           `json:"user_id"`    // enrollments.user_id
    CourseID  uint64           `json:"course_id"`  // enrollments.course_id
    Status    EnrollmentStatus `json:"status"`     // enrollments.status
    CreatedAt time.Time        `json:"created_at"` // enrollments.created_at
    UpdatedAt time.Time        `json:"updated_at"` // enrollments.updated_at
}

// Payment is an immutable ledger row.
type Payment struct {
    ID          uint64    `json:"id"`           // payments.id
    UserID      uint64    `json:"user_id"`      // payments.user_id
    CourseID    uint64    `json:"course_id"`    // payments.course_id
    AmountCents int64     `json:"amount_cents"` // payments.amount_cents
    CreatedAt   time.Time `json:"created_at"`   // payments.created_at
}
