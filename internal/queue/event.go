// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// PaymentQueueName is the durable queue payment events are routed to.
const PaymentQueueName = "payment.recorded"

// PaymentRecordedEvent is published after a payment has been written to the
// ledger and its enrollment flipped to PAID.  It carries enough for
// downstream consumers to audit or notify without querying the database.
type PaymentRecordedEvent struct {
    PaymentID    uint64 `json:"payment_id"`
    EnrollmentID uint64 `json:"enrollment_id"`
    UserID       uint64 `json:"user_id"`
    CourseID     uint64 `json:"course_id"`
    AmountCents  int64  `json:"amount_cents"`
    PaidAt       string `json:"paid_at"`
}
