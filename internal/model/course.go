package model

import "time"

// Course is a row in the `courses` table.  PriceCents is what a payment
// for the course records in the ledger.
type Course struct {
    ID          uint64    `json:"id"`          // courses.id
    Title       string    `json:"title"`       // courses.title
    Description string    `json:"description"` // courses.description
    PriceCents  int64     `json:"price_cents"` // courses.price_cents
    CreatedAt   time.Time `json:"created_at"`  // courses.created_at
    UpdatedAt   time.Time `json:"updated_at"`  // courses.updated_at
}

// Lesson belongs to exactly one course and is ordered by Position.
type Lesson struct {
    ID        uint64    `json:"id"`         // lessons.id
    CourseID  uint64    `json:"course_id"`  // lessons.course_id
    Title     string    `json:"title"`      // lessons.title
    Content   string    `json:"content"`    // lessons.content
    Position  int       `json:"position"`   // lessons.position
    CreatedAt time.Time `json:"created_at"` // lessons.created_at
    UpdatedAt time.Time `json:"updated_at"` // lessons.updated_at
}
