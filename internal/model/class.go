package model

// ClassStatus is the review state of a class.
type ClassStatus string

const (
	ClassPending  ClassStatus = "pending"
	ClassApproved ClassStatus = "approved"
	ClassRejected ClassStatus = "rejected"
)

// Class is a document in the `classes` collection. Instructors create
// classes in the pending state; admins approve or reject them, optionally
// leaving feedback.
//
// Fields:
//  ID               document id (`_id`).
//  Name             class title.
//  Image            cover image URL.
//  InstructorName   display name of the owning instructor.
//  Email            email of the owning instructor.
//  Seats            available seats.
//  Price            price in the platform currency.
//  Enrolled         number of enrolled students, used for popularity.
//  Status           pending, approved or rejected.
//  Feedback         admin feedback attached on review.
type Class struct {
	ID             string      `json:"_id,omitempty"`
	Name           string      `json:"name" validate:"required"`
	Image          string      `json:"image,omitempty"`
	InstructorName string      `json:"instructorName,omitempty"`
	Email          string      `json:"email" validate:"required,email"`
	Seats          int         `json:"seats" validate:"gte=0"`
	Price          float64     `json:"price" validate:"gte=0"`
	Enrolled       int         `json:"enrolled"`
	Status         ClassStatus `json:"status,omitempty"`
	Feedback       string      `json:"feedback,omitempty"`
}
