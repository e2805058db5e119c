package model

// SelectedClass is a document in the `selectedClass` collection: a class a
// student has put in their cart. Email identifies the student.
type SelectedClass struct {
	ID             string  `json:"_id,omitempty"`
	ClassID        string  `json:"classId" validate:"required"`
	Name           string  `json:"name,omitempty"`
	Image          string  `json:"image,omitempty"`
	InstructorName string  `json:"instructorName,omitempty"`
	Price          float64 `json:"price"`
	Email          string  `json:"email" validate:"required,email"`
}
