package model

// User is a document in the `users` collection. Email is the unique
// identifier used by the authorization layer; Role is read fresh from this
// record on every gated request.
//
// Fields:
//  ID         document id (`_id`).
//  Name       display name.
//  Email      unique email address.
//  Photo      avatar URL.
//  Role       student, instructor, admin, or unset.
//  Students   number of enrolled students (instructors only), used for
//             ranking popular instructors.
type User struct {
	ID       string `json:"_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email" validate:"required,email"`
	Photo    string `json:"photo,omitempty"`
	Role     Role   `json:"role"`
	Students int    `json:"students,omitempty"`
}

// HasRole reports whether the stored role equals want. An unset role never
// matches.
func (u User) HasRole(want Role) bool {
	return want != RoleUnset && u.Role == want
}
