package models

// Parent defines a parent profile based on the 'parents' table. Children
// are attached through the parent_students join table; siblings share the
// same parent rows.
type Parent struct {
	ID         int64  `json:"id" db:"id" example:"7"`
	UserID     int64  `json:"userId" db:"user_id" example:"12"`
	Phone      string `json:"phone,omitempty" db:"phone"`
	Address    string `json:"address,omitempty" db:"address"`
	Occupation string `json:"occupation,omitempty" db:"occupation"`

	// Relations (populated when needed)
	User     *User   `json:"user,omitempty"`
	ChildIDs []int64 `json:"childIds,omitempty"`
}
