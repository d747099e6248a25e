package domain

// Member is a roster entry. The roster is owned elsewhere; the core only reads it.
type Member struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}
