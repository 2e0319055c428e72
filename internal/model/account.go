package model

import "time"

// Account links an email address to the identity-provider subject that
// authenticates it.
type Account struct {
	ID        string
	Email     string
	Subject   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AccountView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (a Account) Serialize() AccountView {
	return AccountView{ID: a.ID, Email: a.Email}
}
