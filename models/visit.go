package models

import "time"

// Visit is the metadata a storefront page reports on load.
type Visit struct {
	Page      string    `json:"page" binding:"required,max=512"`
	Referrer  string    `json:"referrer" binding:"omitempty,max=512"`
	Language  string    `json:"language" binding:"omitempty,max=32"`
	Timezone  string    `json:"timezone" binding:"omitempty,max=64"`
	Screen    string    `json:"screen" binding:"omitempty,max=32"`
	UserAgent string    `json:"user_agent" binding:"omitempty,max=512"`
	IP        string    `json:"-"`
	At        time.Time `json:"-"`
}
