package domain

import "time"

type Review struct {
	ID         int32     `json:"id"`
	ISBN       string    `json:"isbn"`
	MemberID   int32     `json:"member_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	ReviewDate time.Time `json:"review_date"`
}
