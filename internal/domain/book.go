package domain

import "time"

type Book struct {
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	PublicationYear int       `json:"publication_year"`
	Publisher       string    `json:"publisher"`
	Language        string    `json:"language"`
	PageCount       int       `json:"page_count"`
	Description     string    `json:"description,omitempty"`
	AvailableCopies int32     `json:"available_copies"`
	TotalCopies     int32     `json:"total_copies"`
	CreatedOn       time.Time `json:"created_on"`
	UpdatedOn       time.Time `json:"updated_on"`
}

type Author struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

type Genre struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}
