package models

import "encoding/json"

type Note struct {
	Tag   int64  `json:"tag"`
	Title string `json:"title"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Text  string `json:"text"`
}

// NotePayload is the create_note request body. Nil fields were absent.
type NotePayload struct {
	Title *string `json:"title"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Text  *string `json:"text"`
}

// TagRequest keeps the raw tag so both 3 and "3" can be accepted.
type TagRequest struct {
	Tag json.RawMessage `json:"tag"`
}

type EmailRequest struct {
	Email *string `json:"email"`
}
