package entity

import "time"

type Rating struct {
	ID        int64
	UserID    int64
	Rating    int16
	Feedback  string
	CreatedAt time.Time
}

// RatingItem is a rating joined with its author.
type RatingItem struct {
	ID            int64     `db:"id"`
	Rating        int16     `db:"rating"`
	Feedback      string    `db:"feedback"`
	CreatedAt     time.Time `db:"created_at"`
	AuthorName    string    `db:"name"`
	AuthorSurname string    `db:"surname"`
}
