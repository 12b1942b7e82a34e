package models

import "time"

type Favorite struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"userId"`
	GhibliMovieID    string    `json:"ghibliMovieId"`
	MovieTitle       *string   `json:"movieTitle"`
	MovieDescription *string   `json:"movieDescription"`
	ReleaseDate      *string   `json:"releaseDate"`
	RunningTime      *string   `json:"runningTime"`
	CreatedAt        time.Time `json:"createdAt"`
}

// MovieData is the optional catalog snapshot stored with a favorite.
type MovieData struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ReleaseDate *string `json:"releaseDate,omitempty"`
	RunningTime *string `json:"runningTime,omitempty"`
}
