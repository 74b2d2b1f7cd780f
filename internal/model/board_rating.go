package model

import "time"

// BoardRating is one user's 1-5 star rating of a board. A user has at most
// one rating per board; re-rating overwrites the previous entry.
type BoardRating struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  string `gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_board" json:"userId"`
	BoardID string `gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_board" json:"boardId"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"type:text" json:"comment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
