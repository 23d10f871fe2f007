package lists

import (
	"github.com/moviemaestro/moviemaestro-backend/pkg/types"
)

// EntryInput mirrors the catalog payload for a single movie. Every field is
// required, so booleans and numerics are pointers to distinguish an absent
// field from a legitimate zero value.
type EntryInput struct {
	Adult            *bool    `json:"adult" validate:"required"`
	BackdropPath     *string  `json:"backdrop_path" validate:"required,min=1"`
	GenreIDs         *[]int64 `json:"genre_ids" validate:"required"`
	CatalogID        *int64   `json:"id" validate:"required"`
	OriginalLanguage *string  `json:"original_language" validate:"required,min=1"`
	OriginalTitle    *string  `json:"original_title" validate:"required,min=1"`
	Overview         *string  `json:"overview" validate:"required,min=1"`
	Popularity       *float64 `json:"popularity" validate:"required"`
	PosterPath       *string  `json:"poster_path" validate:"required,min=1"`
	ReleaseDate      *string  `json:"release_date" validate:"required,min=1"`
	Title            *string  `json:"title" validate:"required,min=1"`
	Video            *bool    `json:"video" validate:"required"`
	VoteAverage      *float64 `json:"vote_average" validate:"required"`
	VoteCount        *float64 `json:"vote_count" validate:"required"`
}

// RemoveInput identifies the entry to drop from a list.
type RemoveInput struct {
	OriginalTitle string `json:"original_title" validate:"required"`
}

func (in EntryInput) toEntry() types.MediaEntry {
	entry := types.MediaEntry{}
	if in.Adult != nil {
		entry.Adult = *in.Adult
	}
	if in.BackdropPath != nil {
		entry.BackdropPath = *in.BackdropPath
	}
	if in.GenreIDs != nil {
		entry.GenreIDs = append([]int64{}, *in.GenreIDs...)
	}
	if in.CatalogID != nil {
		entry.CatalogID = *in.CatalogID
	}
	if in.OriginalLanguage != nil {
		entry.OriginalLanguage = *in.OriginalLanguage
	}
	if in.OriginalTitle != nil {
		entry.OriginalTitle = *in.OriginalTitle
	}
	if in.Overview != nil {
		entry.Overview = *in.Overview
	}
	if in.Popularity != nil {
		entry.Popularity = *in.Popularity
	}
	if in.PosterPath != nil {
		entry.PosterPath = *in.PosterPath
	}
	if in.ReleaseDate != nil {
		entry.ReleaseDate = *in.ReleaseDate
	}
	if in.Title != nil {
		entry.Title = *in.Title
	}
	if in.Video != nil {
		entry.Video = *in.Video
	}
	if in.VoteAverage != nil {
		entry.VoteAverage = *in.VoteAverage
	}
	if in.VoteCount != nil {
		entry.VoteCount = *in.VoteCount
	}
	return entry
}
