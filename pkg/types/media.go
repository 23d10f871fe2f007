package types

// MediaEntry is a denormalized snapshot of a movie's catalog metadata,
// embedded inside a user's watch or wish list. OriginalTitle is the
// natural de-duplication key within a list; CatalogID is the external
// catalog identifier and carries no uniqueness guarantee here.
type MediaEntry struct {
	Adult            bool    `json:"adult"`
	BackdropPath     string  `json:"backdrop_path"`
	GenreIDs         []int64 `json:"genre_ids"`
	CatalogID        int64   `json:"id"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	PosterPath       string  `json:"poster_path"`
	ReleaseDate      string  `json:"release_date"`
	Title            string  `json:"title"`
	Video            bool    `json:"video"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        float64 `json:"vote_count"`
}
