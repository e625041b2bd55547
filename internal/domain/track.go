package domain

import "time"

// Track is a snapshot of a song as the provider reported it. Artists are
// denormalized into a single comma-joined display string. A Track is
// immutable once constructed: it lives either in a user's current-track
// slot or as a permanent history row, never both.
type Track struct {
	SongID     string    `json:"song_id"`
	Name       string    `json:"song_name"`
	Artists    string    `json:"song_artists"`
	Album      string    `json:"song_album"`
	URL        string    `json:"song_url"`
	ImageURL   string    `json:"song_image_url"`
	PreviewURL string    `json:"preview_url,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// SameSong reports whether other refers to the same provider track.
func (t *Track) SameSong(other *Track) bool {
	return other != nil && t.SongID == other.SongID
}
