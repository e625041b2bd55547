package domain

import "time"

// Reaction is a sender's response to a song on a recipient's history.
// At most one reaction exists per (recipient, sender, song) triple; the
// store's create operation silently no-ops on a duplicate. Emails are
// stored encoded, display names and song metadata are denormalized so a
// reaction renders without extra lookups.
type Reaction struct {
	RecipientEmail string    `json:"email"`
	RecipientName  string    `json:"name"`
	SenderEmail    string    `json:"sender_email"`
	SenderName     string    `json:"sender_name"`
	SongID         string    `json:"song_id"`
	SongName       string    `json:"song_name"`
	SongArtists    string    `json:"song_artist"`
	SongAlbum      string    `json:"song_album"`
	SongURL        string    `json:"song_url"`
	SongImageURL   string    `json:"song_image_url"`
	Timestamp      time.Time `json:"time_stamp"`
}
