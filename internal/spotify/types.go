package spotify

// Raw response shapes for the Web API endpoints this client touches, per
// https://developer.spotify.com/documentation/web-api/reference/.

// Image is an image resource attached to albums and profiles.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist is the simplified artist object embedded in track responses.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album is the simplified album object embedded in track responses.
type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// Track is the full track object from the player endpoint.
type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Artists      []Artist     `json:"artists"`
	Album        Album        `json:"album"`
	ExternalURLs externalURLs `json:"external_urls"`
	PreviewURL   string       `json:"preview_url"`
	DurationMS   int          `json:"duration_ms"`
}

// currentlyPlaying is the /me/player/currently-playing envelope. Item is
// null when nothing is playing or the current item is not a track.
type currentlyPlaying struct {
	IsPlaying  bool   `json:"is_playing"`
	ProgressMS int    `json:"progress_ms"`
	Item       *Track `json:"item"`
}

// Profile is the authenticated user's profile from /me.
type Profile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	Images      []Image `json:"images"`
}

// FirstImageURL returns the profile's first image URL, or "" when none.
func (p *Profile) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
