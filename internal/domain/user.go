package domain

import "time"

// User is an account created from the provider profile on first login.
// Email is stored in its encoded key form (see internal/emailkey), as are
// the entries of Friends. CurrentTrack is the user's single mutable pointer
// to whatever is playing right now; nil means nothing is playing.
type User struct {
	Email        string    `json:"email"`
	DisplayName  string    `json:"name"`
	SpotifyID    string    `json:"user_id"`
	PictureURL   string    `json:"user_pic,omitempty"`
	IsOnline     bool      `json:"is_online"`
	Friends      []string  `json:"friends"`
	CurrentTrack *Track    `json:"current_track,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp to the current time.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (u *User) InitTimestamps() {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
}

// HasFriend reports whether the encoded friend email is already on the
// user's friend list.
func (u *User) HasFriend(encodedEmail string) bool {
	for _, f := range u.Friends {
		if f == encodedEmail {
			return true
		}
	}
	return false
}

// RemoveFriend drops the encoded friend email from the friend list.
// It is a no-op when the friend is not present.
func (u *User) RemoveFriend(encodedEmail string) {
	for i, f := range u.Friends {
		if f == encodedEmail {
			u.Friends = append(u.Friends[:i], u.Friends[i+1:]...)
			return
		}
	}
}
