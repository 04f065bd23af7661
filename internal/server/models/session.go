package models

// Session is the stored token pair of a user. At most one row exists per
// user; an empty AccessToken means the user logged out but the refresh
// token is still on record.
type Session struct {
	UserID       int64  `json:"user_id"`
	UserName     string `json:"username,omitempty"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
