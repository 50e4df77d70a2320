package models

// UserIdentity carries the verified identity attached to a connection at
// authentication time. Immutable for the lifetime of the connection.
type UserIdentity struct {
	ID          int    `db:"id" json:"id"`
	Username    string `db:"username" json:"username"`
	DisplayName string `db:"display_name" json:"display_name,omitempty"`
	Avatar      string `db:"avatar" json:"avatar,omitempty"`
	Verified    bool   `db:"verified" json:"verified"`
}

// Label returns the name shown to other users in notification texts.
func (u UserIdentity) Label() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
