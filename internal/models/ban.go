package models

// IPBan blocks every request from one address. Expires is optional; a nil
// expiry means permanent.
type IPBan struct {
	IP       string `json:"ip"`
	Reason   string `json:"reason"`
	BannedBy string `json:"banned_by,omitempty"`
	BannedAt Time   `json:"banned_at"`
	Expires  *Time  `json:"expires,omitempty"`
}

// Expired reports whether the ban has an expiry in the past relative to now.
func (b *IPBan) Expired(now Time) bool {
	return b.Expires != nil && b.Expires.Before(now.Time)
}

// TempBan is a user ban with an absolute expiry.
type TempBan struct {
	Reason        string `json:"reason"`
	BannedBy      string `json:"banned_by,omitempty"`
	BannedAt      Time   `json:"banned_at"`
	Expires       Time   `json:"expires"`
	DurationHours int    `json:"duration_hours"`
}

// BanFile is the persisted shape of the ban registry: a list of IP bans, a
// set of permanently banned user ids, and temp bans keyed by user id.
type BanFile struct {
	IPBans   []IPBan            `json:"ip_bans"`
	UserBans []string           `json:"user_bans"`
	TempBans map[string]TempBan `json:"temp_bans"`
}

// EmptyBanFile returns a registry document with no entries.
func EmptyBanFile() *BanFile {
	return &BanFile{
		IPBans:   []IPBan{},
		UserBans: []string{},
		TempBans: map[string]TempBan{},
	}
}
