package models

import "encoding/json"

// SystemSettings is the single shared toggle block, writable only by
// super-administrators.
type SystemSettings struct {
	Maintenance         bool `json:"maintenance"`
	RegistrationEnabled bool `json:"registration_enabled"`
	MaxFileSize         int  `json:"max_file_size"`
	SpamProtection      bool `json:"spam_protection"`
	ContentModeration   bool `json:"content_moderation"`
}

// Document is the whole application state as one JSON tree. Slice order is
// meaningful and must survive round-trips. Entities reference each other by
// id only; readers must tolerate dangling references.
type Document struct {
	Users          []*User           `json:"users"`
	Posts          []*Post           `json:"posts"`
	Videos         []*Video          `json:"videos"`
	Clans          []*Clan           `json:"clans"`
	Comments       []*Comment        `json:"comments"`
	Stories        []*Story          `json:"stories"`
	LiveStreams    []*LiveStream     `json:"live_streams"`
	Messages       []json.RawMessage `json:"messages"`
	Notifications  []*Notification   `json:"notifications"`
	Reports        []*Report         `json:"reports"`
	AdminLogs      []AuditEntry      `json:"admin_logs"`
	SystemSettings SystemSettings    `json:"system_settings"`
}

// NewDocument returns an empty document with the default clans and system
// settings seeded.
func NewDocument() *Document {
	return &Document{
		Users:    []*User{},
		Posts:    []*Post{},
		Videos:   []*Video{},
		Comments: []*Comment{},
		Clans: []*Clan{
			{ID: "clan_1", Emoji: "😀", Name: "Улыбающиеся", Members: 150, Points: 12500},
			{ID: "clan_2", Emoji: "😂", Name: "Смеющиеся", Members: 120, Points: 9800},
			{ID: "clan_3", Emoji: "🥰", Name: "Влюбленные", Members: 95, Points: 7600},
			{ID: "clan_4", Emoji: "😎", Name: "Крутые", Members: 87, Points: 6500},
			{ID: "clan_5", Emoji: "🤔", Name: "Задумчивые", Members: 76, Points: 5400},
		},
		Stories:       []*Story{},
		LiveStreams:   []*LiveStream{},
		Messages:      []json.RawMessage{},
		Notifications: []*Notification{},
		Reports:       []*Report{},
		AdminLogs:     []AuditEntry{},
		SystemSettings: SystemSettings{
			Maintenance:         false,
			RegistrationEnabled: true,
			MaxFileSize:         100,
			SpamProtection:      true,
			ContentModeration:   true,
		},
	}
}

// FindUserByID resolves a user by id with a linear scan. Returns nil when the
// id is unknown.
func (d *Document) FindUserByID(id string) *User {
	for _, u := range d.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// FindUserByUsername resolves a user by exact username.
func (d *Document) FindUserByUsername(username string) *User {
	for _, u := range d.Users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

// FindPostByID resolves a post by id.
func (d *Document) FindPostByID(id string) *Post {
	for _, p := range d.Posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindVideoByID resolves a video by id.
func (d *Document) FindVideoByID(id string) *Video {
	for _, v := range d.Videos {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// FindCommentByID resolves a comment by id.
func (d *Document) FindCommentByID(id string) *Comment {
	for _, c := range d.Comments {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// FindClanByID resolves a clan by id.
func (d *Document) FindClanByID(id string) *Clan {
	for _, c := range d.Clans {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// FindReportByID resolves a report by id.
func (d *Document) FindReportByID(id string) *Report {
	for _, r := range d.Reports {
		if r.ID == id {
			return r
		}
	}
	return nil
}
