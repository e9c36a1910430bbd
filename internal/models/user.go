package models

// UserStats tracks per-user content counters.
type UserStats struct {
	Posts   int `json:"posts"`
	Videos  int `json:"videos"`
	Stories int `json:"stories"`
	Likes   int `json:"likes"`
}

// UserSettings is the per-user preferences blob.
type UserSettings struct {
	Theme         string `json:"theme"`
	Language      string `json:"language"`
	Notifications bool   `json:"notifications"`
	Privacy       string `json:"privacy"`
}

// Permissions is the named-capability map carried by administrator accounts.
type Permissions map[string]bool

// User statuses.
const (
	UserStatusActive = "active"
	UserStatusBanned = "banned"
)

// User is a registered account. Password is a bcrypt hash; it persists inside
// the document, so API responses must go through Sanitized.
type User struct {
	ID            string       `json:"id"`
	Username      string       `json:"username"`
	DisplayName   string       `json:"displayName"`
	Email         string       `json:"email"`
	Password      string       `json:"password,omitempty"`
	Emoji         string       `json:"emoji"`
	Bio           string       `json:"bio"`
	CreatedAt     Time         `json:"createdAt"`
	IsAdmin       bool         `json:"isAdmin"`
	IsSuperAdmin  bool         `json:"isSuperAdmin"`
	IsVerified    bool         `json:"isVerified"`
	Notifications int          `json:"notifications"`
	Clan          *string      `json:"clan"`
	Followers     []string     `json:"followers"`
	Following     []string     `json:"following"`
	Stats         UserStats    `json:"stats"`
	Settings      UserSettings `json:"settings"`
	Permissions   Permissions  `json:"permissions,omitempty"`
	LastLogin     *Time        `json:"last_login"`
	LoginAttempts int          `json:"login_attempts"`
	Status        string       `json:"status"`
	LastActive    *Time        `json:"last_active,omitempty"`
}

// Sanitized returns a copy safe for API responses: the password hash is
// dropped from the payload entirely.
func (u *User) Sanitized() *User {
	clean := *u
	clean.Password = ""
	return &clean
}

// Brief is the compact author reference embedded into admin listings.
type Brief struct {
	ID          string `json:"id"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"displayName"`
}

// Brief returns the compact reference for this user.
func (u *User) Brief() Brief {
	return Brief{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName}
}

// DefaultUserSettings returns the settings every new account starts with.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		Theme:         "dark",
		Language:      "ru",
		Notifications: true,
		Privacy:       "public",
	}
}
