package models

// Post is a text/media publication owned by one user (by id reference).
type Post struct {
	ID         string   `json:"id"`
	UserID     string   `json:"userId"`
	Content    string   `json:"content"`
	Media      []string `json:"media"`
	Visibility string   `json:"visibility"`
	CreatedAt  Time     `json:"createdAt"`
	UpdatedAt  Time     `json:"updatedAt"`
	Likes      []string `json:"likes"`
	Comments   int      `json:"comments"`
	Shares     int      `json:"shares"`
	Views      int      `json:"views"`
	Tags       []string `json:"tags"`
	Hidden     bool     `json:"hidden"`
	Moderated  bool     `json:"moderated"`
}

// Video is an uploaded clip. The file itself is an opaque blob elsewhere on
// disk; only the metadata lives in the document.
type Video struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	CreatedAt Time     `json:"createdAt"`
	Likes     []string `json:"likes"`
	Comments  int      `json:"comments"`
	Views     int      `json:"views"`
	Hidden    bool     `json:"hidden"`
}

// Comment belongs to exactly one parent: a post or a video, never both.
type Comment struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	Text      string   `json:"text"`
	CreatedAt Time     `json:"createdAt"`
	Likes     []string `json:"likes"`
	Reported  bool     `json:"reported"`
	PostID    string   `json:"postId,omitempty"`
	VideoID   string   `json:"videoId,omitempty"`
}

// Story is a 24-hour ephemeral publication.
type Story struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Media     string `json:"media"`
	CreatedAt Time   `json:"createdAt"`
}

// LiveStream is a broadcast session.
type LiveStream struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Active    bool   `json:"active"`
	CreatedAt Time   `json:"createdAt"`
}

// Clan is a user community with aggregate scores.
type Clan struct {
	ID      string `json:"id"`
	Emoji   string `json:"emoji"`
	Name    string `json:"name"`
	Members int    `json:"members"`
	Points  int    `json:"points"`
}
