package models

// SystemActor is the sentinel user id recorded on system-generated audit
// entries (lockouts, bootstrap, spam blocks without an authenticated user).
const SystemActor = "SYSTEM"

// AuditEntry records one security- or moderation-relevant action. Entries are
// append-only; the in-document copy keeps only the most recent 1000.
type AuditEntry struct {
	Timestamp Time   `json:"timestamp"`
	UserID    string `json:"user_id"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	IP        string `json:"ip"`
}
