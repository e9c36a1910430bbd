package banlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/itd-social/core/internal/models"
)

// Registry owns the ban document: permanent IP bans, permanent user bans and
// time-limited user bans. Expired entries are treated as absent and purged
// lazily on the lookup that notices them. Every mutation persists the file.
type Registry struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
	bans *models.BanFile
}

// Open loads the ban file at path, creating an empty one when missing.
func Open(path string, now func() time.Time) (*Registry, error) {
	if now == nil {
		now = time.Now
	}
	r := &Registry{path: path, now: now}

	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		r.bans = models.EmptyBanFile()
		if err := r.persist(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read bans %q: %w", path, err)
	default:
		bans := models.EmptyBanFile()
		if err := json.Unmarshal(content, bans); err != nil {
			return nil, fmt.Errorf("parse bans %q: %w", path, err)
		}
		if bans.TempBans == nil {
			bans.TempBans = map[string]models.TempBan{}
		}
		r.bans = bans
	}

	return r, nil
}

// IsBanned checks, in order: IP bans, permanent user bans, temp user bans.
// The first matching reason wins. Either argument may be empty to skip that
// check. Expired entries found on the way are purged as a side effect.
func (r *Registry) IsBanned(ip, userID string) (bool, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := models.At(r.now())

	if ip != "" {
		for _, ban := range r.bans.IPBans {
			if ban.IP != ip {
				continue
			}
			if ban.Expired(now) {
				r.removeIPBanLocked(ip)
				_ = r.persist()
				break
			}
			reason := ban.Reason
			if reason == "" {
				reason = "IP заблокирован"
			}
			return true, reason
		}
	}

	if userID != "" {
		for _, banned := range r.bans.UserBans {
			if banned == userID {
				return true, "Аккаунт заблокирован"
			}
		}

		if ban, ok := r.bans.TempBans[userID]; ok {
			if ban.Expires.After(now.Time) {
				return true, fmt.Sprintf("Временная блокировка до %s", ban.Expires)
			}
			delete(r.bans.TempBans, userID)
			_ = r.persist()
		}
	}

	return false, ""
}

// AddIPBan blocks an address. A positive duration computes an absolute
// expiry; zero means permanent.
func (r *Registry) AddIPBan(ip, reason, bannedBy string, duration time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ban := models.IPBan{
		IP:       ip,
		Reason:   reason,
		BannedBy: bannedBy,
		BannedAt: models.At(r.now()),
	}
	if duration > 0 {
		expires := models.At(r.now().Add(duration))
		ban.Expires = &expires
	}
	r.bans.IPBans = append(r.bans.IPBans, ban)
	return r.persist()
}

// RemoveIPBan unblocks an address.
func (r *Registry) RemoveIPBan(ip string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeIPBanLocked(ip)
	return r.persist()
}

// AddUserBan adds a permanent user ban. Adding an already-banned id is a
// no-op.
func (r *Registry) AddUserBan(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, banned := range r.bans.UserBans {
		if banned == userID {
			return nil
		}
	}
	r.bans.UserBans = append(r.bans.UserBans, userID)
	return r.persist()
}

// RemoveUserBan lifts a permanent user ban.
func (r *Registry) RemoveUserBan(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.bans.UserBans[:0]
	for _, banned := range r.bans.UserBans {
		if banned != userID {
			kept = append(kept, banned)
		}
	}
	r.bans.UserBans = kept
	return r.persist()
}

// SetTempBan places (or replaces) a temporary ban for the given number of
// hours.
func (r *Registry) SetTempBan(userID, reason, bannedBy string, hours int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.bans.TempBans[userID] = models.TempBan{
		Reason:        reason,
		BannedBy:      bannedBy,
		BannedAt:      models.At(now),
		Expires:       models.At(now.Add(time.Duration(hours) * time.Hour)),
		DurationHours: hours,
	}
	return r.persist()
}

// RemoveTempBan lifts a temporary ban.
func (r *Registry) RemoveTempBan(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bans.TempBans, userID)
	return r.persist()
}

// Snapshot returns a copy of the current ban document for listings.
func (r *Registry) Snapshot() models.BanFile {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := models.BanFile{
		IPBans:   append([]models.IPBan(nil), r.bans.IPBans...),
		UserBans: append([]string(nil), r.bans.UserBans...),
		TempBans: make(map[string]models.TempBan, len(r.bans.TempBans)),
	}
	for id, ban := range r.bans.TempBans {
		out.TempBans[id] = ban
	}
	return out
}

// Counts returns the number of entries per ban shape.
func (r *Registry) Counts() (ipBans, userBans, tempBans int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bans.IPBans), len(r.bans.UserBans), len(r.bans.TempBans)
}

func (r *Registry) removeIPBanLocked(ip string) {
	kept := r.bans.IPBans[:0]
	for _, ban := range r.bans.IPBans {
		if ban.IP != ip {
			kept = append(kept, ban)
		}
	}
	r.bans.IPBans = kept
}

func (r *Registry) persist() error {
	content, err := json.MarshalIndent(r.bans, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bans: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create bans dir: %w", err)
		}
	}
	if err := os.WriteFile(r.path, content, 0o644); err != nil {
		return fmt.Errorf("write bans %q: %w", r.path, err)
	}
	return nil
}
