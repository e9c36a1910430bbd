package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/itd-social/core/internal/models"
	"github.com/itd-social/core/internal/modules/antispam"
	"github.com/itd-social/core/internal/modules/audit"
	"github.com/itd-social/core/internal/modules/banlist"
)

// Decision is the typed outcome of one guard predicate: either an allow, or
// a rejection carrying the HTTP status and operator-facing message.
type Decision struct {
	Allowed bool
	Status  int
	Message string
}

var allowed = Decision{Allowed: true}

func rejected(status int, message string) Decision {
	return Decision{Status: status, Message: message}
}

// Gate composes the ban registry, the rate limiter and the spam classifier
// into the admission chain applied before every mutating operation. The
// chain order is fixed: ban state, then rate limit, then content checks.
// Nothing behind the gate runs on a reject, so the document store is never
// touched on a rejected request.
type Gate struct {
	bans    *banlist.Registry
	limiter *antispam.Limiter
	audit   *audit.Logger
}

// New builds the gate.
func New(bans *banlist.Registry, limiter *antispam.Limiter, auditLog *audit.Logger) *Gate {
	return &Gate{bans: bans, limiter: limiter, audit: auditLog}
}

// Admit runs the IP-level checks: ban state first, then the rate limit for
// the action class. A banned address never consumes rate-limit budget.
func (g *Gate) Admit(ip string, class antispam.ActionClass) Decision {
	if banned, reason := g.bans.IsBanned(ip, ""); banned {
		return rejected(http.StatusForbidden, "Доступ заблокирован: "+reason)
	}

	if !g.limiter.Allow(ip, class) {
		g.audit.Record(models.SystemActor, "spam_block", "Rate limit exceeded for IP: "+ip, ip)
		return rejected(http.StatusTooManyRequests, "Слишком много запросов. Попробуйте позже.")
	}

	return allowed
}

// AdmitUser checks the user-level ban state for endpoints that carry a
// user identity in the payload.
func (g *Gate) AdmitUser(userID string) Decision {
	if banned, reason := g.bans.IsBanned("", userID); banned {
		return rejected(http.StatusForbidden, reason)
	}
	return allowed
}

// CheckContent runs the spam classifier over the given texts. On a positive
// verdict it records an audit entry under the given action tag and rejects;
// the caller must not perform the write.
func (g *Gate) CheckContent(userID, ip, action, message string, texts ...string) Decision {
	for _, text := range texts {
		if antispam.IsSpam(text) {
			actor := userID
			if actor == "" {
				actor = models.SystemActor
			}
			g.audit.Record(actor, action, message, ip)
			return rejected(http.StatusForbidden, message)
		}
	}
	return allowed
}

// Protect returns a Gin middleware running Admit for the given action class
// before the handler.
func Protect(g *Gate, class antispam.ActionClass) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d := g.Admit(c.ClientIP(), class); !d.Allowed {
			Reject(c, d)
			return
		}
		c.Next()
	}
}

// Reject aborts the request with the decision's status and message in the
// standard error envelope.
func Reject(c *gin.Context, d Decision) {
	c.AbortWithStatusJSON(d.Status, gin.H{"error": d.Message})
}
