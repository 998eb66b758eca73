package console

import "dexkeeper/internal/settings"

// Decision is the tagged result of an authorization check.
type Decision int

const (
	Denied Decision = iota
	Authorized
)

// Guard gates every console entry point. An actor is authorized if it is
// the configured privileged identity or appears in the settings-backed
// administrator list. The list is re-read on each check so a promote
// takes effect immediately.
type Guard struct {
	adminID  int64
	settings settings.Store
}

func NewGuard(adminID int64, store settings.Store) *Guard {
	return &Guard{adminID: adminID, settings: store}
}

// Check returns Authorized or Denied for actorID. Denial carries no side
// effect and no audit entry.
func (g *Guard) Check(actorID int64) Decision {
	if actorID != 0 && actorID == g.adminID {
		return Authorized
	}
	for _, id := range g.settings.IDList(settings.KeyAdmins) {
		if id == actorID {
			return Authorized
		}
	}
	return Denied
}
