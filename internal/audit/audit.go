package audit

// Action tags for history entries.
const (
	ActionBan       = "ban"
	ActionUnban     = "unban"
	ActionPromote   = "promote"
	ActionBroadcast = "broadcast"
	ActionLockdown  = "lockdown"
	ActionFilter    = "filter_word"
	ActionWelcome   = "welcome_update"
	ActionSchedule  = "schedule"
	ActionApprove   = "approve"
	ActionDecline   = "decline"
)

// Log records moderation and administration actions. Record must commit
// before the annotated action is reported successful to the operator; a
// returned error means the action is considered not to have happened.
// actorAdminID of 0 marks a system-triggered action.
type Log interface {
	Record(subjectUserID int64, action string, details map[string]any, actorAdminID int64) (string, error)
	Close() error
}
