// Package console implements the operator administration console as an
// explicit finite-state machine. Transition is a pure function from
// (session, event) to (session, effects); effects are descriptors applied
// by an Executor, so the machine itself never touches the transport.
package console

// State is the position of one operator session in the console.
type State int

const (
	// StateMenu browses the hierarchical menu; Session.Menu names which.
	StateMenu State = iota
	StateAwaitBanID
	StateAwaitUnbanID
	StateAwaitViewID
	StateAwaitPromoteID
	StateAwaitPollQuestion
	StateAwaitPollOptions
	StateAwaitScheduleDelay
	StateAwaitScheduleText
	StateAwaitTopicName
	StateAwaitWelcomeText
	StateAwaitFilterWord
	StateAwaitBroadcastText
	// StateClosed is terminal; the session is discarded.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateAwaitBanID:
		return "await_ban_id"
	case StateAwaitUnbanID:
		return "await_unban_id"
	case StateAwaitViewID:
		return "await_view_id"
	case StateAwaitPromoteID:
		return "await_promote_id"
	case StateAwaitPollQuestion:
		return "await_poll_question"
	case StateAwaitPollOptions:
		return "await_poll_options"
	case StateAwaitScheduleDelay:
		return "await_schedule_delay"
	case StateAwaitScheduleText:
		return "await_schedule_text"
	case StateAwaitTopicName:
		return "await_topic_name"
	case StateAwaitWelcomeText:
		return "await_welcome_text"
	case StateAwaitFilterWord:
		return "await_filter_word"
	case StateAwaitBroadcastText:
		return "await_broadcast_text"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// awaiting reports whether the state expects free-text operator input.
func (s State) awaiting() bool {
	return s != StateMenu && s != StateClosed
}

// Session is the transient per-operator console state.
type Session struct {
	State State
	// Menu names the displayed menu while State is StateMenu.
	Menu string
	// Scratch holds in-progress wizard data, e.g. the poll question
	// collected before its options.
	Scratch map[string]string
}

// NewSession returns a fresh session at the root menu.
func NewSession() Session {
	return Session{State: StateMenu, Menu: MenuRoot, Scratch: map[string]string{}}
}
