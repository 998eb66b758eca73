package console

import "time"

// Effect is an outcome requested by a transition. UI effects (ShowMenu,
// Prompt, CloseConsole) are rendered by the transport driver; the rest
// are applied by the Executor.
type Effect interface {
	isEffect()
}

// ShowMenu renders the named menu to the operator.
type ShowMenu struct {
	Menu string
}

// Prompt asks the operator for the next wizard input. Reprompt marks a
// rejected input being asked again.
type Prompt struct {
	Text     string
	Reprompt bool
}

// CloseConsole removes the console message; the session is discarded.
type CloseConsole struct{}

// Ban adds the target to the block-list and requests chat removal.
type Ban struct {
	UserID int64
}

// Unban removes the target from the block-list.
type Unban struct {
	UserID int64
}

// ViewUser renders a read-only summary of the target.
type ViewUser struct {
	UserID int64
}

// Promote appends the target to the administrator list.
type Promote struct {
	UserID int64
}

// SendPoll emits a poll to the chat.
type SendPoll struct {
	Question string
	Options  []string
}

// ScheduleMessage registers a one-shot deferred send.
type ScheduleMessage struct {
	Delay time.Duration
	Text  string
}

// CreateTopic requests creation of a sub-channel.
type CreateTopic struct {
	Name string
}

// SetWelcome stores the welcome text.
type SetWelcome struct {
	Text string
}

// ToggleFilterWord adds the word to the banned-word list, or removes it
// if already present.
type ToggleFilterWord struct {
	Word string
}

// ToggleLockdown flips lockdown mode.
type ToggleLockdown struct{}

// Broadcast sends the text to every known user.
type Broadcast struct {
	Text string
}

// ExportUsers sends the user registry as a CSV document.
type ExportUsers struct{}

// SetLinkCardStyle selects the meeting-link card style.
type SetLinkCardStyle struct {
	Style string
}

func (ShowMenu) isEffect()         {}
func (Prompt) isEffect()           {}
func (CloseConsole) isEffect()     {}
func (Ban) isEffect()              {}
func (Unban) isEffect()            {}
func (ViewUser) isEffect()         {}
func (Promote) isEffect()          {}
func (SendPoll) isEffect()         {}
func (ScheduleMessage) isEffect()  {}
func (CreateTopic) isEffect()      {}
func (SetWelcome) isEffect()       {}
func (ToggleFilterWord) isEffect() {}
func (ToggleLockdown) isEffect()   {}
func (Broadcast) isEffect()        {}
func (ExportUsers) isEffect()      {}
func (SetLinkCardStyle) isEffect() {}
