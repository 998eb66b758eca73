package console

import (
	"strconv"
	"strings"
	"time"
)

// Wizard prompts.
const (
	promptBan       = "Ban User\nSend the user ID:"
	promptUnban     = "Unban User\nSend the user ID:"
	promptView      = "View User\nSend the user ID:"
	promptPromote   = "Promote Admin\nSend the user ID to promote:"
	promptPollQ     = "New Poll\nSend the question:"
	promptPollOpts  = "Poll Options\nSend comma-separated options (at least two):"
	promptSchedule  = "Schedule\nSend the delay in minutes:"
	promptSchedText = "Schedule\nSend the message text:"
	promptTopic     = "New Topic\nSend the topic name:"
	promptWelcome   = "Edit Welcome\nSend the new welcome text:"
	promptFilter    = "Bad Words\nSend a word to add or remove:"
	promptBroadcast = "Broadcast\nSend the message to broadcast to all users:"

	repromptID       = "That is not a valid user ID. Send a numeric ID:"
	repromptPollOpts = "A poll needs at least two non-empty options. Send them comma-separated:"
	repromptDelay    = "That is not a valid delay. Send a positive number of minutes:"
	repromptEmpty    = "The text cannot be empty. Try again:"
)

const scratchPollQuestion = "poll_question"
const scratchScheduleDelay = "schedule_delay"

// Transition applies one event to a session and returns the next session
// plus the effects to carry out. It is pure: all reads and writes of
// shared state happen in the Executor that applies the effects.
func Transition(sess Session, ev Event) (Session, []Effect) {
	switch ev := ev.(type) {
	case Open:
		next := NewSession()
		return next, []Effect{ShowMenu{Menu: MenuRoot}}

	case Cancel:
		next := NewSession()
		return next, []Effect{ShowMenu{Menu: MenuRoot}}

	case Select:
		return applySelect(sess, ev.Data)

	case Input:
		if !sess.State.awaiting() {
			// Stray text while browsing menus carries no meaning.
			return sess, nil
		}
		return applyInput(sess, ev.Text)
	}
	return sess, nil
}

func applySelect(sess Session, data string) (Session, []Effect) {
	// Cancel works from every state.
	if data == PayloadCancel {
		return Transition(sess, Cancel{})
	}

	if sess.State.awaiting() {
		// The only button presented during a wizard step is cancel;
		// anything else re-prompts in place.
		return sess, []Effect{Prompt{Text: promptFor(sess.State), Reprompt: true}}
	}

	if menu, ok := strings.CutPrefix(data, PayloadMenuPrefix); ok {
		if !knownMenu(menu) {
			menu = MenuRoot
		}
		sess.Menu = menu
		return sess, []Effect{ShowMenu{Menu: menu}}
	}

	if style, ok := strings.CutPrefix(data, PayloadStylePrefix); ok {
		sess.Menu = MenuLinkCard
		return sess, []Effect{SetLinkCardStyle{Style: style}, ShowMenu{Menu: MenuLinkCard}}
	}

	switch data {
	case PayloadBanStart:
		return await(sess, StateAwaitBanID, promptBan)
	case PayloadUnbanStart:
		return await(sess, StateAwaitUnbanID, promptUnban)
	case PayloadViewStart:
		return await(sess, StateAwaitViewID, promptView)
	case PayloadPromoteStart:
		return await(sess, StateAwaitPromoteID, promptPromote)
	case PayloadPollStart:
		return await(sess, StateAwaitPollQuestion, promptPollQ)
	case PayloadScheduleStart:
		return await(sess, StateAwaitScheduleDelay, promptSchedule)
	case PayloadTopicStart:
		return await(sess, StateAwaitTopicName, promptTopic)
	case PayloadWelcomeStart:
		return await(sess, StateAwaitWelcomeText, promptWelcome)
	case PayloadFilterStart:
		return await(sess, StateAwaitFilterWord, promptFilter)
	case PayloadBroadcastStart:
		return await(sess, StateAwaitBroadcastText, promptBroadcast)

	case PayloadExportCSV:
		return sess, []Effect{ExportUsers{}, ShowMenu{Menu: MenuUsers}}
	case PayloadLockdownToggle:
		return sess, []Effect{ToggleLockdown{}, ShowMenu{Menu: MenuSecurity}}
	case PayloadClose:
		sess.State = StateClosed
		return sess, []Effect{CloseConsole{}}
	}

	// Unknown payload: redraw whatever menu the session shows.
	return sess, []Effect{ShowMenu{Menu: sess.Menu}}
}

func applyInput(sess Session, text string) (Session, []Effect) {
	text = strings.TrimSpace(text)

	switch sess.State {
	case StateAwaitBanID, StateAwaitUnbanID, StateAwaitViewID, StateAwaitPromoteID:
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil || id <= 0 {
			return sess, []Effect{Prompt{Text: repromptID, Reprompt: true}}
		}
		var eff Effect
		switch sess.State {
		case StateAwaitBanID:
			eff = Ban{UserID: id}
		case StateAwaitUnbanID:
			eff = Unban{UserID: id}
		case StateAwaitViewID:
			eff = ViewUser{UserID: id}
		default:
			eff = Promote{UserID: id}
		}
		return toMenu(sess, MenuUsers, eff)

	case StateAwaitPollQuestion:
		if text == "" {
			return sess, []Effect{Prompt{Text: repromptEmpty, Reprompt: true}}
		}
		sess.Scratch[scratchPollQuestion] = text
		sess.State = StateAwaitPollOptions
		return sess, []Effect{Prompt{Text: promptPollOpts}}

	case StateAwaitPollOptions:
		options := splitOptions(text)
		if len(options) < 2 {
			return sess, []Effect{Prompt{Text: repromptPollOpts, Reprompt: true}}
		}
		question := sess.Scratch[scratchPollQuestion]
		return toMenu(sess, MenuEngagement, SendPoll{Question: question, Options: options})

	case StateAwaitScheduleDelay:
		minutes, err := strconv.Atoi(text)
		if err != nil || minutes <= 0 {
			return sess, []Effect{Prompt{Text: repromptDelay, Reprompt: true}}
		}
		sess.Scratch[scratchScheduleDelay] = strconv.Itoa(minutes)
		sess.State = StateAwaitScheduleText
		return sess, []Effect{Prompt{Text: promptSchedText}}

	case StateAwaitScheduleText:
		if text == "" {
			return sess, []Effect{Prompt{Text: repromptEmpty, Reprompt: true}}
		}
		minutes, _ := strconv.Atoi(sess.Scratch[scratchScheduleDelay])
		delay := time.Duration(minutes) * time.Minute
		return toMenu(sess, MenuEngagement, ScheduleMessage{Delay: delay, Text: text})

	case StateAwaitTopicName:
		if text == "" {
			return sess, []Effect{Prompt{Text: repromptEmpty, Reprompt: true}}
		}
		return toMenu(sess, MenuEngagement, CreateTopic{Name: text})

	case StateAwaitWelcomeText:
		if text == "" {
			return sess, []Effect{Prompt{Text: repromptEmpty, Reprompt: true}}
		}
		return toMenu(sess, MenuEngagement, SetWelcome{Text: text})

	case StateAwaitFilterWord:
		word := strings.ToLower(text)
		if word == "" {
			return sess, []Effect{Prompt{Text: repromptEmpty, Reprompt: true}}
		}
		return toMenu(sess, MenuSecurity, ToggleFilterWord{Word: word})

	case StateAwaitBroadcastText:
		if text == "" {
			return sess, []Effect{Prompt{Text: repromptEmpty, Reprompt: true}}
		}
		return toMenu(sess, MenuEngagement, Broadcast{Text: text})
	}

	return sess, nil
}

// await moves the session into a wizard input state.
func await(sess Session, state State, prompt string) (Session, []Effect) {
	sess.State = state
	return sess, []Effect{Prompt{Text: prompt}}
}

// toMenu completes a wizard: scratch is cleared and the session returns
// to the given menu, with the wizard's effect preceding the redraw.
func toMenu(sess Session, menu string, eff Effect) (Session, []Effect) {
	sess.State = StateMenu
	sess.Menu = menu
	sess.Scratch = map[string]string{}
	return sess, []Effect{eff, ShowMenu{Menu: menu}}
}

// splitOptions splits a comma-delimited option string, trimming each
// option and dropping empties.
func splitOptions(text string) []string {
	parts := strings.Split(text, ",")
	options := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			options = append(options, p)
		}
	}
	return options
}

func promptFor(state State) string {
	switch state {
	case StateAwaitBanID:
		return promptBan
	case StateAwaitUnbanID:
		return promptUnban
	case StateAwaitViewID:
		return promptView
	case StateAwaitPromoteID:
		return promptPromote
	case StateAwaitPollQuestion:
		return promptPollQ
	case StateAwaitPollOptions:
		return promptPollOpts
	case StateAwaitScheduleDelay:
		return promptSchedule
	case StateAwaitScheduleText:
		return promptSchedText
	case StateAwaitTopicName:
		return promptTopic
	case StateAwaitWelcomeText:
		return promptWelcome
	case StateAwaitFilterWord:
		return promptFilter
	case StateAwaitBroadcastText:
		return promptBroadcast
	}
	return ""
}
