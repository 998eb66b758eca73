package console

// Menu names. The hierarchy is fixed: root fans out to the four section
// menus, each leaf button carries an action payload.
const (
	MenuRoot       = "root"
	MenuUsers      = "users"
	MenuEngagement = "engage"
	MenuConfig     = "config"
	MenuSecurity   = "security"
	MenuLinkCard   = "linkcard"
)

// Button payloads, carried opaquely through the transport.
const (
	PayloadMenuPrefix  = "menu:"
	PayloadStylePrefix = "style:"

	PayloadBanStart       = "action:ban"
	PayloadUnbanStart     = "action:unban"
	PayloadViewStart      = "action:view"
	PayloadPromoteStart   = "action:promote"
	PayloadExportCSV      = "action:export"
	PayloadPollStart      = "action:poll"
	PayloadTopicStart     = "action:topic"
	PayloadWelcomeStart   = "action:welcome"
	PayloadScheduleStart  = "action:schedule"
	PayloadBroadcastStart = "action:broadcast"
	PayloadFilterStart    = "action:filter"
	PayloadLockdownToggle = "action:lockdown"
	PayloadCancel         = "console:cancel"
	PayloadClose          = "console:close"
)

// Button is one selectable menu entry.
type Button struct {
	Label   string
	Payload string
}

// MenuButtons returns the button rows for a menu. Rendering is a pure
// function of the menu name; unknown names fall back to the root menu.
func MenuButtons(menu string) [][]Button {
	switch menu {
	case MenuUsers:
		return [][]Button{
			{{"Ban User", PayloadBanStart}, {"Unban User", PayloadUnbanStart}},
			{{"View User", PayloadViewStart}, {"Promote Admin", PayloadPromoteStart}},
			{{"Export Users (CSV)", PayloadExportCSV}},
			{{"Back", PayloadMenuPrefix + MenuRoot}},
		}
	case MenuEngagement:
		return [][]Button{
			{{"Create Poll", PayloadPollStart}, {"New Topic", PayloadTopicStart}},
			{{"Edit Welcome", PayloadWelcomeStart}, {"Schedule Msg", PayloadScheduleStart}},
			{{"Broadcast All", PayloadBroadcastStart}},
			{{"Back", PayloadMenuPrefix + MenuRoot}},
		}
	case MenuConfig:
		return [][]Button{
			{{"Meeting Card Style", PayloadMenuPrefix + MenuLinkCard}},
			{{"Back", PayloadMenuPrefix + MenuRoot}},
		}
	case MenuSecurity:
		return [][]Button{
			{{"Toggle Lockdown", PayloadLockdownToggle}, {"Bad Words Filter", PayloadFilterStart}},
			{{"Back", PayloadMenuPrefix + MenuRoot}},
		}
	case MenuLinkCard:
		return [][]Button{
			{{"Professional", PayloadStylePrefix + "professional"}},
			{{"Mascot", PayloadStylePrefix + "mascot"}},
			{{"Minimal", PayloadStylePrefix + "minimal"}},
			{{"Disable", PayloadStylePrefix + "off"}},
			{{"Back", PayloadMenuPrefix + MenuConfig}},
		}
	default:
		return [][]Button{
			{{"User Management", PayloadMenuPrefix + MenuUsers}, {"Engagement", PayloadMenuPrefix + MenuEngagement}},
			{{"Group Config", PayloadMenuPrefix + MenuConfig}, {"Security", PayloadMenuPrefix + MenuSecurity}},
			{{"Close Panel", PayloadClose}},
		}
	}
}

// knownMenu reports whether name is a defined menu.
func knownMenu(name string) bool {
	switch name {
	case MenuRoot, MenuUsers, MenuEngagement, MenuConfig, MenuSecurity, MenuLinkCard:
		return true
	}
	return false
}
