package settings

// Well-known settings keys. The console writes them; the moderation
// middleware and join workflow re-read them on every decision.
const (
	KeyWelcomeMessage = "welcome_message"
	KeyCaptchaEnabled = "captcha_enabled"
	KeyLockdownMode   = "lockdown_mode"
	KeyBlacklist      = "blacklist"
	KeyAdmins         = "admins"
	KeyFilterWords    = "auto_decline_words"
	KeyLinkCardStyle  = "link_card_style"
	KeyLinkCardCustom = "link_card_template"
)

// Store is a durable typed key/value configuration store. Getters never
// fail visibly: a missing key or a stored value that does not decode as
// the requested type both resolve to the caller-supplied default.
// Setters are durable upserts; a returned error means the write did not
// commit and the enclosing action must be aborted.
type Store interface {
	String(key, def string) string
	SetString(key, value string) error

	Bool(key string, def bool) bool
	SetBool(key string, value bool) error

	IDList(key string) []int64
	SetIDList(key string, ids []int64) error

	StringList(key string) []string
	SetStringList(key string, values []string) error

	Close() error
}
