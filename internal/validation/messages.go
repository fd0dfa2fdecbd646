package validation

// Message catalogs. API consumers match on these strings; do not reword.

var UserMessages = struct {
	EmailRequired, EmailInvalid, EmailInUse                          string
	PasswordRequired, PasswordTooShort                               string
	UsernameRequired, UsernameTooShort, UsernameTooLong              string
	HandleRequired, HandleWhitespace, HandleTooShort, HandleTooLong  string
	HandleInUse, BioTooLong, LocationTooLong, AvatarInvalid          string
}{
	EmailRequired:    "Email is required.",
	EmailInvalid:     "Invalid email format.",
	EmailInUse:       "Email already in use.",
	PasswordRequired: "Password is required.",
	PasswordTooShort: "Password too short.",
	UsernameRequired: "Username is required.",
	UsernameTooShort: "Username too short.",
	UsernameTooLong:  "Username too long.",
	HandleRequired:   "Handle is required.",
	HandleWhitespace: "Invalid handle, has whitespace.",
	HandleTooShort:   "Handle too short.",
	HandleTooLong:    "Handle too long.",
	HandleInUse:      "Handle already in use.",
	BioTooLong:       "Bio too long.",
	LocationTooLong:  "Location too long.",
	AvatarInvalid:    "Invalid avatar URL.",
}

var PostMessages = struct {
	UserRequired, UserNotExist, PostNotExist, NoContent           string
	TimestampRequired, TimestampFormat, TimestampContent          string
	MessageTooShort, MessageTooLong, MessageInvalid               string
	FilesInvalid, LinkInvalid, TagFormat, MentionsNotExist        string
}{
	UserRequired:      "User is required.",
	UserNotExist:      "User does not exist.",
	PostNotExist:      "Post does not exist.",
	NoContent:         "No post content.",
	TimestampRequired: "Timestamp is required.",
	TimestampFormat:   "Invalid timestamp format.",
	TimestampContent:  "Invalid timestamp content.",
	MessageTooShort:   "Message too short.",
	MessageTooLong:    "Message too long.",
	MessageInvalid:    "Invalid message content.",
	FilesInvalid:      "Invalid files content.",
	LinkInvalid:       "Invalid link content.",
	TagFormat:         "Invalid tag format.",
	MentionsNotExist:  "User does not exist.",
}

var LikeMessages = struct {
	UserRequired, UserNotExist, PostRequired, PostNotExist string
}{
	UserRequired: "User is required.",
	UserNotExist: "User does not exist.",
	PostRequired: "Post is required.",
	PostNotExist: "Post does not exist.",
}

var FollowingMessages = struct {
	FollowerRequired, FollowingRequired, FollowerNotExist, FollowingNotExist string
}{
	FollowerRequired:  "Follower User is required.",
	FollowingRequired: "Following User is required.",
	FollowerNotExist:  "Follower User does not exist.",
	FollowingNotExist: "Following User does not exist.",
}

// Length bounds, inclusive, counted in runes.
const (
	UsernameMin    = 4
	UsernameMax    = 50
	HandleMin      = 4
	HandleMax      = 15
	MessageMin     = 1
	MessageMax     = 280
	BioMax         = 160
	LocationMax    = 30
	DefaultPassMin = 8
)
