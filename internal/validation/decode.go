package validation

import (
	"strconv"

	"github.com/postan/postan-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// castErrors records fields whose value had the wrong type, keyed by wire
// name. The orchestrator reports them as that field's shape failure.
type castErrors map[string]string

func (c castErrors) set(field, msg string) {
	if _, ok := c[field]; !ok {
		c[field] = msg
	}
}

// asString accepts strings and stringifies numbers and booleans. Objects and
// arrays do not cast.
func asString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func asObjectID(v interface{}) (primitive.ObjectID, bool) {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t, true
	case string:
		id, err := primitive.ObjectIDFromHex(t)
		return id, err == nil
	default:
		return primitive.NilObjectID, false
	}
}

func asStrings(v interface{}) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, el := range t {
			s, ok := el.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func asObjectIDs(v interface{}) ([]primitive.ObjectID, bool) {
	var raw []interface{}
	switch t := v.(type) {
	case []primitive.ObjectID:
		return t, true
	case []string:
		for _, s := range t {
			raw = append(raw, s)
		}
	case []interface{}:
		raw = t
	default:
		return nil, false
	}
	out := make([]primitive.ObjectID, 0, len(raw))
	for _, el := range raw {
		id, ok := asObjectID(el)
		if !ok {
			return nil, false
		}
		out = append(out, id)
	}
	return out, true
}

func stringField(src Source, field, castMsg string, errs castErrors) string {
	s, ok := asString(src[field])
	if !ok {
		errs.set(field, castMsg)
	}
	return s
}

// refField decodes an optional reference. A value that is not an object id
// cannot name a stored document, so it is reported with the not-exist message.
func refField(src Source, field, notExistMsg string, errs castErrors) *primitive.ObjectID {
	v, present := src[field]
	if !present || !Truthy(v) {
		return nil
	}
	id, ok := asObjectID(v)
	if !ok {
		errs.set(field, notExistMsg)
		return nil
	}
	return &id
}

func requiredRef(src Source, field, notExistMsg string, errs castErrors) primitive.ObjectID {
	if id := refField(src, field, notExistMsg, errs); id != nil {
		return *id
	}
	return primitive.NilObjectID
}

func decodeUser(src Source) (*models.User, castErrors) {
	errs := castErrors{}
	m := UserMessages
	u := &models.User{
		Email:    stringField(src, models.FieldEmail, m.EmailInvalid, errs),
		Password: stringField(src, models.FieldPassword, m.PasswordRequired, errs),
		Username: stringField(src, models.FieldUsername, m.UsernameRequired, errs),
		Handle:   stringField(src, models.FieldHandle, m.HandleRequired, errs),
		Bio:      stringField(src, models.FieldBio, m.BioTooLong, errs),
		Location: stringField(src, models.FieldLocation, m.LocationTooLong, errs),
		Avatar:   stringField(src, models.FieldAvatar, m.AvatarInvalid, errs),
	}
	return u, errs
}

func decodePost(src Source) (*models.Post, castErrors) {
	errs := castErrors{}
	m := PostMessages
	p := &models.Post{
		User:    requiredRef(src, models.FieldUser, m.UserNotExist, errs),
		Repost:  refField(src, models.FieldRepost, m.PostNotExist, errs),
		ReplyTo: refField(src, models.FieldReplyTo, m.PostNotExist, errs),
	}

	if v, ok := src[models.FieldTimestamp]; ok && v != nil {
		if s, isString := v.(string); isString {
			p.Timestamp = s
		} else {
			errs.set(models.FieldTimestamp, m.TimestampFormat)
		}
	}
	if v, ok := src[models.FieldMessage]; ok && v != nil {
		if s, cast := asString(v); cast {
			p.Message = &s
		} else {
			errs.set(models.FieldMessage, m.MessageInvalid)
		}
	}
	if v, ok := src[models.FieldLink]; ok && v != nil {
		if s, isString := v.(string); isString {
			p.Link = &s
		} else {
			errs.set(models.FieldLink, m.LinkInvalid)
		}
	}
	if v, ok := src[models.FieldFiles]; ok && v != nil {
		if files, isList := asStrings(v); isList {
			p.Files = files
		} else {
			errs.set(models.FieldFiles, m.FilesInvalid)
		}
	}
	if v, ok := src[models.FieldMentions]; ok && v != nil {
		if ids, isList := asObjectIDs(v); isList {
			p.Mentions = ids
		} else {
			errs.set(models.FieldMentions, m.MentionsNotExist)
		}
	}
	if v, ok := src[models.FieldTags]; ok && v != nil {
		if tags, isList := asStrings(v); isList {
			p.Tags = tags
		} else {
			errs.set(models.FieldTags, m.TagFormat)
		}
	}
	return p, errs
}

func decodeLike(src Source) (*models.Like, castErrors) {
	errs := castErrors{}
	return &models.Like{
		PostID: requiredRef(src, models.PostID, LikeMessages.PostNotExist, errs),
		UserID: requiredRef(src, models.UserID, LikeMessages.UserNotExist, errs),
	}, errs
}

func decodeFollowing(src Source) (*models.Following, castErrors) {
	errs := castErrors{}
	return &models.Following{
		Follower:  requiredRef(src, models.FieldFollower, FollowingMessages.FollowerNotExist, errs),
		Following: requiredRef(src, models.FieldFollowing, FollowingMessages.FollowingNotExist, errs),
	}, errs
}
