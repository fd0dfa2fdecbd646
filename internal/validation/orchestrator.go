package validation

import (
	"context"
	"fmt"

	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/internal/store"
	"github.com/postan/postan-api/pkg/logger"
	"github.com/postan/postan-api/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var log = logger.Named("validation")

// Orchestrator runs the entity-level rules of each kind. Fields are checked
// in declaration order, each through its rules in the order required, shape,
// bounds, references, uniqueness. Only the first failing rule of a field is
// reported but every field is checked.
type Orchestrator struct {
	refs        *ReferenceChecker
	unique      *UniquenessGuard
	passwordMin int
}

func NewOrchestrator(s store.Store, passwordMin int) *Orchestrator {
	if passwordMin <= 0 {
		passwordMin = DefaultPassMin
	}
	return &Orchestrator{
		refs:        NewReferenceChecker(s),
		unique:      NewUniquenessGuard(s),
		passwordMin: passwordMin,
	}
}

func (o *Orchestrator) References() *ReferenceChecker { return o.refs }
func (o *Orchestrator) Uniqueness() *UniquenessGuard  { return o.unique }

type rule struct {
	msg   string
	fails func(ctx context.Context) (bool, error)
}

type fieldRules struct {
	field string
	rules []rule
}

// when is a pure rule; cond is already evaluated.
func when(cond bool, msg string) rule {
	return rule{msg: msg, fails: func(context.Context) (bool, error) { return cond, nil }}
}

// unless is a store-backed rule that fails when ok reports false.
func unless(msg string, ok func(ctx context.Context) (bool, error)) rule {
	return rule{msg: msg, fails: func(ctx context.Context) (bool, error) {
		good, err := ok(ctx)
		return !good, err
	}}
}

func field(name string, cast castErrors, rules ...rule) fieldRules {
	if msg, bad := cast[name]; bad {
		rules = []rule{when(true, msg)}
	}
	return fieldRules{field: name, rules: rules}
}

func (o *Orchestrator) run(ctx context.Context, kind models.Kind, fields []fieldRules) error {
	var failed []FieldError
	for _, f := range fields {
		for _, r := range f.rules {
			bad, err := r.fails(ctx)
			if err != nil {
				return fmt.Errorf("validate %s.%s: %w", kind, f.field, err)
			}
			if bad {
				failed = append(failed, FieldError{Field: f.field, Message: r.msg})
				metrics.ModelValidationFailures.WithLabelValues(string(kind), f.field).Inc()
				break
			}
		}
	}
	if len(failed) == 0 {
		return nil
	}
	verr := &ValidationError{EntityKind: kind, Fields: failed}
	log.Debugf("%v", verr)
	return verr
}

func (o *Orchestrator) refExists(kind models.Kind, id primitive.ObjectID) func(context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) { return o.refs.IsValidRef(ctx, kind, id) }
}

func (o *Orchestrator) notInUse(kind models.Kind, key string, value interface{}) func(context.Context) (bool, error) {
	return func(ctx context.Context) (bool, error) {
		return o.unique.IsUnique(ctx, kind, bson.D{{Key: key, Value: value}})
	}
}

// ValidateUser checks a user about to be written.
func (o *Orchestrator) ValidateUser(ctx context.Context, u *models.User) error {
	return o.validateUser(ctx, u, nil)
}

// ValidateUserSource decodes a request body into a user and validates it.
// The password is checked in plain text here, so call it before hashing.
func (o *Orchestrator) ValidateUserSource(ctx context.Context, src Source) (*models.User, error) {
	u, cast := decodeUser(src)
	if err := o.validateUser(ctx, u, cast); err != nil {
		return nil, err
	}
	return u, nil
}

func (o *Orchestrator) validateUser(ctx context.Context, u *models.User, cast castErrors) error {
	m := UserMessages
	fields := []fieldRules{
		field(models.FieldEmail, cast,
			when(u.Email == "", m.EmailRequired),
			when(!IsEmail(u.Email), m.EmailInvalid),
			unless(m.EmailInUse, o.notInUse(models.KindUser, models.FieldEmail, u.Email)),
		),
		field(models.FieldPassword, cast,
			when(u.Password == "", m.PasswordRequired),
			when(!LengthWithin(u.Password, o.passwordMin, -1), m.PasswordTooShort),
		),
		field(models.FieldUsername, cast,
			when(u.Username == "", m.UsernameRequired),
			when(!LengthWithin(u.Username, UsernameMin, -1), m.UsernameTooShort),
			when(!LengthWithin(u.Username, 0, UsernameMax), m.UsernameTooLong),
		),
		field(models.FieldHandle, cast,
			when(u.Handle == "", m.HandleRequired),
			when(!HasNoInteriorWhitespace(u.Handle), m.HandleWhitespace),
			when(!LengthWithin(u.Handle, HandleMin, -1), m.HandleTooShort),
			when(!LengthWithin(u.Handle, 0, HandleMax), m.HandleTooLong),
			unless(m.HandleInUse, o.notInUse(models.KindUser, models.FieldHandle, u.Handle)),
		),
		field(models.FieldBio, cast, when(!LengthWithin(u.Bio, 0, BioMax), m.BioTooLong)),
		field(models.FieldLocation, cast, when(!LengthWithin(u.Location, 0, LocationMax), m.LocationTooLong)),
		field(models.FieldAvatar, cast, when(u.Avatar != "" && !IsURL(u.Avatar), m.AvatarInvalid)),
	}
	return o.run(ctx, models.KindUser, fields)
}

func (o *Orchestrator) ValidatePost(ctx context.Context, p *models.Post) error {
	return o.validatePost(ctx, p, nil)
}

// ValidatePostSource decodes a post from src and validates it. Values the
// server owns (user, timestamp) can be set on src before the call.
func (o *Orchestrator) ValidatePostSource(ctx context.Context, src Source) (*models.Post, error) {
	p, cast := decodePost(src)
	if err := o.validatePost(ctx, p, cast); err != nil {
		return nil, err
	}
	return p, nil
}

func (o *Orchestrator) validatePost(ctx context.Context, p *models.Post, cast castErrors) error {
	m := PostMessages
	empty := !PostHasContent(p)

	var message, files, link []rule
	message = append(message, when(empty, m.NoContent))
	files = append(files, when(empty, m.NoContent))
	link = append(link, when(empty, m.NoContent))
	if p.Message != nil {
		message = append(message,
			when(!LengthWithin(*p.Message, MessageMin, -1), m.MessageTooShort),
			when(!LengthWithin(*p.Message, 0, MessageMax), m.MessageTooLong))
	}
	if p.Files != nil {
		files = append(files, when(!allStringsAreURLs(p.Files), m.FilesInvalid))
	}
	if p.Link != nil {
		link = append(link, when(!IsURL(*p.Link), m.LinkInvalid))
	}

	var repost, replyTo []rule
	if p.Repost != nil {
		repost = append(repost, unless(m.PostNotExist, o.refExists(models.KindPost, *p.Repost)))
	}
	if p.ReplyTo != nil {
		replyTo = append(replyTo, unless(m.PostNotExist, o.refExists(models.KindPost, *p.ReplyTo)))
	}
	mentions := p.Mentions

	fields := []fieldRules{
		field(models.FieldUser, cast,
			when(p.User.IsZero(), m.UserRequired),
			unless(m.UserNotExist, o.refExists(models.KindUser, p.User)),
		),
		field(models.FieldTimestamp, cast,
			when(p.Timestamp == "", m.TimestampRequired),
			when(!IsUTCTimestamp(p.Timestamp), m.TimestampFormat),
			when(!TimestampHasValidContent(p.Timestamp), m.TimestampContent),
		),
		field(models.FieldMessage, cast, message...),
		field(models.FieldFiles, cast, files...),
		field(models.FieldLink, cast, link...),
		field(models.FieldRepost, cast, repost...),
		field(models.FieldReplyTo, cast, replyTo...),
		field(models.FieldMentions, cast, unless(m.MentionsNotExist, func(ctx context.Context) (bool, error) {
			return o.refs.AreValidRefs(ctx, models.KindUser, mentions)
		})),
		field(models.FieldTags, cast, when(!AllAreValidTags(p.Tags), m.TagFormat)),
	}
	return o.run(ctx, models.KindPost, fields)
}

func (o *Orchestrator) ValidateLike(ctx context.Context, l *models.Like) error {
	return o.validateLike(ctx, l, nil)
}

func (o *Orchestrator) ValidateLikeSource(ctx context.Context, src Source) (*models.Like, error) {
	l, cast := decodeLike(src)
	if err := o.validateLike(ctx, l, cast); err != nil {
		return nil, err
	}
	return l, nil
}

func (o *Orchestrator) validateLike(ctx context.Context, l *models.Like, cast castErrors) error {
	m := LikeMessages
	return o.run(ctx, models.KindLike, []fieldRules{
		field(models.PostID, cast,
			when(l.PostID.IsZero(), m.PostRequired),
			unless(m.PostNotExist, o.refExists(models.KindPost, l.PostID)),
		),
		field(models.UserID, cast,
			when(l.UserID.IsZero(), m.UserRequired),
			unless(m.UserNotExist, o.refExists(models.KindUser, l.UserID)),
		),
	})
}

func (o *Orchestrator) ValidateFollowing(ctx context.Context, f *models.Following) error {
	return o.validateFollowing(ctx, f, nil)
}

func (o *Orchestrator) ValidateFollowingSource(ctx context.Context, src Source) (*models.Following, error) {
	f, cast := decodeFollowing(src)
	if err := o.validateFollowing(ctx, f, cast); err != nil {
		return nil, err
	}
	return f, nil
}

func (o *Orchestrator) validateFollowing(ctx context.Context, f *models.Following, cast castErrors) error {
	m := FollowingMessages
	return o.run(ctx, models.KindFollowing, []fieldRules{
		field(models.FieldFollower, cast,
			when(f.Follower.IsZero(), m.FollowerRequired),
			unless(m.FollowerNotExist, o.refExists(models.KindUser, f.Follower)),
		),
		field(models.FieldFollowing, cast,
			when(f.Following.IsZero(), m.FollowingRequired),
			unless(m.FollowingNotExist, o.refExists(models.KindUser, f.Following)),
		),
	})
}
