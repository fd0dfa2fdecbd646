// Package models holds the persisted document shapes. Struct tags are the
// single mapping from Go field names to wire (json) and storage (bson) names.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind names a category of document. Kinds double as collection names.
type Kind string

const (
	KindUser      Kind = "user"
	KindPost      Kind = "post"
	KindLike      Kind = "like"
	KindFollowing Kind = "following"
)

// Wire names of entity fields and route params.
const (
	UserID      = "userId"
	PostID      = "postId"
	LikeID      = "likeId"
	FollowingID = "followingId"

	FieldEmail    = "email"
	FieldPassword = "password"
	FieldUsername = "username"
	FieldHandle   = "handle"
	FieldBio      = "bio"
	FieldLocation = "location"
	FieldAvatar   = "avatar"

	FieldUser      = "user"
	FieldTimestamp = "timestamp"
	FieldMessage   = "message"
	FieldFiles     = "files"
	FieldLink      = "link"
	FieldRepost    = "repost"
	FieldReplyTo   = "replyTo"
	FieldMentions  = "mentions"
	FieldTags      = "tags"

	FieldFollower  = "userFollower"
	FieldFollowing = "userFollowing"
)

// TimestampLayout is the UTC timestamp form stored on posts.
const TimestampLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Username string             `bson:"username" json:"username"`
	Handle   string             `bson:"handle" json:"handle"`
	Bio      string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Location string             `bson:"location,omitempty" json:"location,omitempty"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Post content is message, files or link; at least one must be set.
// Message and Link are pointers so an empty value can be told apart from
// an absent one.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Timestamp string               `bson:"timestamp" json:"timestamp"`
	Message   *string              `bson:"message,omitempty" json:"message,omitempty"`
	Files     []string             `bson:"files,omitempty" json:"files,omitempty"`
	Link      *string              `bson:"link,omitempty" json:"link,omitempty"`
	Repost    *primitive.ObjectID  `bson:"repost,omitempty" json:"repost,omitempty"`
	ReplyTo   *primitive.ObjectID  `bson:"replyTo,omitempty" json:"replyTo,omitempty"`
	Mentions  []primitive.ObjectID `bson:"mentions,omitempty" json:"mentions,omitempty"`
	Tags      []string             `bson:"tags,omitempty" json:"tags,omitempty"`
}

type Like struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID primitive.ObjectID `bson:"postId" json:"postId"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
}

type Following struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Follower  primitive.ObjectID `bson:"userFollower" json:"userFollower"`
	Following primitive.ObjectID `bson:"userFollowing" json:"userFollowing"`
}
