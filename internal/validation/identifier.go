package validation

import "go.mongodb.org/mongo-driver/bson/primitive"

// IsValidObjectID reports whether s is a 24 character hex object id.
func IsValidObjectID(s string) bool {
	return primitive.IsValidObjectID(s)
}

// RequireObjectID parses s or fails with InvalidIdentifierError.
func RequireObjectID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, &InvalidIdentifierError{Value: s}
	}
	return id, nil
}
