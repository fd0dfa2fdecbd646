package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	for _, v := range []interface{}{nil, "", 0.0, false, 0} {
		require.False(t, Truthy(v), "%#v", v)
	}
	for _, v := range []interface{}{"x", 1.5, true, []interface{}{}, map[string]interface{}{}} {
		require.True(t, Truthy(v), "%#v", v)
	}
}

func TestRequireAll(t *testing.T) {
	src := Source{"postId": "abc", "userId": "", "other": 1.0}
	require.NoError(t, RequireAll(SourceBody, src, "postId", "other"))

	err := RequireAll(SourceBody, src, "userId", "postId", "missing")
	var missing *MissingFieldsError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, []string{"userId", "missing"}, missing.Fields)
	require.Equal(t, "Missing expected req body params userId, missing.", missing.Message())

	err = RequireAll(SourceParams, Source{}, "likeId")
	require.Equal(t, "Missing expected req route params likeId.", err.Error())
}

func TestRequireAllWithoutSource(t *testing.T) {
	err := RequireAll(SourceParams, nil, "postId")
	var none *NoSourceError
	require.True(t, errors.As(err, &none))
	require.Equal(t, "No request params available when expected.", none.Message())

	err = RequireSome(SourceBody, nil, "postId")
	require.Equal(t, "No request body available when expected.", err.Error())
}

func TestRequireSome(t *testing.T) {
	require.NoError(t, RequireSome(SourceBody, Source{"userId": "x"}, "postId", "userId"))

	err := RequireSome(SourceBody, Source{"postId": ""}, "postId", "userId")
	var nomatch *NoMatchingFieldError
	require.True(t, errors.As(err, &nomatch))
	require.Equal(t, []string{"postId", "userId"}, nomatch.Candidates)
	require.Equal(t, "Missing params, expected at least one of the following req body params postId, userId.", nomatch.Message())
	require.Equal(t, KindNoMatchingField, nomatch.Kind())
}

func TestRequireObjectID(t *testing.T) {
	require.True(t, IsValidObjectID("60d3b41abdacab0026a733c6"))
	require.False(t, IsValidObjectID("60d3b41abdacab0026a733c"))
	require.False(t, IsValidObjectID("zzd3b41abdacab0026a733c6"))

	_, err := RequireObjectID("nope")
	var invalid *InvalidIdentifierError
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, "Invalid object ID provided.", invalid.Message())
}
