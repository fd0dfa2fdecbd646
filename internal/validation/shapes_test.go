package validation

import (
	"strings"
	"testing"

	"github.com/postan/postan-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestIsUTCTimestamp(t *testing.T) {
	require.True(t, IsUTCTimestamp("Wed, 23 Jun 2021 14:22:08 GMT"))
	require.True(t, IsUTCTimestamp("Wed, 23 Jun 2021 94:22:08 GMT"))
	require.False(t, IsUTCTimestamp("2021-06-23T14:22:08Z"))
	require.False(t, IsUTCTimestamp("Wed, 23 Jun 2021 14:22:08 UTC"))
	require.False(t, IsUTCTimestamp("Wed 23 Jun 2021 14:22:08 GMT"))
	require.False(t, IsUTCTimestamp(1624458128))
	require.False(t, IsUTCTimestamp(nil))
}

func TestTimestampHasValidContent(t *testing.T) {
	require.True(t, TimestampHasValidContent("Wed, 23 Jun 2021 14:22:08 GMT"))
	require.True(t, TimestampHasValidContent("Wed, 23 Jun 2021 14 22 08 GMT"))
	require.False(t, TimestampHasValidContent("Wed, 23 Jun 2021 94:22:08 GMT"))
	require.False(t, TimestampHasValidContent("Wed, 31 Feb 2021 14:22:08 GMT"))
	require.False(t, TimestampHasValidContent("Wed, 23 Jux 2021 14:22:08 GMT"))
	require.False(t, TimestampHasValidContent("not a timestamp"))
}

func TestAllAreURLs(t *testing.T) {
	require.True(t, AllAreURLs([]interface{}{"https://storage.com/folder/filename.jpg"}))
	require.True(t, AllAreURLs([]interface{}{"http://storage.com/a.png", "ftp://files.example.org/b"}))
	require.True(t, AllAreURLs(nil))
	require.False(t, AllAreURLs([]interface{}{"htt:/storage.com"}))
	require.False(t, AllAreURLs([]interface{}{"https://website/folder/subfolder"}))
	require.False(t, AllAreURLs([]interface{}{"https://storage.com/a.png", 7}))
}

func TestIsURL(t *testing.T) {
	require.True(t, IsURL("https://website.com/folder/subfolder"))
	require.True(t, IsURL("https://website.com:8443/x"))
	require.False(t, IsURL("mailto:someone@website.com"))
	require.False(t, IsURL(""))
}

func TestAllAreValidTags(t *testing.T) {
	require.True(t, AllAreValidTags([]string{"#1234", "#Tag"}))
	require.True(t, AllAreValidTags([]string{"#snake_case"}))
	require.False(t, AllAreValidTags([]string{"ID"}))
	require.False(t, AllAreValidTags([]string{"#"}))
	require.False(t, AllAreValidTags([]string{"#with-dash"}))
	require.False(t, AllAreValidTags([]string{"#" + strings.Repeat("a", 25)}))
	require.True(t, AllAreValidTags([]string{"#" + strings.Repeat("a", 24)}))
}

func TestIsEmail(t *testing.T) {
	require.True(t, IsEmail("email@address.com"))
	require.False(t, IsEmail("email@"))
	require.False(t, IsEmail("email@address"))
	require.False(t, IsEmail("emailaddress.com"))
}

func TestPostHasContent(t *testing.T) {
	msg, empty := "hi", ""
	require.False(t, PostHasContent(&models.Post{Tags: []string{"#a"}}))
	require.False(t, PostHasContent(&models.Post{Message: &empty, Files: []string{}}))
	require.True(t, PostHasContent(&models.Post{Message: &msg}))
	require.True(t, PostHasContent(&models.Post{Files: []string{"https://storage.com/a.png"}}))
	require.False(t, PostHasContent(nil))
}

func TestLengthAndWhitespace(t *testing.T) {
	require.True(t, LengthWithin("abcd", 4, 15))
	require.False(t, LengthWithin("han", 4, 15))
	require.False(t, LengthWithin("handle1234567890", 4, 15))
	require.True(t, LengthWithin("ハンドル", 4, 15))
	require.True(t, LengthWithin(strings.Repeat("x", 1000), 1, -1))

	require.True(t, HasNoInteriorWhitespace(" handle "))
	require.False(t, HasNoInteriorWhitespace("han dle"))
	require.False(t, HasNoInteriorWhitespace("han\tdle"))
}
