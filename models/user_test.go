package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSignup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  bool
	}{
		{"valid", "Ann Lee", "ann@x.com", "password1", false},
		{"name too short", "Al", "ann@x.com", "password1", true},
		{"name too long", strings.Repeat("a", 60), "ann@x.com", "password1", true},
		{"bad email", "Ann Lee", "not-an-email", "password1", true},
		{"short password", "Ann Lee", "ann@x.com", "short", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.userName, tt.email, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("password1")
	require.NoError(t, err)
	require.NotEqual(t, "password1", hash)

	u := User{PasswordHash: hash}
	assert.True(t, u.CheckPassword("password1"))
	assert.False(t, u.CheckPassword("password2"))
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ann@x.com", NormalizeEmail("  Ann@X.Com "))
}

func TestPublicNeverCarriesCredentials(t *testing.T) {
	t.Parallel()

	u := User{
		Name:         "Ann Lee",
		Email:        "ann@x.com",
		PasswordHash: "hash",
		RefreshToken: "refresh",
		TokenVersion: 3,
	}

	body, err := json.Marshal(u.Public())
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &raw))

	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "passwordHash")
	assert.NotContains(t, raw, "refreshToken")
	assert.NotContains(t, raw, "tokenVersion")
	assert.Equal(t, "ann@x.com", raw["email"])
}

func TestValidateYoutubeURL(t *testing.T) {
	t.Parallel()

	valid := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"http://youtube.com/watch?v=abc",
		"https://youtu.be/dQw4w9WgXcQ",
		"www.youtube.com/shorts/abc123",
		"https://m.youtube.com/watch?v=abc",
	}
	for _, url := range valid {
		assert.NoError(t, ValidateYoutubeURL(url), url)
	}

	invalid := []string{
		"",
		"https://vimeo.com/12345",
		"https://example.com/youtube.com",
		"youtube.com",
	}
	for _, url := range invalid {
		assert.Error(t, ValidateYoutubeURL(url), url)
	}
}

func TestNewYoutubeLink(t *testing.T) {
	t.Parallel()

	a := NewYoutubeLink(1, " https://youtu.be/abc ", " First ")
	b := NewYoutubeLink(1, "https://youtu.be/def", "Second")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "https://youtu.be/abc", a.URL)
	assert.Equal(t, "First", a.Title)
	assert.False(t, a.AddedAt.IsZero())
}
