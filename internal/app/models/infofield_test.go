package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInfoFieldIsCaseInsensitive(t *testing.T) {
	tests := []struct {
		input string
		want  InfoField
	}{
		{input: "Avatar", want: InfoAvatar},
		{input: "avatar", want: InfoAvatar},
		{input: "student number", want: InfoStudentNumber},
		{input: "Student Number", want: InfoStudentNumber},
		{input: "EMAIL", want: InfoEmail},
	}

	for _, tt := range tests {
		got, err := ParseInfoField(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseInfoFieldRejectsUnknownNames(t *testing.T) {
	for _, input := range []string{"", "Phone", "avatar_url"} {
		_, err := ParseInfoField(input)
		assert.Error(t, err, input)
	}
}

func TestCellValuePullsProfileFields(t *testing.T) {
	profile := Profile{
		UserID:        5,
		Name:          "Jane Tan",
		AvatarURL:     "https://img/j.png",
		StudentNumber: "A0123456X",
		Email:         "jane@u.edu",
	}

	avatar := InfoAvatar.CellValue(profile)
	require.NotNil(t, avatar.Avatar)
	assert.Equal(t, "https://img/j.png", avatar.Avatar.URL)
	assert.Empty(t, avatar.Text)

	assert.Equal(t, TextCell("A0123456X"), InfoStudentNumber.CellValue(profile))
	assert.Equal(t, TextCell("jane@u.edu"), InfoEmail.CellValue(profile))
}
