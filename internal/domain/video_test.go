package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompressionPercentage(t *testing.T) {
	tests := []struct {
		name       string
		original   string
		compressed string
		want       int
	}{
		{"halved", "10485760", "5242880", 50},
		{"rounds", "3", "2", 33},
		{"unchanged", "100", "100", 0},
		{"grew", "100", "150", -50},
		{"zero original", "0", "10", 0},
		{"garbage original", "abc", "10", 0},
		{"garbage compressed", "100", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Video{OriginalSize: tt.original, CompressedSize: tt.compressed}
			assert.Equal(t, tt.want, v.CompressionPercentage())
		})
	}
}

func TestOptionalText(t *testing.T) {
	assert.Nil(t, OptionalText(""))
	if got := OptionalText("clip"); assert.NotNil(t, got) {
		assert.Equal(t, "clip", *got)
	}
}

func TestFindSocialFormat(t *testing.T) {
	f, ok := FindSocialFormat(DefaultSocialFormat)
	assert.True(t, ok)
	assert.Equal(t, 1080, f.Width)
	assert.Equal(t, 1080, f.Height)

	_, ok = FindSocialFormat("MySpace Banner")
	assert.False(t, ok)
	assert.Len(t, SocialFormats, 13)
}
