package mount

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathNormalizer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"//", "/"},
		{"a", "/a"},
		{"/a/", "/a"},
		{"/a//b", "/a/b"},
		{"/a/./b/", "/a/b"},
		{"/a/b/../c", "/a/c"},
		{"/../..", "/"},
		{`\a\b`, "/a/b"},
		{`C:\Users`, "/C:/Users"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PathNormalizer{}.Normalize(tt.in))
		})
	}
}

func TestFormatMountPoint(t *testing.T) {
	assert.Equal(t, "/", FormatMountPoint(nil, ""))
	assert.Equal(t, "/", FormatMountPoint(nil, "/"))
	assert.Equal(t, "/a/", FormatMountPoint(nil, "/a"))
	assert.Equal(t, "/a/b/", FormatMountPoint(nil, "a//b/"))

	upper := NormalizerFunc(func(p string) string {
		return strings.ToUpper(PathNormalizer{}.Normalize(p))
	})
	assert.Equal(t, "/A/B/", FormatMountPoint(upper, "/a/b"))
}
