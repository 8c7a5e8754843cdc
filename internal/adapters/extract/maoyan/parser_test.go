package maoyan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestSplitInfo(t *testing.T) {
	t.Parallel()

	cases := []struct {
		info     string
		platform string
		online   string
	}{
		{"腾讯视频独播 上线8天", "腾讯视频独播", "上线8天"},
		{"芒果TV独播 上线首日", "芒果TV独播", "上线首日"},
		{"优酷独播", "优酷独播", ""},
		{"  爱奇艺独播   上线3天 ", "爱奇艺独播", "上线3天"},
		{"", "", ""},
	}

	for _, tc := range cases {
		platform, online := splitInfo(tc.info)
		assert.Equal(t, tc.platform, platform, tc.info)
		assert.Equal(t, tc.online, online, tc.info)
	}
}

func TestIsFirstDay(t *testing.T) {
	t.Parallel()

	assert.True(t, isFirstDay("上线首日"))
	assert.False(t, isFirstDay("上线8天"))
	assert.False(t, isFirstDay(""))
}

func TestParseEntriesPairsNamesAndInfos(t *testing.T) {
	t.Parallel()

	page := `<html><body>
		<div class="rank-item">
			<p class="video-name">开端</p>
			<p class="web-info">腾讯视频独播 上线8天</p>
		</div>
		<div class="rank-item">
			<p class="video-name">  风起
			陇西 </p>
			<p class="web-info">芒果TV独播 上线首日</p>
		</div>
		<p class="other">ignored</p>
	</body></html>`

	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)

	entries := parseEntries(doc)
	require.Len(t, entries, 2)
	assert.Equal(t, "开端", entries[0].name)
	assert.Equal(t, "腾讯视频独播 上线8天", entries[0].info)
	assert.Equal(t, "风起 陇西", entries[1].name)
}

func TestParseEntriesToleratesMissingInfo(t *testing.T) {
	t.Parallel()

	page := `<html><body>
		<p class="video-name">开端</p>
		<p class="video-name">风起陇西</p>
		<p class="web-info">腾讯视频独播 上线8天</p>
	</body></html>`

	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)

	entries := parseEntries(doc)
	require.Len(t, entries, 2)
	assert.Equal(t, "腾讯视频独播 上线8天", entries[0].info)
	assert.Empty(t, entries[1].info)
}

func TestParseEntriesSkipsEmptyNames(t *testing.T) {
	t.Parallel()

	page := `<html><body>
		<p class="video-name">   </p>
		<p class="video-name">开端</p>
	</body></html>`

	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)

	entries := parseEntries(doc)
	require.Len(t, entries, 1)
	assert.Equal(t, "开端", entries[0].name)
}
