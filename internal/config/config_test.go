package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAllowList(t *testing.T) {
	urls := SplitAllowList("https://a.example/faq, https://b.example/rss\nhttps://c.example/help")
	assert.Equal(t, []string{
		"https://a.example/faq",
		"https://b.example/rss",
		"https://c.example/help",
	}, urls)
}

func TestSplitAllowListEmpty(t *testing.T) {
	assert.Empty(t, SplitAllowList(""))
	assert.Empty(t, SplitAllowList(" , \n "))
}

func TestValidateLine(t *testing.T) {
	var cfg Config
	assert.Error(t, cfg.ValidateLine())

	cfg.Line.ChannelSecret = "s"
	assert.Error(t, cfg.ValidateLine())

	cfg.Line.ChannelToken = "t"
	assert.NoError(t, cfg.ValidateLine())
}
