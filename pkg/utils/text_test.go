package utils

import (
	"testing"
)

func TestTruncateRunes(t *testing.T) {
	if TruncateRunes("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if TruncateRunes("hello world", 5) != "hello" {
		t.Errorf("got %s", TruncateRunes("hello world", 5))
	}
	if TruncateRunes("x", 0) != "x" {
		t.Error("maxRunes 0 returns as-is")
	}
	if TruncateRunes("群聊数据导出", 2) != "群聊" {
		t.Errorf("rune truncation broke multi-byte text: %s", TruncateRunes("群聊数据导出", 2))
	}
}
