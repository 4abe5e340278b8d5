package utils

import (
	"unicode/utf8"
)

const (
	// GitHubの各種テキスト長制限
	// https://docs.github.com/en/rest/issues/issues?apiVersion=2022-11-28
	MaxIssueTitleLength = 256   // Issueのタイトル最大長
	MaxIssueBodyLength  = 65536 // Issueの本文最大長（64KB）

	// 切り詰め表示用のサフィックス
	TruncateSuffix = "... [truncated]"
)

// TruncateText は指定された最大長に基づいてテキストを切り詰めます
func TruncateText(text string, maxLength int) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}

	// 最大長からサフィックス長を引いた長さまで切り詰める
	availableLength := maxLength - utf8.RuneCountInString(TruncateSuffix)
	runes := []rune(text)
	if availableLength <= 0 {
		// 極端に短い場合は単にmaxLengthまで切る
		return string(runes[:maxLength])
	}

	return string(runes[:availableLength]) + TruncateSuffix
}
