package announcer

import (
	"fmt"
	"strings"
	"time"
)

// Embed colors
const (
	ColorSuccess = 0x2ECC71
	ColorWarning = 0xE67E22
	ColorInfo    = 0x3498DB
)

// FormatCount formats a number with thousand separators
func FormatCount(n int64) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}

	str := fmt.Sprintf("%d", n)
	digits := len(str)
	if digits <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (digits-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	return result.String()
}

// FormatStreak renders a streak length as "1 day" or "N days"
func FormatStreak(days int) string {
	if days == 1 {
		return "1 day"
	}
	return FormatCount(int64(days)) + " days"
}

// FormatDiscordTimestamp formats a time as a Discord timestamp shown in the reader's timezone.
// Format types: "d" short date, "D" long date, "f" short date/time, "R" relative.
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
