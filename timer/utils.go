package timer

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// split returns whole minutes and the seconds within the current minute.
func split(d time.Duration) (int64, int64) {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return ms / 1000 / 60, (ms / 1000) % 60
}

var defaultFormatter = NewFormatter(language.English)

// FormatTime converts a duration into a mm:ss string with ASCII digits.
func FormatTime(d time.Duration) string {
	return defaultFormatter.Format(d)
}

// Formatter renders mm:ss with the digits of a locale. It is safe for
// concurrent use.
type Formatter struct {
	tag language.Tag
}

// NewFormatter creates a Formatter for the given language.
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{tag: tag}
}

// Format renders d as zero padded minutes and seconds, without grouping.
func (f *Formatter) Format(d time.Duration) string {
	m, s := split(d)
	return message.NewPrinter(f.tag).Sprintf("%v:%v",
		number.Decimal(m, number.MinIntegerDigits(2), number.NoSeparator()),
		number.Decimal(s, number.MinIntegerDigits(2), number.NoSeparator()),
	)
}
