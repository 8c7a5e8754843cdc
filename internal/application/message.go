package application

import (
	"strings"
	"time"

	"github.com/bnema/dramaradar/internal/domain"
)

// FormatNotification builds the display text for one newly detected title.
func FormatNotification(item domain.RankedItem, sourceURL string, at time.Time) string {
	var b strings.Builder

	b.WriteString("🎯 猫眼网播热度新剧：")
	b.WriteString(item.Title)

	details := make([]string, 0, 2)
	if item.Platform != "" {
		details = append(details, item.Platform)
	}
	if item.OnlineDesc != "" {
		details = append(details, item.OnlineDesc)
	}
	if len(details) > 0 {
		b.WriteString("（")
		b.WriteString(strings.Join(details, "；"))
		b.WriteString("）")
	}

	if sourceURL != "" {
		b.WriteString("\n来源：")
		b.WriteString(sourceURL)
	}
	b.WriteString("\n时间：")
	b.WriteString(at.Format("2006-01-02 15:04:05"))

	return b.String()
}
