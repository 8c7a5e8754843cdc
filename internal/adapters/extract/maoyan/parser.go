package maoyan

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rawEntry pairs a title with its raw info line ("腾讯视频独播 上线8天").
type rawEntry struct {
	name string
	info string
}

// parseEntries extracts the text of p.video-name and p.web-info elements in
// document order and pairs them by index, mirroring the page layout.
func parseEntries(doc *html.Node) []rawEntry {
	var names, infos []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			switch {
			case hasClass(n, "video-name"):
				if text := collapseText(n); text != "" {
					names = append(names, text)
				}
			case hasClass(n, "web-info"):
				infos = append(infos, collapseText(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	entries := make([]rawEntry, 0, len(names))
	for i, name := range names {
		info := ""
		if i < len(infos) {
			info = infos[i]
		}
		entries = append(entries, rawEntry{name: name, info: info})
	}
	return entries
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func collapseText(n *html.Node) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.Join(strings.Fields(b.String()), " ")
}

const (
	onlineMarker   = "上线"
	firstDayMarker = "上线首日"
)

// splitInfo separates the stable platform prefix from the day counter
// ("上线首日", "上线8天"), so the counter ticking over never changes the
// stored platform metadata.
func splitInfo(info string) (platform, onlineDesc string) {
	idx := strings.Index(info, onlineMarker)
	if idx < 0 {
		return collapse(info), ""
	}
	return collapse(info[:idx]), collapse(info[idx:])
}

func isFirstDay(onlineDesc string) bool {
	return strings.Contains(onlineDesc, firstDayMarker)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
