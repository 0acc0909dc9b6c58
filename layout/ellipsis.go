package layout

// Ellipsis 是尾部截断使用的省略号。
const Ellipsis = "…"

// EllipsizeEnd 在 text 超出 avail 时截断尾部并追加省略号。
// 返回值要么是原文，要么是原文的严格前缀加省略号且宽度不超过 avail；
// 连省略号都放不下时返回空串。width 需对前缀长度单调不减。
func EllipsizeEnd(text string, avail float64, width func(string) float64) string {
	if text == "" {
		return ""
	}
	if width(text) <= avail {
		return text
	}
	if avail <= 0 {
		return ""
	}
	runes := []rune(text)
	best := -1
	lo, hi := 0, len(runes)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if width(string(runes[:mid])+Ellipsis) <= avail {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best < 0 {
		return ""
	}
	return string(runes[:best]) + Ellipsis
}
