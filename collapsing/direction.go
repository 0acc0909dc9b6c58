package collapsing

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/bidi"

	"github.com/ByLCY/subtitlebar/layout"
)

// firstStrongRTL 按第一个强方向字符判断文本方向；没有强方向字符时 ok 为 false。
func firstStrongRTL(text string) (rtl bool, ok bool) {
	for len(text) > 0 {
		props, size := bidi.LookupString(text)
		if size == 0 {
			_, size = utf8.DecodeRuneInString(text)
		}
		switch props.Class() {
		case bidi.L:
			return false, true
		case bidi.R, bidi.AL:
			return true, true
		}
		text = text[size:]
	}
	return false, false
}

// resolveDirection 依次参考标题与副标题的绘制文本，都没有强方向字符时采用视图方向。
func (e *Engine) resolveDirection() bool {
	for _, id := range layout.Lines {
		if rtl, ok := firstStrongRTL(e.lines[id].toDraw); ok {
			return rtl
		}
	}
	return e.view.LayoutRTL()
}
