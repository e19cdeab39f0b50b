package katagami

import "strings"

// ClassifyPI classifies a PI's raw body (the text between "<?" and
// "?>") and returns its Kind together with the remainder of interest
// to that kind's handler:
//
//   - KindExpression: the body with the leading "=" stripped.
//   - KindScript: the body with the leading "py" stripped.
//   - KindBlock: the body unchanged — a block's header and closer share
//     one PI shape ("} elif cond: {", "}", "header: {"), so splitting
//     leading "}" from trailing "{" is the emitter's job, not the
//     classifier's.
//   - KindEscape: the body with the leading "\" stripped.
//   - KindPassThrough: the original "<?body?>" text, unchanged.
//
// Classification order is the one fixed by the spec: expression, script,
// block, escape, pass-through — the first matching rule wins.
func ClassifyPI(body string) (Kind, string) {
	switch {
	case strings.HasPrefix(body, "="):
		return KindExpression, body[1:]

	case strings.HasPrefix(body, "py"):
		return KindScript, body[2:]

	case strings.HasPrefix(body, "}") || strings.HasSuffix(body, "{"):
		return KindBlock, body

	case strings.HasPrefix(body, `\`):
		return KindEscape, body[1:]

	default:
		return KindPassThrough, piPrefix + body + piSuffix
	}
}
