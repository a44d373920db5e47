package textproc

import (
	"regexp"
	"strings"
)

// Tag patterns are bounded in length so a pathological or unterminated
// tag cannot make matching scan unbounded input.
var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script\b[^>]{0,512}>.*?</script\s{0,8}>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style\b[^>]{0,512}>.*?</style\s{0,8}>`)
	htmlCommentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
	htmlTagRe     = regexp.MustCompile(`</?[a-zA-Z][^<>]{0,512}>`)

	horizontalWSRe = regexp.MustCompile(`[ \t\r\f]+`)
	newlinePadRe   = regexp.MustCompile(` *\n *`)
	blankLinesRe   = regexp.MustCompile(`\n{3,}`)
)

// entityReplacer decodes the common HTML entities. &amp; is decoded last
// so that it cannot manufacture further entity sequences mid-pass.
var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
	"&#38;", "&",
	"&amp;", "&",
)

// StripHTMLAndClean converts an HTML fragment to plain text: script and
// style blocks are removed with their content, comments are removed, all
// other tags are replaced with a single space, common entities are
// decoded, whitespace runs collapse to one space, and runs of blank lines
// collapse to exactly one. The result is trimmed. The function is
// idempotent over its own output.
func StripHTMLAndClean(html string) string {
	if html == "" {
		return ""
	}

	s := scriptBlockRe.ReplaceAllString(html, " ")
	s = styleBlockRe.ReplaceAllString(s, " ")
	s = htmlCommentRe.ReplaceAllString(s, " ")
	s = htmlTagRe.ReplaceAllString(s, " ")

	s = entityReplacer.Replace(s)

	s = horizontalWSRe.ReplaceAllString(s, " ")
	s = newlinePadRe.ReplaceAllString(s, "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
