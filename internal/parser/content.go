package parser

import "regexp"

// tagPattern matches markup tags, including an unterminated trailing one.
var tagPattern = regexp.MustCompile(`<[^>]*>?`)

// markupContentTypes are the post types whose contentHtml is rendered markup.
var markupContentTypes = map[string]bool{
	"comment":            true,
	"discussionStickied": true,
}

func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

func plainContent(attrs postAttributes) string {
	content := string(attrs.ContentHTML)
	if content == "" {
		content = string(attrs.Content)
	}
	if markupContentTypes[string(attrs.ContentType)] {
		content = stripTags(content)
	}
	return content
}
