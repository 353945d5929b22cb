package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// HasClassToken is a loose class test. The source pages carry spans like
// <span "class="sch_classroom"> and duplicated class attributes, which parse
// into attribute keys such as `"class`. Any attribute whose key ends in
// "class" once quotes are stripped is searched for token.
func HasClassToken(n *html.Node, token string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		key := strings.ToLower(strings.Trim(a.Key, `"' `))
		if !strings.HasSuffix(key, "class") {
			continue
		}
		for _, f := range strings.Fields(a.Val) {
			if strings.Trim(f, `"'`) == token {
				return true
			}
		}
	}
	return false
}

// NextWithClass returns the first following sibling of sel carrying token,
// or an empty selection. Consecutive teachers therefore share the classroom
// that follows them.
func NextWithClass(sel *goquery.Selection, token string) *goquery.Selection {
	return sel.NextAll().FilterFunction(func(_ int, s *goquery.Selection) bool {
		return HasClassToken(s.Get(0), token)
	}).First()
}
