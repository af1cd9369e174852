package providers

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/BibleBot/backend/internal/purify"
)

// renderRules configures the markup-to-text rendering for one source's
// HTML. Class hooks differ per upstream; the traversal does not.
type renderRules struct {
	VerseNumClasses   []string // elements carrying a verse number
	ChapterNumClasses []string // elements carrying a chapter number (rendered as verse 1)
	HeadingTags       []string // section heading elements
	PsalmTitleClasses []string // psalm inscription elements
	SkipClasses       []string // subtrees dropped entirely (footnotes, cross-references)
}

// rendered is the outcome of one markup-to-text pass.
type rendered struct {
	Titles     []string
	PsalmTitle string
	Text       string
}

// renderHTML walks an HTML fragment and produces display text according to
// the rules: verse/chapter number markers are removed or rewritten to the
// inline bold token <**N**>, headings are collected for the title field,
// and body text is joined with newlines.
func renderHTML(root *html.Node, rules renderRules, opts FetchOptions) rendered {
	var out rendered
	var text strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
			return
		case html.ElementNode:
			if hasAnyClass(n, rules.SkipClasses) {
				return
			}
			if hasAnyClass(n, rules.PsalmTitleClasses) {
				out.PsalmTitle = strings.TrimSpace(nodeText(n))
				return
			}
			if isAnyTag(n, rules.HeadingTags) {
				if title := strings.TrimSpace(nodeText(n)); title != "" {
					out.Titles = append(out.Titles, title)
				}
				return
			}
			if hasAnyClass(n, rules.ChapterNumClasses) {
				if opts.VerseNumbersEnabled {
					text.WriteString(" <**1**> ")
				}
				return
			}
			if hasAnyClass(n, rules.VerseNumClasses) {
				if opts.VerseNumbersEnabled {
					num := strings.TrimSpace(nodeText(n))
					num = strings.Trim(num, "[]")
					fmt.Fprintf(&text, " <**%s**> ", num)
				}
				return
			}
			if n.Data == "br" || n.Data == "p" || n.Data == "div" {
				text.WriteString("\n")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	lines := make([]string, 0, 4)
	for _, line := range strings.Split(text.String(), "\n") {
		if cleaned := purify.VerseText(line); cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	out.Text = strings.Join(lines, "\n")
	out.PsalmTitle = purify.VerseText(out.PsalmTitle)
	for i, t := range out.Titles {
		out.Titles[i] = purify.VerseText(t)
	}
	return out
}

// findByClass returns the first element whose class attribute contains the
// given class, depth first.
func findByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, class) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findByClass(child, class); found != nil {
			return found
		}
	}
	return nil
}

// findAllByClass collects every element carrying the given class.
func findAllByClass(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			out = append(out, n)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
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

func hasAnyClass(n *html.Node, classes []string) bool {
	for _, c := range classes {
		if hasClass(n, c) {
			return true
		}
	}
	return false
}

func isAnyTag(n *html.Node, tags []string) bool {
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// nodeText concatenates the text content of a subtree.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}

// renderFragment serializes a subtree back to HTML, for the trimming stage.
func renderFragment(n *html.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return nil, fmt.Errorf("failed to render fragment: %w", err)
	}
	return buf.Bytes(), nil
}
