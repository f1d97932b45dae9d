package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"tidymark/internal/domain"
)

// ParseHTML parses Netscape bookmark HTML into a bookmark tree.
// Browsers disagree on the fine points of the format (unclosed DT tags,
// casing, stray P elements), so the walker keys off the elements that
// actually carry data: H3 opens a folder, A is a bookmark, DL scopes
// the most recent folder's children.
func ParseHTML(r io.Reader) ([]*domain.BookmarkNode, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	root := &domain.BookmarkNode{Kind: domain.KindFolder}
	// Stack of open folders; the top receives new nodes.
	stack := []*domain.BookmarkNode{root}
	var pending *domain.BookmarkNode // folder waiting for its DL

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				name := textContent(n)
				if name == "" {
					return
				}
				folder := &domain.BookmarkNode{
					ID:      uuid.NewString(),
					Kind:    domain.KindFolder,
					Name:    name,
					AddDate: parseUnixAttr(n, "add_date"),
				}
				if t := parseUnixAttr(n, "last_modified"); t != nil {
					folder.LastModified = t
				}
				top := stack[len(stack)-1]
				top.Children = append(top.Children, folder)
				pending = folder
				return

			case "a":
				href := attr(n, "href")
				if href == "" {
					return
				}
				title := textContent(n)
				if title == "" {
					title = href
				}
				bookmark := &domain.BookmarkNode{
					ID:      uuid.NewString(),
					Kind:    domain.KindBookmark,
					Title:   title,
					URL:     href,
					Icon:    attr(n, "icon"),
					AddDate: parseUnixAttr(n, "add_date"),
				}
				if tags := attr(n, "tags"); tags != "" {
					bookmark.Tags = splitTags(tags)
				}
				top := stack[len(stack)-1]
				top.Children = append(top.Children, bookmark)
				return

			case "dl":
				pushed := false
				if pending != nil {
					stack = append(stack, pending)
					pending = nil
					pushed = true
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				if pushed {
					stack = stack[:len(stack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return root.Children, nil
}

func textContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// attr returns the value of an attribute, case-insensitive.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func parseUnixAttr(n *html.Node, key string) *time.Time {
	raw := attr(n, key)
	if raw == "" {
		return nil
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
