package exporter

import (
	"fmt"
	"html"
	"strings"

	"tidymark/internal/domain"
)

// ExportHTML serializes a bookmark tree into Netscape bookmark HTML,
// the interchange format every major browser imports.
func ExportHTML(roots []*domain.BookmarkNode) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, n := range roots {
		writeNode(&b, n, 1)
	}

	b.WriteString("</DL><p>\n")

	return b.String()
}

func writeNode(b *strings.Builder, n *domain.BookmarkNode, indent int) {
	prefix := strings.Repeat("    ", indent)

	if n.IsFolder() {
		fmt.Fprintf(b, "%s<DT><H3%s>%s</H3>\n", prefix, dateAttrs(n), html.EscapeString(n.Name))
		fmt.Fprintf(b, "%s<DL><p>\n", prefix)
		for _, child := range n.Children {
			writeNode(b, child, indent+1)
		}
		fmt.Fprintf(b, "%s</DL><p>\n", prefix)
		return
	}

	fmt.Fprintf(b, "%s<DT><A HREF=\"%s\"%s", prefix, html.EscapeString(n.URL), dateAttrs(n))
	if len(n.Tags) > 0 {
		fmt.Fprintf(b, " TAGS=\"%s\"", html.EscapeString(strings.Join(n.Tags, ",")))
	}
	if n.Icon != "" {
		fmt.Fprintf(b, " ICON=\"%s\"", html.EscapeString(n.Icon))
	}
	fmt.Fprintf(b, ">%s</A>\n", html.EscapeString(n.Title))
}

func dateAttrs(n *domain.BookmarkNode) string {
	var b strings.Builder
	if n.AddDate != nil {
		fmt.Fprintf(&b, " ADD_DATE=\"%d\"", n.AddDate.Unix())
	}
	if n.LastModified != nil {
		fmt.Fprintf(&b, " LAST_MODIFIED=\"%d\"", n.LastModified.Unix())
	}
	return b.String()
}
