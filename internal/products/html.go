package product

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CleanDescriptionHTML strips rich-text editor artefacts from a product
// description: elements carrying ql-* classes are removed, contenteditable is
// dropped, and lists marked as bullets are emitted as <ul>.
func CleanDescriptionHTML(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(raw), context)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for _, node := range nodes {
		if hasEditorClass(node) {
			continue
		}
		cleanNode(node)
		if err := html.Render(&buf, node); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

// StripTags returns the text content of an HTML fragment.
func StripTags(raw string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(raw))
	var sb strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(tokenizer.Text())
		}
	}
}

func cleanNode(node *html.Node) {
	for child := node.FirstChild; child != nil; {
		next := child.NextSibling
		if hasEditorClass(child) {
			node.RemoveChild(child)
		} else {
			cleanNode(child)
		}
		child = next
	}

	if node.Type != html.ElementNode {
		return
	}
	removeAttr(node, "contenteditable")
	if node.DataAtom == atom.Ol {
		if firstItemIsBullet(node) {
			node.Data = "ul"
			node.DataAtom = atom.Ul
		}
		stripDataList(node)
	}
}

func stripDataList(node *html.Node) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.DataAtom == atom.Li {
			removeAttr(child, "data-list")
		}
		stripDataList(child)
	}
}

// firstItemIsBullet looks for the first li[data-list="bullet"] anywhere
// below the list.
func firstItemIsBullet(node *html.Node) bool {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.DataAtom == atom.Li && attr(child, "data-list") == "bullet" {
			return true
		}
		if firstItemIsBullet(child) {
			return true
		}
	}
	return false
}

func hasEditorClass(node *html.Node) bool {
	if node.Type != html.ElementNode {
		return false
	}
	return strings.Contains(attr(node, "class"), "ql-")
}

func attr(node *html.Node, key string) string {
	for _, a := range node.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func removeAttr(node *html.Node, key string) {
	kept := node.Attr[:0]
	for _, a := range node.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	node.Attr = kept
}
