package entities

// ContentNodeType distinguishes the kinds of nodes in a rich description.
type ContentNodeType string

const (
	ContentText ContentNodeType = "text"
	ContentLink ContentNodeType = "link"
)

// ContentNode is one typed element of a ticket description: plain text or an
// inline link reference.
type ContentNode struct {
	Type ContentNodeType
	Text string
	URL  string // Link nodes only
}

// TextNode builds a plain-text node.
func TextNode(text string) ContentNode {
	return ContentNode{Type: ContentText, Text: text}
}

// LinkNode builds an inline link node.
func LinkNode(text, url string) ContentNode {
	return ContentNode{Type: ContentLink, Text: text, URL: url}
}

// NotificationBody renders the ticket description announcing a published
// version bump.
func NotificationBody(request UpdateRequest, changeRequestURL string) []ContentNode {
	return []ContentNode{
		TextNode(request.Summary() + " in "),
		TextNode(request.ProjectID() + "."),
		TextNode(" Review the change request: "),
		LinkNode(request.Summary(), changeRequestURL),
	}
}
