package export

import (
	"fmt"
	"strings"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
)

// messageSeparator sits between rendered messages.
const messageSeparator = "\n\n\n"

// Exporter converts a conversation into a downloadable document.
type Exporter interface {
	// Export renders the conversation.
	Export(c *conversation.Conversation) ([]byte, error)

	// FileExtension returns the extension including the dot.
	FileExtension() string

	// MimeType returns the content type of exported documents.
	MimeType() string
}

// MarkdownExporter renders conversations with ToMarkdown.
type MarkdownExporter struct {
	roles conversation.RoleNames
}

// NewMarkdownExporter creates a Markdown exporter using roles for the
// speaker labels.
func NewMarkdownExporter(roles conversation.RoleNames) *MarkdownExporter {
	return &MarkdownExporter{roles: withDefaultRoles(roles)}
}

// Export implements Exporter.
func (e *MarkdownExporter) Export(c *conversation.Conversation) ([]byte, error) {
	md, err := ToMarkdown(c, e.roles)
	if err != nil {
		return nil, err
	}
	return []byte(md), nil
}

// FileExtension implements Exporter.
func (e *MarkdownExporter) FileExtension() string { return ".md" }

// MimeType implements Exporter.
func (e *MarkdownExporter) MimeType() string { return "text/markdown" }

// ToMarkdown renders the current branch of c. Each message becomes
//
//	**{display role}**:
//	{text}
//
// and messages are separated by two blank lines. A conversation with no
// messages renders as the empty string.
func ToMarkdown(c *conversation.Conversation, roles conversation.RoleNames) (string, error) {
	chain, err := conversation.BuildChain(c)
	if err != nil {
		return "", err
	}

	blocks := make([]string, 0, len(chain))
	for _, m := range chain {
		blocks = append(blocks, fmt.Sprintf("**%s**:\n%s", roles.Display(m.Role()), m.Text()))
	}
	return strings.Join(blocks, messageSeparator), nil
}

func withDefaultRoles(r conversation.RoleNames) conversation.RoleNames {
	d := conversation.DefaultRoleNames()
	if r.User == "" {
		r.User = d.User
	}
	if r.Assistant == "" {
		r.Assistant = d.Assistant
	}
	if r.System == "" {
		r.System = d.System
	}
	return r
}
