package conversation

import "strings"

// RoleNames maps author roles to display names.
type RoleNames struct {
	User      string
	Assistant string
	System    string
}

// DefaultRoleNames returns User / Assistant / System.
func DefaultRoleNames() RoleNames {
	return RoleNames{User: "User", Assistant: "Assistant", System: "System"}
}

// Display returns the display name for role. Only user and system have
// names of their own; assistant, tool, function, unknown and missing roles
// all display as the assistant.
func (r RoleNames) Display(role string) string {
	if role == "" {
		role = string(RoleAssistant)
	}
	switch Role(strings.ToLower(role)) {
	case RoleUser:
		return r.User
	case RoleSystem:
		return r.System
	default:
		return r.Assistant
	}
}

// Side is where a message bubble sits in a two-column preview.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// SideOf places user and system messages on the right. Everything shown
// under the assistant name, tool and function output included, sits on the
// left.
func SideOf(role string) Side {
	switch Role(strings.ToLower(role)) {
	case RoleUser, RoleSystem:
		return SideRight
	default:
		return SideLeft
	}
}

// UnknownModel is returned by ExtractModel when no candidate is present.
const UnknownModel = "Unknown"

var modelPaths = [][]string{
	{"model"},
	{"model_slug"},
	{"metadata", "model"},
	{"metadata", "model_slug"},
	{"message", "metadata", "model"},
	{"message", "metadata", "model_slug"},
}

// ExtractModel returns the first non-blank string among the message's
// model, model_slug, metadata.model, metadata.model_slug,
// message.metadata.model and message.metadata.model_slug, trimmed.
func ExtractModel(m *Message) string {
	raw := m.Raw()
	if raw == nil {
		return UnknownModel
	}
	for _, path := range modelPaths {
		if s := lookupString(raw, path); s != "" {
			return s
		}
	}
	return UnknownModel
}

func lookupString(d *Dict, path []string) string {
	for _, key := range path[:len(path)-1] {
		next, ok := d.GetDict(key)
		if !ok {
			return ""
		}
		d = next
	}
	s, _ := d.GetString(path[len(path)-1])
	return strings.TrimSpace(s)
}
