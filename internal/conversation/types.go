package conversation

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Role is the lower-cased author role of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Conversation is one element of an archive.
type Conversation struct {
	ID          string
	Title       string
	CreateTime  float64 // unix seconds, 0 when absent
	UpdateTime  float64
	CurrentNode string
	Mapping     map[string]*Node
}

// Node is a vertex of the conversation tree.
type Node struct {
	ID       string
	Parent   string // empty for the root
	Children []string
	Message  *Message // nil for structural nodes
}

// Message is a single turn. Message must not be copied after first use.
type Message struct {
	ID         string
	AuthorRole string // as exported, possibly empty
	Content    Value
	CreateTime float64

	raw  *Dict
	text textCell
}

// textCell memoizes ExtractText for one message.
type textCell struct {
	once sync.Once
	val  string
}

// DisplayTitle returns the title, or "Untitled" when it is empty.
func (c *Conversation) DisplayTitle() string {
	if c == nil || c.Title == "" {
		return "Untitled"
	}
	return c.Title
}

// Created returns the creation time, falling back to now when the
// conversation carries no usable create_time.
func (c *Conversation) Created(now time.Time) time.Time {
	if c == nil {
		return now.UTC()
	}
	if t, ok := UnixTime(c.CreateTime); ok {
		return t
	}
	return now.UTC()
}

// Timestamps outside years 1 through 9999 are treated as absent.
const (
	minUnixSeconds = -62135596800
	maxUnixSeconds = 253402300799
)

// UnixTime converts a create_time in unix seconds to UTC at millisecond
// precision. It reports false for zero, NaN and out-of-range values.
func UnixTime(sec float64) (time.Time, bool) {
	if sec == 0 || math.IsNaN(sec) || sec < minUnixSeconds || sec > maxUnixSeconds {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(sec * 1000)).UTC(), true
}

// Role returns the author role, defaulting to "assistant" when absent.
func (m *Message) Role() string {
	if m == nil || m.AuthorRole == "" {
		return string(RoleAssistant)
	}
	return m.AuthorRole
}

// NormalizedRole returns Role() lower-cased.
func (m *Message) NormalizedRole() Role {
	return Role(strings.ToLower(m.Role()))
}

// Text returns the normalized text of the message content. The result is
// computed once and cached; calling Text from several goroutines is safe.
func (m *Message) Text() string {
	if m == nil {
		return ""
	}
	m.text.once.Do(func() {
		m.text.val = ExtractText(m.Content)
	})
	return m.text.val
}

// Raw returns the message object as exported.
func (m *Message) Raw() *Dict {
	if m == nil {
		return nil
	}
	return m.raw
}

// NewMessage builds a message from an exported message object.
func NewMessage(d *Dict) *Message {
	m := &Message{raw: d}
	if d == nil {
		return m
	}
	m.ID, _ = d.GetString("id")
	if author, ok := d.GetDict("author"); ok {
		m.AuthorRole, _ = author.GetString("role")
	}
	m.Content, _ = d.Get("content")
	if v, ok := d.Get("create_time"); ok {
		m.CreateTime = seconds(v)
	}
	return m
}

// newConversation converts one archive element. Elements that are not
// objects become empty conversations so archive indices stay stable.
func newConversation(v Value) *Conversation {
	c := &Conversation{Mapping: map[string]*Node{}}
	d, ok := v.(*Dict)
	if !ok || d == nil {
		return c
	}

	c.ID = text(d, "id")
	if c.ID == "" {
		c.ID = text(d, "conversation_id")
	}
	c.Title = text(d, "title")
	c.CurrentNode = text(d, "current_node")
	if t, ok := d.Get("create_time"); ok {
		c.CreateTime = seconds(t)
	}
	if t, ok := d.Get("update_time"); ok {
		c.UpdateTime = seconds(t)
	}

	mapping, ok := d.GetDict("mapping")
	if !ok {
		return c
	}
	for _, id := range mapping.keys {
		nd, ok := mapping.fields[id].(*Dict)
		if !ok || nd == nil {
			continue
		}
		n := &Node{ID: id, Parent: text(nd, "parent")}
		if nid := text(nd, "id"); nid != "" {
			n.ID = nid
		}
		if children, ok := nd.GetList("children"); ok {
			for _, ch := range children.Items {
				if s := scalarString(ch); s != "" {
					n.Children = append(n.Children, s)
				}
			}
		}
		if md, ok := nd.GetDict("message"); ok {
			n.Message = NewMessage(md)
		}
		c.Mapping[id] = n
	}
	return c
}

// text reads a string-ish field; numbers are accepted and printed.
func text(d *Dict, key string) string {
	v, _ := d.Get(key)
	return scalarString(v)
}

func scalarString(v Value) string {
	switch v := v.(type) {
	case String:
		return string(v)
	case Number:
		return v.String()
	}
	return ""
}

// seconds reads a unix timestamp held as a number or numeric string.
func seconds(v Value) float64 {
	var s string
	switch v := v.(type) {
	case Number:
		s = string(v)
	case String:
		s = strings.TrimSpace(string(v))
	default:
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
