package conversation

import (
	"strconv"
	"strings"
	"unicode"
)

// objectPlaceholder is what a generic object stringifies to in the exporter
// that produced some archives; it carries no text.
const objectPlaceholder = "[object Object]"

// ExtractText flattens message content into plain text.
//
// Strings, numbers and booleans contribute themselves. Lists contribute each
// element in order. Objects contribute, in this order and without stopping
// at the first match: string "text", string "content", list "content", list
// "parts", string "parts", list "messages", string "value", string "data".
// An object matching none of these contributes its compact JSON form.
// Fragments are joined with "\n" and trimmed.
//
// Each object is visited at most once per call, so self-referential content
// terminates.
func ExtractText(content Value) string {
	c := &textCollector{
		seen:   make(map[*Dict]struct{}),
		active: make(map[*List]struct{}),
	}
	c.collect(content)

	text := strings.TrimFunc(strings.Join(c.out, "\n"), isTrimSpace)
	if text == objectPlaceholder {
		return ""
	}
	return text
}

type textCollector struct {
	out    []string
	seen   map[*Dict]struct{}
	active map[*List]struct{}
}

func (c *textCollector) collect(v Value) {
	switch v := v.(type) {
	case nil, Null:
	case String:
		c.out = append(c.out, string(v))
	case Number:
		c.out = append(c.out, v.String())
	case Bool:
		c.out = append(c.out, strconv.FormatBool(bool(v)))
	case *List:
		if v == nil {
			return
		}
		if _, ok := c.active[v]; ok {
			return
		}
		c.active[v] = struct{}{}
		for _, item := range v.Items {
			c.collect(item)
		}
		delete(c.active, v)
	case *Dict:
		if v == nil {
			return
		}
		if _, ok := c.seen[v]; ok {
			return
		}
		c.seen[v] = struct{}{}
		c.collectDict(v)
	}
}

func (c *textCollector) collectDict(d *Dict) {
	added := false
	if s, ok := d.GetString("text"); ok {
		c.out = append(c.out, s)
		added = true
	}
	if s, ok := d.GetString("content"); ok {
		c.out = append(c.out, s)
		added = true
	}
	if l, ok := d.GetList("content"); ok {
		c.collect(l)
		added = true
	}
	if l, ok := d.GetList("parts"); ok {
		c.collect(l)
		added = true
	}
	if s, ok := d.GetString("parts"); ok {
		c.out = append(c.out, s)
		added = true
	}
	if l, ok := d.GetList("messages"); ok {
		c.collect(l)
		added = true
	}
	if s, ok := d.GetString("value"); ok {
		c.out = append(c.out, s)
		added = true
	}
	if s, ok := d.GetString("data"); ok {
		c.out = append(c.out, s)
		added = true
	}
	if added {
		return
	}

	// Unserializable (cyclic) objects have no text form.
	if s, err := Stringify(d); err == nil && s != "" && s != objectPlaceholder {
		c.out = append(c.out, s)
	}
}

// isTrimSpace matches the whitespace set trimmed from normalized text:
// Unicode spaces and line terminators plus the byte order mark, but not NEL.
func isTrimSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}
