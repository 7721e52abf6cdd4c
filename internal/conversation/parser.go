package conversation

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Parser reads conversation archives.
type Parser struct{}

// NewParser creates a new archive parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads an archive from r. The whole input must be one JSON array;
// anything else is ErrMalformedArchive (ErrNotArray for valid JSON of the
// wrong shape). Every array element yields exactly one Conversation, so
// indices into the result match indices into the archive.
func (p *Parser) Parse(r io.Reader) ([]*Conversation, error) {
	v, err := DecodeValue(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedArchive, err)
	}

	list, ok := v.(*List)
	if !ok {
		return nil, ErrNotArray
	}

	convs := make([]*Conversation, 0, len(list.Items))
	for _, item := range list.Items {
		convs = append(convs, newConversation(item))
	}
	return convs, nil
}

// ParseBytes parses an in-memory archive.
func (p *Parser) ParseBytes(data []byte) ([]*Conversation, error) {
	return p.Parse(bytes.NewReader(data))
}

// ParseFile parses the archive stored at path.
func (p *Parser) ParseFile(path string) ([]*Conversation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	convs, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return convs, nil
}
