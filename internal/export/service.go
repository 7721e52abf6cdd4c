package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
	"github.com/chuan-101/json-splitter-public/internal/logging"
	"github.com/chuan-101/json-splitter-public/internal/secrets"
	"github.com/chuan-101/json-splitter-public/internal/zipstore"
)

const (
	kindSingle = "single"
	kindFiles  = "files"
	kindZip    = "zip"

	// MimeZip is the content type of ZIP artifacts.
	MimeZip = "application/zip"
)

var (
	// ErrNoSelection is returned when an export names no conversations.
	ErrNoSelection = errors.New("no conversations selected")

	// ErrIndexOutOfRange is returned for an index outside the archive.
	ErrIndexOutOfRange = errors.New("conversation index out of range")
)

// Artifact is a named document ready to be saved or sent.
type Artifact struct {
	Name     string
	MimeType string
	Data     []byte
}

// Options configures a Service.
type Options struct {
	Roles  conversation.RoleNames
	Prefix string
	Suffix string

	// Redactor, when set, is applied to every rendered document.
	Redactor secrets.Redactor

	// Now supplies the fallback timestamp and the ZIP name. Defaults to
	// time.Now.
	Now func() time.Time

	Logger *logging.Logger
}

// Service renders and packages conversations.
type Service struct {
	opts     Options
	exporter Exporter
	metrics  *Metrics
	logger   *logging.Logger
}

// NewService creates an export service.
func NewService(opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		opts:     opts,
		exporter: NewMarkdownExporter(opts.Roles),
		metrics:  NewMetrics(),
		logger:   logger.Named("export"),
	}
}

// Single renders one conversation.
func (s *Service) Single(ctx context.Context, c *conversation.Conversation) (*Artifact, error) {
	a, err := s.render(ctx, c, s.opts.Now())
	s.metrics.RecordExport(kindSingle, err)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordArtifact(kindSingle, len(a.Data))
	return &a, nil
}

// Files renders the conversations at indices, ascending and without
// duplicates regardless of the order they were selected in.
func (s *Service) Files(ctx context.Context, convs []*conversation.Conversation, indices []int) ([]Artifact, error) {
	out, err := s.files(ctx, convs, indices)
	s.metrics.RecordExport(kindFiles, err)
	return out, err
}

// Zip renders the conversations at indices into one archive named
// conversations_{unix millis}.zip. Entries are ordered by index.
func (s *Service) Zip(ctx context.Context, convs []*conversation.Conversation, indices []int) (*Artifact, error) {
	a, err := s.zip(ctx, convs, indices)
	s.metrics.RecordExport(kindZip, err)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordArtifact(kindZip, len(a.Data))
	return a, nil
}

func (s *Service) zip(ctx context.Context, convs []*conversation.Conversation, indices []int) (*Artifact, error) {
	docs, err := s.files(ctx, convs, indices)
	if err != nil {
		return nil, err
	}

	files := make([]zipstore.File, 0, len(docs))
	for _, d := range docs {
		files = append(files, zipstore.File{Name: d.Name, Data: d.Data})
	}
	data, err := zipstore.Build(files)
	if err != nil {
		return nil, fmt.Errorf("building zip: %w", err)
	}

	return &Artifact{
		Name:     ZipName(s.opts.Now()),
		MimeType: MimeZip,
		Data:     data,
	}, nil
}

func (s *Service) files(ctx context.Context, convs []*conversation.Conversation, indices []int) ([]Artifact, error) {
	sorted, err := normalizeIndices(indices, len(convs))
	if err != nil {
		return nil, err
	}

	batch := uuid.NewString()
	s.logger.Debug(ctx, "exporting conversations",
		zap.String("batch_id", batch),
		zap.Int("count", len(sorted)))

	now := s.opts.Now()
	out := make([]Artifact, 0, len(sorted))
	for _, idx := range sorted {
		a, err := s.render(ctx, convs[idx], now)
		if err != nil {
			return nil, fmt.Errorf("conversation %d: %w", idx, err)
		}
		out = append(out, a)
	}

	s.logger.Info(ctx, "exported conversations",
		zap.String("batch_id", batch),
		zap.Int("files", len(out)))
	return out, nil
}

func (s *Service) render(ctx context.Context, c *conversation.Conversation, now time.Time) (Artifact, error) {
	data, err := s.exporter.Export(c)
	if err != nil {
		return Artifact{}, err
	}

	if s.opts.Redactor != nil {
		res, err := s.opts.Redactor.Redact(string(data))
		if err != nil {
			return Artifact{}, fmt.Errorf("redacting: %w", err)
		}
		if res.HasRedactions() {
			counts := res.RuleCounts()
			s.metrics.RecordRedactions(counts)
			s.logger.Info(ctx, "redacted secrets from export",
				zap.String("conversation_id", c.ID),
				zap.Int("redactions", len(res.Redactions)),
				zap.Any("rules", counts))
		}
		data = []byte(res.Content)
	}

	s.metrics.FilesTotal.Inc()
	return Artifact{
		Name:     FileName(c, s.opts.Prefix, s.opts.Suffix, now),
		MimeType: s.exporter.MimeType(),
		Data:     data,
	}, nil
}

// normalizeIndices sorts and de-duplicates indices and checks each
// against n.
func normalizeIndices(indices []int, n int) ([]int, error) {
	if len(indices) == 0 {
		return nil, ErrNoSelection
	}
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	for _, idx := range sorted {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: %d (archive has %d)", ErrIndexOutOfRange, idx, n)
		}
	}
	return sorted, nil
}

// WriteFiles saves artifacts into dir, creating it if needed. Existing
// files with the same name are overwritten. It returns the written paths.
func WriteFiles(dir string, artifacts ...Artifact) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path := filepath.Join(dir, filepath.Base(a.Name))
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", a.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
