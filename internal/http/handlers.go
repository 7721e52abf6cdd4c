package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chuan-101/json-splitter-public/internal/conversation"
	"github.com/chuan-101/json-splitter-public/internal/export"
	"github.com/chuan-101/json-splitter-public/internal/logging"
	"github.com/chuan-101/json-splitter-public/internal/search"
)

func (s *Server) handleHealth(c echo.Context) error {
	snap := s.ws.Snapshot()
	return c.JSON(http.StatusOK, HealthResponse{
		Status:        "ok",
		Conversations: len(snap.Conversations),
		Version:       snap.Version,
	})
}

func (s *Server) handleList(c echo.Context) error {
	convs := s.ws.Snapshot().Conversations
	rows := search.List(c.Request().Context(), convs, c.QueryParam("title"), nil, time.Now())
	return c.JSON(http.StatusOK, ListResponse{Total: len(convs), Conversations: rows})
}

func (s *Server) handlePreview(c echo.Context) error {
	convs := s.ws.Snapshot().Conversations
	idx, err := indexParam(c, len(convs))
	if err != nil {
		return err
	}
	conv := convs[idx]

	rows, err := search.Preview(conv, s.config.Roles, c.QueryParam("q"))
	if err != nil {
		return exportError(err)
	}
	count, _ := search.VisibleCount(conv)
	now := time.Now()

	return c.JSON(http.StatusOK, PreviewResponse{
		Index:        idx,
		Title:        conv.DisplayTitle(),
		Created:      conv.Created(now),
		VisibleCount: count,
		FileName:     export.FileName(conv, "", "", now),
		Messages:     rows,
	})
}

func (s *Server) handleMarkdown(c echo.Context) error {
	convs := s.ws.Snapshot().Conversations
	idx, err := indexParam(c, len(convs))
	if err != nil {
		return err
	}

	a, err := s.exports.Single(c.Request().Context(), convs[idx])
	if err != nil {
		return exportError(err)
	}
	return attachment(c, a)
}

func (s *Server) handleZip(c echo.Context) error {
	var req ZipRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(c.Request().Context(), "invalid zip request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	a, err := s.exports.Zip(c.Request().Context(), s.ws.Snapshot().Conversations, req.Indices)
	if err != nil {
		return exportError(err)
	}
	return attachment(c, a)
}

func (s *Server) handleSearch(c echo.Context) error {
	ctx := c.Request().Context()
	q := c.QueryParam("q")
	hits := search.Global(ctx, s.ws.Snapshot().Conversations, q, search.GlobalOptions{
		SnippetRadius: s.config.SnippetRadius,
		MaxHits:       s.config.MaxHits,
	})
	s.logger.Debug(ctx, "global search", logging.Content("query", q), zap.Int("hits", len(hits)))
	if hits == nil {
		hits = []search.Hit{}
	}
	return c.JSON(http.StatusOK, SearchResponse{Query: q, Hits: hits})
}

func (s *Server) handleStats(c echo.Context) error {
	stats := search.Compute(c.Request().Context(), s.ws.Snapshot().Conversations, time.Now())
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleUpload(c echo.Context) error {
	ctx := c.Request().Context()
	body := http.MaxBytesReader(c.Response(), c.Request().Body, s.config.MaxUploadBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "archive too large")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "reading request body")
	}

	if err := s.ws.LoadBytes(ctx, data, "upload"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	snap := s.ws.Snapshot()
	return c.JSON(http.StatusOK, UploadResponse{
		Conversations: len(snap.Conversations),
		Version:       snap.Version,
	})
}

func indexParam(c echo.Context, n int) (int, error) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "index must be an integer")
	}
	if idx < 0 || idx >= n {
		return 0, echo.NewHTTPError(http.StatusNotFound, "conversation not found")
	}
	return idx, nil
}

// exportError maps export and chain errors to HTTP statuses.
func exportError(err error) error {
	switch {
	case errors.Is(err, export.ErrNoSelection):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, export.ErrIndexOutOfRange):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, conversation.ErrMalformedArchive):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return err
	}
}

func attachment(c echo.Context, a *export.Artifact) error {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": a.Name})
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
	contentType := a.MimeType
	if contentType == "text/markdown" {
		contentType += "; charset=utf-8"
	}
	return c.Blob(http.StatusOK, contentType, a.Data)
}
