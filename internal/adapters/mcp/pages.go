package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"stickynotes/internal/application"
	"stickynotes/internal/dom"
	"stickynotes/internal/domain"
	"stickynotes/internal/ports"
)

// Pages keeps one session per page for the lifetime of the server. A page
// opened with a document gets a reanchoring watcher; pages touched without
// one get a document-less session that can still manage notes.
type Pages struct {
	ctx   context.Context
	store ports.NoteStore
	opts  application.Options
	log   *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*application.Session
}

// NewPages creates a registry. ctx bounds every background watcher.
func NewPages(ctx context.Context, store ports.NoteStore, opts application.Options) *Pages {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Pages{
		ctx:      ctx,
		store:    store,
		opts:     opts,
		log:      log,
		sessions: make(map[string]*application.Session),
	}
}

// Open parses a page and starts watching it, replacing any earlier session
// for the same page. The earlier session is flushed before the new one
// reads the store; when that flush fails it stays in place and Open fails,
// so its unsaved notes are not overwritten.
func (p *Pages) Open(ctx context.Context, url string, r io.Reader) (*application.Session, error) {
	if err := application.ValidateRequired("pageURL", url); err != nil {
		return nil, err
	}
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, err
	}
	key := domain.PageKey(url)

	p.mu.Lock()
	defer p.mu.Unlock()

	if old := p.sessions[key]; old != nil {
		if err := old.Close(ctx); err != nil {
			p.log.WithError(err).WithField("page", key).Warn("failed to flush replaced session")
			return nil, fmt.Errorf("page has unsaved notes: %w", err)
		}
		delete(p.sessions, key)
	}

	s := application.NewSession(url, p.store, doc, p.opts)
	if err := s.Load(ctx); err != nil {
		p.log.WithError(err).Warn("opening page with no stored notes")
	}
	p.sessions[key] = s

	go func() {
		if err := s.Watch(p.ctx); err != nil {
			p.log.WithError(err).WithField("page", s.PageKey()).Warn("reanchor watcher stopped")
		}
	}()
	return s, nil
}

// Session returns the live session for url, creating a document-less one
// when the page was never opened.
func (p *Pages) Session(ctx context.Context, url string) (*application.Session, error) {
	if err := application.ValidateRequired("pageURL", url); err != nil {
		return nil, err
	}
	key := domain.PageKey(url)
	p.mu.Lock()
	if s, ok := p.sessions[key]; ok {
		p.mu.Unlock()
		return s, nil
	}
	p.mu.Unlock()

	s := application.NewSession(url, p.store, nil, p.opts)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.sessions[key]; ok {
		return existing, nil
	}
	p.sessions[key] = s
	return s, nil
}

// Close flushes every session
func (p *Pages) Close(ctx context.Context) error {
	p.mu.Lock()
	sessions := make([]*application.Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		sessions = append(sessions, s)
	}
	p.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.PageKey(), err))
		}
	}
	return errors.Join(errs...)
}

// RegisterPageTools adds the tools that feed documents to the server.
func RegisterPageTools(s *server.MCPServer, pages *Pages) {
	s.AddTool(openPageTool(), openPageHandler(pages))
	s.AddTool(updatePageTool(), updatePageHandler(pages))
}

// --- open_page ---

func openPageTool() mcp.Tool {
	return mcp.NewTool("open_page",
		mcp.WithDescription("Load a page's HTML and re-anchor its stored notes. Keeps watching the page for updates for a short while."),
		mcp.WithString("url",
			mcp.Description("Page URL; the fragment is ignored"),
			mcp.Required(),
		),
		mcp.WithString("html",
			mcp.Description("Full HTML of the page"),
			mcp.Required(),
		),
	)
}

func openPageHandler(pages *Pages) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, err := pages.Open(ctx, req.GetString("url", ""), strings.NewReader(req.GetString("html", "")))
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Opened %s with %d notes", domain.PageURL(s.PageKey()), len(s.Notes()))), nil
	}
}

// --- update_page ---

func updatePageTool() mcp.Tool {
	return mcp.NewTool("update_page",
		mcp.WithDescription("Replace the content of an open page, as a client-side re-render would. Notes whose text appears are re-anchored while the page is being watched."),
		mcp.WithString("url",
			mcp.Description("Page URL of an open page"),
			mcp.Required(),
		),
		mcp.WithString("html",
			mcp.Description("New HTML of the page"),
			mcp.Required(),
		),
	)
}

func updatePageHandler(pages *Pages) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s, err := pages.Session(ctx, req.GetString("url", ""))
		if err != nil {
			return toolError(err)
		}
		doc := s.Document()
		if doc == nil {
			return toolError(fmt.Errorf("page is not open, use open_page first"))
		}
		if err := doc.Replace(strings.NewReader(req.GetString("html", ""))); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText("Page updated"), nil
	}
}
