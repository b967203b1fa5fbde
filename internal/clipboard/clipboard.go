// Package clipboard copies and cuts cross-block selections. The
// selected blocks are serialized into the same multi-representation
// payload the importer consumes, so content survives a round trip
// through the system clipboard.
package clipboard

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/caret"
	"github.com/dshills/blockedit/internal/engine/sequence"
	"github.com/dshills/blockedit/internal/importer"
	"github.com/dshills/blockedit/internal/selection"
)

// Writer performs the platform clipboard write. The write may complete
// asynchronously; Write returns once it has settled.
type Writer interface {
	Write(ctx context.Context, payload importer.Payload) error
}

// WriterFunc adapts a function to the Writer interface.
type WriterFunc func(ctx context.Context, payload importer.Payload) error

// Write implements Writer.
func (f WriterFunc) Write(ctx context.Context, payload importer.Payload) error {
	return f(ctx, payload)
}

// Service implements copy and cut over the cross-block selection.
type Service struct {
	store     *sequence.Store
	caret     *caret.Service
	selection *selection.Coordinator
	writer    Writer
}

// NewService creates a clipboard service.
func NewService(store *sequence.Store, caretSvc *caret.Service, sel *selection.Coordinator, writer Writer) *Service {
	return &Service{store: store, caret: caretSvc, selection: sel, writer: writer}
}

// CopySelectedBlocks serializes the selected blocks and hands them to
// the clipboard writer. It returns once the write has settled. With no
// selection it is a no-op.
func (s *Service) CopySelectedBlocks(ctx context.Context) error {
	blocks := s.store.SelectedBlocks()
	if len(blocks) == 0 {
		return nil
	}
	if err := s.writer.Write(ctx, Serialize(blocks)); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	return nil
}

// CutSelectedBlocks copies the selection, removes the selected blocks,
// and inserts an empty replacement block where the selection began,
// with the caret at its start. The removal only happens after the
// clipboard write settles, so a failed write loses nothing.
func (s *Service) CutSelectedBlocks(ctx context.Context) error {
	if err := s.CopySelectedBlocks(ctx); err != nil {
		return err
	}

	index := s.store.RemoveSelectedBlocks()
	if index < 0 {
		return nil
	}
	replacement := s.store.InsertDefaultBlockAtIndex(index, true)
	s.caret.SetToBlock(replacement, caret.PositionStart)
	s.selection.Refresh()
	return nil
}

// Serialize renders blocks into plain-text, Markdown, and HTML
// representations.
func Serialize(blocks []*block.Block) importer.Payload {
	var plain, md, htm []string
	for _, b := range blocks {
		plain = append(plain, b.Text())
		md = append(md, toMarkdown(b))
		htm = append(htm, toHTML(b))
	}
	return importer.Payload{
		importer.MediaPlain:    strings.Join(plain, "\n\n"),
		importer.MediaMarkdown: strings.Join(md, "\n\n"),
		importer.MediaHTML:     strings.Join(htm, ""),
	}
}

func toMarkdown(b *block.Block) string {
	text := b.Text()
	switch b.Type() {
	case block.TypeHeading:
		return "## " + text
	case block.TypeCode:
		return "```\n" + text + "\n```"
	case block.TypeQuote:
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return strings.Join(lines, "\n")
	case block.TypeImage:
		return "![" + text + "]()"
	default:
		return text
	}
}

func toHTML(b *block.Block) string {
	text := html.EscapeString(b.Text())
	switch b.Type() {
	case block.TypeHeading:
		return "<h2>" + text + "</h2>"
	case block.TypeCode:
		return "<pre>" + text + "</pre>"
	case block.TypeQuote:
		return "<blockquote>" + text + "</blockquote>"
	case block.TypeImage:
		return `<img alt="` + text + `">`
	default:
		return "<p>" + text + "</p>"
	}
}
