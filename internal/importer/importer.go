// Package importer materializes dropped or pasted payloads into blocks
// at the caret. A payload may carry several representations of the same
// content; the pipeline picks the richest one it understands (HTML,
// then Markdown, then plain text).
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/caret"
	"github.com/dshills/blockedit/internal/engine/sequence"
	"github.com/dshills/blockedit/internal/event"
)

// Media types a payload may carry.
const (
	MediaHTML     = "text/html"
	MediaMarkdown = "text/markdown"
	MediaPlain    = "text/plain"
)

// Payload is the data of one drag/drop or paste transfer, keyed by
// media type.
type Payload map[string]string

// Has returns true if the payload carries the given media type with
// non-empty data.
func (p Payload) Has(mediaType string) bool {
	return strings.TrimSpace(p[mediaType]) != ""
}

// TransferReport is published after a transfer materializes, so
// listeners can distinguish an internal block move from external
// content arriving.
type TransferReport struct {
	Blocks   int
	Internal bool
}

// Pipeline converts payloads into blocks and inserts them into the
// sequence at the caret.
type Pipeline struct {
	store *sequence.Store
	caret *caret.Service
	bus   *event.Bus
}

// NewPipeline creates a pipeline over the given store and caret
// service. The bus may be nil; then no transfer reports are published.
func NewPipeline(store *sequence.Store, caretSvc *caret.Service, bus *event.Bus) *Pipeline {
	return &Pipeline{store: store, caret: caretSvc, bus: bus}
}

// ProcessDataTransfer parses the richest representation in the payload
// and inserts the resulting blocks after the current block. An empty
// current block is replaced rather than kept as a blank line. The
// caret ends up at the end of the last inserted block.
//
// internalDrop marks payloads whose source selection was already
// removed by the drag bridge; it is carried on the published transfer
// report so listeners can tell a move from new content.
func (p *Pipeline) ProcessDataTransfer(ctx context.Context, payload Payload, internalDrop bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	blocks, err := p.parse(payload)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		return nil
	}

	cur := p.store.CurrentBlock()
	index := p.store.Len()
	if cur != nil {
		index = p.store.IndexOf(cur) + 1
	}

	for i, b := range blocks {
		p.store.InsertBlockAtIndex(b, index+i, false)
	}

	// Dropping onto an empty block replaces it.
	if cur != nil && cur.IsEmpty() {
		p.store.RemoveBlock(cur)
	}

	last := blocks[len(blocks)-1]
	p.caret.SetToBlock(last, caret.PositionEnd)

	if p.bus != nil {
		p.bus.Publish(event.TopicTransferImported, TransferReport{
			Blocks:   len(blocks),
			Internal: internalDrop,
		})
	}
	return nil
}

func (p *Pipeline) parse(payload Payload) ([]*block.Block, error) {
	reg := p.store.Registry()
	switch {
	case payload.Has(MediaHTML):
		blocks, err := ParseHTML(reg, payload[MediaHTML])
		if err != nil {
			return nil, fmt.Errorf("parse html payload: %w", err)
		}
		return blocks, nil
	case payload.Has(MediaMarkdown):
		return ParseMarkdown(reg, payload[MediaMarkdown]), nil
	case payload.Has(MediaPlain):
		return ParsePlain(reg, payload[MediaPlain]), nil
	default:
		return nil, nil
	}
}

// ParsePlain splits plain text into paragraph blocks on blank lines.
func ParsePlain(reg *block.Registry, text string) []*block.Block {
	var blocks []*block.Block
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b := block.New(block.TypeParagraph, reg.Traits(block.TypeParagraph))
		b.FirstInput().SetText(part)
		blocks = append(blocks, b)
	}
	return blocks
}

func newTextBlock(reg *block.Registry, typ block.ContentType, text string) *block.Block {
	b := block.New(typ, reg.Traits(typ))
	if in := b.FirstInput(); in != nil {
		in.SetText(text)
	}
	return b
}
