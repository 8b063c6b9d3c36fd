package repositories

import (
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"

	"agro-chat/domain"
	"agro-chat/domain/search"
)

// HistoryIndex mirrors conversation messages into a Bluge index so the viewer
// can run /find queries over their own history. The index is a secondary
// projection: BadgerDB stays the source of truth and the index can always be
// rebuilt from it.
type HistoryIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

// Hit is one search result projected back to the chat surface.
type Hit struct {
	MessageID string
	Sender    string
	Text      string
}

func NewHistoryIndex(writer *bluge.Writer, log *slog.Logger) *HistoryIndex {
	return &HistoryIndex{writer: writer, log: log}
}

// Index upserts one message document keyed by its message id.
func (h *HistoryIndex) Index(viewerID string, m domain.Message) error {
	doc := bluge.NewDocument(m.ID.String()).
		AddField(bluge.NewKeywordField("viewer", viewerID)).
		AddField(bluge.NewKeywordField("sender", string(m.Sender)).StoreValue()).
		AddField(bluge.NewTextField("text", m.Text).StoreValue()).
		AddField(bluge.NewDateTimeField("at", m.At))

	return h.writer.Update(doc.ID(), doc)
}

// Search runs a parsed /find query scoped to one viewer and returns at most
// query.Limit hits plus the total match count.
func (h *HistoryIndex) Search(ctx context.Context, viewerID string, query *search.Query) ([]Hit, uint64, error) {
	reader, err := h.writer.Reader()
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = reader.Close() }()

	boolean := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(viewerID).SetField("viewer")).
		AddMust(bluge.NewMatchQuery(query.Terms).SetField("text"))
	if query.Sender != "" {
		boolean.AddMust(bluge.NewTermQuery(query.Sender).SetField("sender"))
	}

	request := bluge.NewTopNSearch(query.Limit, boolean).WithStandardAggregations()
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, err
	}

	var hits []Hit
	match, err := iterator.Next()
	for err == nil && match != nil {
		var hit Hit
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case "sender":
				hit.Sender = string(value)
			case "text":
				hit.Text = string(value)
			}
			return true
		})
		if visitErr != nil {
			return nil, 0, visitErr
		}
		hits = append(hits, hit)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, 0, err
	}

	return hits, iterator.Aggregations().Count(), nil
}

// Purge removes every indexed message of one viewer, used when the history is
// cleared. Documents are located by the viewer term and deleted in one batch.
func (h *HistoryIndex) Purge(ctx context.Context, viewerID string) error {
	reader, err := h.writer.Reader()
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewTermQuery(viewerID).SetField("viewer")
	request := bluge.NewAllMatches(query)
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return err
	}

	batch := bluge.NewBatch()
	match, err := iterator.Next()
	for err == nil && match != nil {
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				batch.Delete(bluge.Identifier(string(value)))
			}
			return true
		})
		if visitErr != nil {
			return visitErr
		}
		match, err = iterator.Next()
	}
	if err != nil {
		return err
	}

	return h.writer.Batch(batch)
}
