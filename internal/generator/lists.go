package generator

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/goliatone/go-makesite/internal/logging"
	"github.com/goliatone/go-makesite/internal/markdown"
	"github.com/goliatone/go-makesite/pkg/interfaces"
)

// ListSpec describes one aggregate document: an HTML index or an RSS feed.
type ListSpec struct {
	// Name labels log entries and metrics, e.g. "blog" or "blog.rss".
	Name        string
	Destination string
	ListLayout  string
	ItemLayout  string
	Overrides   map[string]any
	// SummaryWords bounds each item summary; <= 0 uses the builder default.
	SummaryWords int
}

// ListBuilder renders record collections into list pages and feeds.
type ListBuilder struct {
	writer       artifactWriter
	summaryWords int
	logger       interfaces.Logger
	metrics      *buildMetrics
}

// ListBuilderConfig wires a ListBuilder.
type ListBuilderConfig struct {
	Storage      interfaces.StorageProvider
	OutputDir    string
	SummaryWords int
	Logger       interfaces.Logger
}

// NewListBuilder constructs a ListBuilder.
func NewListBuilder(cfg ListBuilderConfig) *ListBuilder {
	return newListBuilder(cfg, newArtifactWriter(cfg.Storage, cfg.OutputDir), nil)
}

func newListBuilder(cfg ListBuilderConfig, writer artifactWriter, metrics *buildMetrics) *ListBuilder {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	words := cfg.SummaryWords
	if words <= 0 {
		words = DefaultSummaryWords
	}
	return &ListBuilder{
		writer:       writer,
		summaryWords: words,
		logger:       logger,
		metrics:      metrics,
	}
}

// MakeList renders one item fragment per record, in the given order, and
// writes the list layout with the concatenated fragments bound to content.
// Records are expected to be sorted already.
func (b *ListBuilder) MakeList(ctx context.Context, spec ListSpec, records []markdown.Record, params Params) (err error) {
	ctx, span := startSpan(ctx, spanList,
		attribute.String("makesite.list", spec.Name),
		attribute.Int("makesite.items", len(records)),
	)
	defer func() { endSpan(span, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}

	words := spec.SummaryWords
	if words <= 0 {
		words = b.summaryWords
	}

	base := params.With(spec.Overrides)

	var items strings.Builder
	for _, record := range records {
		itemParams := base.With(record.Fields(), map[string]any{
			ParamSummary: Truncate(record.Content, words),
		})
		items.WriteString(Render(spec.ItemLayout, itemParams))
	}

	listParams := base.With(map[string]any{ParamContent: items.String()})
	destination := Render(spec.Destination, listParams)
	output := Render(spec.ListLayout, listParams)

	err = b.writer.WriteFile(ctx, writeFileRequest{
		Path:     destination,
		Content:  strings.NewReader(output),
		Category: categoryList,
		Source:   spec.Name,
	})
	if err != nil {
		return err
	}

	b.metrics.listRendered(spec.Name)
	b.logger.Info("generator.list.rendered", "list", spec.Name, "destination", destination, "items", len(records))
	return nil
}
