package operations

import (
	"context"
	"log/slog"

	"sentimentcli/internal/analytics"
	"sentimentcli/internal/dataprocessing"
)

// Table labels used in metrics and logs
const (
	tableTrades    = "trades"
	tableSentiment = "sentiment"
)

func (p *Pipeline) load(ctx context.Context, r *run, state *StepState) error {
	trades, err := dataprocessing.Load(r.req.TradesFile)
	if err != nil {
		return err
	}
	sentiment, err := dataprocessing.Load(r.req.SentimentFile)
	if err != nil {
		return err
	}

	for _, in := range []struct {
		label string
		table *dataprocessing.Table
	}{{tableTrades, trades}, {tableSentiment, sentiment}} {
		p.metrics.RecordLoad(ctx, in.label, in.table.Len())
		p.logger.InfoContext(ctx, "Input table loaded",
			slog.String("table", in.label),
			slog.String("name", in.table.Name),
			slog.Int("rows", in.table.Len()),
			slog.Int("columns", len(in.table.Columns)),
			slog.Any("column_names", in.table.Columns))
	}

	state.SetMetadata("trade_rows", trades.Len())
	state.SetMetadata("sentiment_rows", sentiment.Len())

	r.result.Trades = trades
	r.result.Sentiment = sentiment
	return nil
}

func (p *Pipeline) resolve(ctx context.Context, r *run, state *StepState) error {
	tradeCol, err := dataprocessing.TradeTimeColumn.Resolve(r.result.Trades)
	if err != nil {
		return err
	}
	sentimentCol, err := dataprocessing.SentimentDateColumn.Resolve(r.result.Sentiment)
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "Time columns resolved",
		slog.String("trade_time", tradeCol),
		slog.String("sentiment_date", sentimentCol))

	state.SetMetadata("trade_time_column", tradeCol)
	state.SetMetadata("sentiment_date_column", sentimentCol)

	r.result.TradeTimeColumn = tradeCol
	r.result.SentimentDateColumn = sentimentCol
	return nil
}

func (p *Pipeline) normalize(ctx context.Context, r *run, state *StepState) error {
	parser, err := dataprocessing.NewTimeParser(r.req.TimeLayouts, r.req.Timezone)
	if err != nil {
		return err
	}

	trades, droppedTrades, err := dataprocessing.Normalize(r.result.Trades, r.result.TradeTimeColumn, parser)
	if err != nil {
		return err
	}
	sentiment, droppedSentiment, err := dataprocessing.Normalize(r.result.Sentiment, r.result.SentimentDateColumn, parser)
	if err != nil {
		return err
	}

	p.metrics.RecordDropped(ctx, tableTrades, droppedTrades)
	p.metrics.RecordDropped(ctx, tableSentiment, droppedSentiment)
	if droppedTrades > 0 || droppedSentiment > 0 {
		p.logger.WarnContext(ctx, "Rows with unparsable time values dropped",
			slog.Int("trades", droppedTrades),
			slog.Int("sentiment", droppedSentiment))
	}

	state.SetMetadata("dropped_trades", droppedTrades)
	state.SetMetadata("dropped_sentiment", droppedSentiment)
	state.SetMetadata("timezone", parser.Location().String())

	r.tradeTimes = trades
	r.sentimentTimes = sentiment
	r.result.DroppedTrades = droppedTrades
	r.result.DroppedSentiment = droppedSentiment
	return nil
}

func (p *Pipeline) join(ctx context.Context, r *run, state *StepState) error {
	merged, stats := dataprocessing.JoinAsOf(r.tradeTimes, r.sentimentTimes)

	p.metrics.RecordUnmatched(ctx, stats.Unmatched)
	p.logger.InfoContext(ctx, "Trades joined to sentiment",
		slog.Int("rows", merged.Len()),
		slog.Int("matched", stats.Matched),
		slog.Int("unmatched", stats.Unmatched))

	state.SetMetadata("matched", stats.Matched)
	state.SetMetadata("unmatched", stats.Unmatched)

	r.result.Merged = merged
	r.result.Join = stats
	return nil
}

func (p *Pipeline) aggregate(ctx context.Context, r *run, state *StepState) error {
	cols, err := dataprocessing.ResolveAnalysisColumns(&r.result.Merged.Table)
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "Analysis columns resolved",
		slog.String("classification", cols.Classification),
		slog.String("pnl", cols.PnL),
		slog.String("side", cols.Side),
		slog.String("leverage", cols.Leverage))

	report, err := analytics.Analyze(r.result.Merged, cols)
	if err != nil {
		return err
	}

	state.SetMetadata("classification_column", cols.Classification)
	state.SetMetadata("pnl_column", cols.PnL)
	state.SetMetadata("groups", len(report.PnL))

	r.result.Columns = cols
	r.result.Report = report
	return nil
}

func (p *Pipeline) export(ctx context.Context, r *run, state *StepState) error {
	if err := p.csv.WriteTable(r.req.MergedFile, &r.result.Merged.Table, r.req.BOMPrefix); err != nil {
		return err
	}
	state.SetMetadata("file", r.req.MergedFile)
	state.SetMetadata("rows", r.result.Merged.Len())
	return nil
}

func (p *Pipeline) writeWorkbook(ctx context.Context, r *run, state *StepState) error {
	if err := p.workbook.Write(r.req.WorkbookFile, r.result.Report); err != nil {
		return err
	}
	state.SetMetadata("file", r.req.WorkbookFile)
	return nil
}

func (p *Pipeline) skipWorkbook(r *run) string {
	if r.req.WorkbookFile == "" {
		return "no workbook file configured"
	}
	return ""
}

func (p *Pipeline) writeMetrics(ctx context.Context, r *run, state *StepState) error {
	if err := p.metricsSink.WriteMetrics(r.req.MetricsFile); err != nil {
		return err
	}
	state.SetMetadata("file", r.req.MetricsFile)
	return nil
}

func (p *Pipeline) skipMetrics(r *run) string {
	if r.req.MetricsFile == "" {
		return "no metrics file configured"
	}
	if p.metricsSink == nil {
		return "metrics collection disabled"
	}
	return ""
}
