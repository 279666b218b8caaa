package usecase

import (
	"context"
	"fmt"

	"CoinLake/internal/ingest"
	applogger "CoinLake/pkg/logger"
)

// Pipeline runs the three stages in order. Each stage completes before the
// next begins; a fatal stage error aborts the run without touching the
// already-persisted output of earlier stages. Overlapping runs against the
// same dataset are a correctness hazard the scheduler must prevent; the
// pipeline itself takes no locks.
type Pipeline struct {
	ingestor *ingest.Ingestor
	silver   *SilverRunner
	gold     *GoldRunner
	l        *applogger.Logger
}

func NewPipeline(ingestor *ingest.Ingestor, silver *SilverRunner, gold *GoldRunner, l *applogger.Logger) *Pipeline {
	return &Pipeline{ingestor: ingestor, silver: silver, gold: gold, l: l}
}

// RunIngest runs only the bronze stage.
func (p *Pipeline) RunIngest(ctx context.Context) error {
	_, err := p.ingestor.Run(ctx)
	return err
}

// RunReconcile runs only the silver stage.
func (p *Pipeline) RunReconcile(ctx context.Context) error {
	_, err := p.silver.Run(ctx)
	return err
}

// RunAggregate runs silver then gold: the indicator engine always consumes
// a freshly reconciled history so retroactive raw corrections propagate.
func (p *Pipeline) RunAggregate(ctx context.Context) error {
	history, err := p.silver.Run(ctx)
	if err != nil {
		return err
	}
	_, err = p.gold.Run(ctx, history)
	return err
}

// RunAll runs bronze, silver, gold in sequence.
func (p *Pipeline) RunAll(ctx context.Context) error {
	if err := p.RunIngest(ctx); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := p.RunAggregate(ctx); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	p.l.Info("pipeline run complete")
	return nil
}
