package worker

import (
	"context"

	"github.com/fortify-solutions/compliance-hub/internal/model"
)

// CoverageAnalyzer is the slice of the analysis facade the batch runner needs
type CoverageAnalyzer interface {
	AnalyzeRequirementCoverage(req model.Requirement, rules []model.Rule) model.AnalysisResult
}

// AnalysisJob analyzes one requirement against its linked rules
type AnalysisJob struct {
	Index       int // position in the input slice, for stable output order
	Requirement model.Requirement
	Rules       []model.Rule
	Analyzer    CoverageAnalyzer
}

// AnalysisOutcome is the result of one analysis job. Analysis itself cannot
// fail; Err is only set when the job was cancelled.
type AnalysisOutcome struct {
	Index  int
	Result model.AnalysisResult
	Err    error
}

// GetError returns the job error, if any
func (o *AnalysisOutcome) GetError() error {
	return o.Err
}

// Execute runs the analysis unless the pool context was cancelled
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return &AnalysisOutcome{Index: j.Index, Err: ctx.Err()}
	default:
	}
	return &AnalysisOutcome{
		Index:  j.Index,
		Result: j.Analyzer.AnalyzeRequirementCoverage(j.Requirement, j.Rules),
	}
}

// BatchAnalyzer fans requirement analyses out across a worker pool. Safe
// because every analysis call is a pure function of its own inputs: no
// locking discipline is needed between jobs.
type BatchAnalyzer struct {
	analyzer    CoverageAnalyzer
	concurrency int
}

// NewBatchAnalyzer creates a batch runner with the given concurrency
func NewBatchAnalyzer(analyzer CoverageAnalyzer, concurrency int) *BatchAnalyzer {
	return &BatchAnalyzer{analyzer: analyzer, concurrency: concurrency}
}

// Process analyzes every requirement concurrently and returns the results
// in input order. Cancelled jobs are dropped from the output.
func (b *BatchAnalyzer) Process(ctx context.Context, requirements []model.Requirement, lookup func(string) []model.Rule) []model.AnalysisResult {
	if len(requirements) == 0 {
		return nil
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-stop:
		}
	}()

	for i, req := range requirements {
		pool.Submit(&AnalysisJob{
			Index:       i,
			Requirement: req,
			Rules:       lookup(req.ID),
			Analyzer:    b.analyzer,
		})
	}

	ordered := make([]model.AnalysisResult, len(requirements))
	completed := make([]bool, len(requirements))
	for _, result := range pool.Wait() {
		outcome := result.(*AnalysisOutcome)
		if outcome.Err != nil {
			continue
		}
		ordered[outcome.Index] = outcome.Result
		completed[outcome.Index] = true
	}

	var results []model.AnalysisResult
	for i, done := range completed {
		if done {
			results = append(results, ordered[i])
		}
	}
	return results
}
