package pipeline

import (
	"github.com/funvibe/lowerkit/internal/analyzer"
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/config"
)

// Processor is one stage of a compilation.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries the state of one compilation between stages.
type PipelineContext struct {
	// Dir is where the configuration search starts. Empty skips the
	// search.
	Dir     string
	Options *config.Options
	Prelude *ast.Prelude
	Modules []*ast.ModuleSymbol

	// Analysis is set once the modules are lowered.
	Analysis *analyzer.Context
	Errors   []error
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Default returns the stages of a full compilation: configuration,
// lowering, function finalization and recording.
func Default() *Pipeline {
	return New(&ConfigProcessor{}, &AnalysisProcessor{}, &FinalizeProcessor{}, &RecordProcessor{})
}

// Run executes the pipeline. Every stage runs; a stage that depends on
// an earlier one returns early when it failed.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
