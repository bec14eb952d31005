package pipeline

import (
	"fmt"

	"github.com/funvibe/lowerkit/internal/analyzer"
	"github.com/funvibe/lowerkit/internal/config"
	"github.com/funvibe/lowerkit/internal/ir"
)

// ConfigProcessor loads lowerkit.yaml from Dir or one of its parents.
// Options already set on the context win.
type ConfigProcessor struct{}

func (cp *ConfigProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Options != nil {
		return ctx
	}
	ctx.Options = config.DefaultOptions()
	if ctx.Dir == "" {
		return ctx
	}
	path, err := config.FindConfig(ctx.Dir)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	if path == "" {
		return ctx
	}
	opts, err := config.LoadConfig(path)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Options = opts
	return ctx
}

// AnalysisProcessor binds and lowers the modules. It opens the program
// database named by the options.
type AnalysisProcessor struct{}

func (ap *AnalysisProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if len(ctx.Errors) > 0 || len(ctx.Modules) == 0 {
		return ctx
	}
	c := analyzer.New(ctx.Options, ctx.Prelude)
	ctx.Analysis = c
	if err := c.Open(); err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	if err := c.Analyze(ctx.Modules...); err != nil {
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}

// FinalizeProcessor gives every installed function its arguments and
// makes methods universally visible.
type FinalizeProcessor struct{}

func (fp *FinalizeProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if len(ctx.Errors) > 0 || ctx.Analysis == nil {
		return ctx
	}
	if err := ctx.Analysis.FinalizeFunctions(); err != nil {
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}

// RecordProcessor closes the program database and, with verbose output,
// writes the code of every closure to the trace writer.
type RecordProcessor struct{}

func (rp *RecordProcessor) Process(ctx *PipelineContext) *PipelineContext {
	c := ctx.Analysis
	if c == nil {
		return ctx
	}
	if len(ctx.Errors) == 0 && c.Options().Verbose > 1 {
		if err := ir.Fprint(c.Options().Trace, c.Table, c.Program); err != nil {
			ctx.Errors = append(ctx.Errors, fmt.Errorf("writing listing: %w", err))
		}
	}
	if err := c.Close(); err != nil {
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}
