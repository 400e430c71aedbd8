package main

import (
	"context"
	"fmt"

	"github.com/spektr-org/salespulse/config"
	"github.com/spektr-org/salespulse/engine"
	"github.com/spektr-org/salespulse/helpers"
	"github.com/spektr-org/salespulse/sample"
	"github.com/spektr-org/salespulse/schema"
)

// loadTables reads the three raw tables from the configured source.
func (g *globals) loadTables(ctx context.Context) (schema.Tables, error) {
	path := g.cfg.DataPath
	source := g.cfg.ResolveSource(path)
	if source != config.SourceSample && path == "" {
		return nil, fmt.Errorf("source %s needs --data or SALESPULSE_DATA", source)
	}

	g.log.WithField("source", source).Debugf("📂 loading %s", path)

	switch source {
	case config.SourceSample:
		return sample.Generate(sample.DefaultOptions()), nil
	case config.SourceCSV:
		return helpers.LoadCSVDir(path)
	case config.SourceSQLite:
		return helpers.LoadSQLite(ctx, path)
	case config.SourceDuckDB:
		return helpers.LoadDuckDBWithLogger(ctx, path, g.log)
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

// loadPipeline loads the tables and runs the merge stage.
func (g *globals) loadPipeline(ctx context.Context, extra ...engine.Option) (*engine.Pipeline, error) {
	tables, err := g.loadTables(ctx)
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithLogger(g.log),
		engine.WithTopN(g.cfg.TopN),
		engine.WithWorkers(g.cfg.Workers),
	}
	if g.cfg.CurrentYear > 0 {
		opts = append(opts, engine.WithCurrentYear(g.cfg.CurrentYear))
	}
	return engine.Load(tables, append(opts, extra...)...)
}
