// Package salespulse is a sales analytics pipeline for a fashion-retail
// dataset of users, transactions and items.
//
// Usage:
//
//	import "github.com/spektr-org/salespulse/engine"
//
//	p, err := engine.Load(tables, engine.WithTopN(10))
//	result, err := p.Apply(ctx, p.DefaultCriteria())
//
// Load normalizes the three raw tables (package schema), joins them into one
// row per transaction and stamps customer ages. Apply filters those rows
// and returns render-ready output: the KPI row, chart configs and the
// transaction table.
//
// Raw tables come from package helpers (CSV directories, SQLite, DuckDB and
// .xlsx workbooks) or package sample. The salespulse command in
// cmd/salespulse wires all of it together.
package salespulse
