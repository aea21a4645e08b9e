// Package csvclean is a toolkit for inspecting and cleaning tabular data
// before analysis.
//
// csvclean loads a CSV file (or the first sheet of an .xlsx workbook), reports
// where values are missing, and fills them either with a column statistic or
// with the prediction of a gradient-boosted tree model trained on the rows
// where the value is present.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/csvclean/impute"
//	    "github.com/YuminosukeSato/csvclean/processor"
//	    "github.com/YuminosukeSato/csvclean/table"
//	)
//
//	func main() {
//	    p, err := processor.NewFromFile("people.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    missing, err := p.HighlightMissing(10)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, m := range missing {
//	        fmt.Printf("%s: %.2f%% (%s)\n", m.Column, m.MissingPercentage, m.Band)
//	    }
//
//	    err = p.RemoveColumns("memo").
//	        FillMissing("median", "age").
//	        FillMissingModelBased("city", []string{"age", "height"}, impute.DefaultBoostParams()).
//	        Err()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := table.WriteFile("people.clean.csv", p.Table()); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Packages
//
//   - table: column storage, CSV/XLSX loading and inspection
//   - processor: TableProcessor, the chainable cleaning engine
//   - impute: mean/median/mode and model-based imputers, EncoderRegistry
//   - sklearn/ensemble: gradient-boosted regression and classification trees
//   - preprocessing: LabelEncoder
//   - metrics: MSE, RMSE, MAE, R² and accuracy
//   - report: Markdown, HTML and PNG rendering of an inspection
//   - pkg/errors, pkg/log: error taxonomy and zerolog-backed logging
//
// The csvclean command in cmd/csvclean exposes the same operations on the
// command line.
package csvclean
