package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"csv2sql/internal/convert"
	"csv2sql/internal/metrics"
	"csv2sql/internal/metrics/datadog"
	"csv2sql/internal/reader"
)

// main is the entry point for the converter binary. It parses flags, picks a
// metrics backend, and runs a single file conversion.
func main() {
	var (
		method            string
		tableName         string
		delimiter         string
		encoding          string
		sheet             string
		metricsBackendFlg string
	)

	flag.StringVar(&method, "method", "values", "SQL generation method: values or cte")
	flag.StringVar(&tableName, "table", "", "table alias used in the generated SQL (default csv_data)")
	flag.StringVar(&delimiter, "delimiter", ",", "field delimiter for delimited input")
	flag.StringVar(&encoding, "encoding", "", "IANA character set of the input (default UTF-8)")
	flag.StringVar(&sheet, "sheet", "", "sheet name for XLSX input (default first sheet)")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (datadog, none)")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	input, output := flag.Arg(0), flag.Arg(1)

	delim, err := parseDelimiter(delimiter)
	if err != nil {
		fatalf("%v", err)
	}

	// Decide metrics backend: flag → env → default.
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}

	var backend metrics.Backend = metrics.Nop{}
	switch backendName {
	case "datadog":
		extraTags := datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS"))
		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName:    "csv2sql",
			Tags:       extraTags,
			FlushEvery: 60 * time.Second,
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			if *verbose {
				log.Printf("metrics: backend=%v tags=%v", backendName, extraTags)
			}
			backend = b
			defer func() {
				if err := b.Close(); err != nil {
					log.Printf("metrics: datadog close/flush error: %v", err)
				}
			}()
		}
	case "", "none":
		// metrics disabled; nop backend remains
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	ctx := context.Background()
	start := time.Now()

	stats, err := convert.Convert(ctx, convert.Options{
		Input:     input,
		Output:    output,
		Method:    method,
		TableName: tableName,
		Reader: reader.Options{
			Delimiter: delim,
			Encoding:  encoding,
			Sheet:     sheet,
		},
	})

	elapsed := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
	}
	labels := metrics.Labels{"method": method, "status": status}
	backend.IncCounter(datadog.MetricRuns, 1, labels)
	backend.ObserveHistogram(datadog.MetricDuration, elapsed.Seconds(), labels)
	if err == nil {
		backend.IncCounter(datadog.MetricRows, float64(stats.Rows), labels)
	}

	if err != nil {
		fatalf("%v", err)
	}

	if *verbose {
		tags := make([]string, len(stats.Tags))
		for i, t := range stats.Tags {
			tags[i] = t.String()
		}
		log.Printf("converted %s -> %s: rows=%d columns=%d types=%s in %s",
			input, output, stats.Rows, stats.Columns,
			strings.Join(tags, ","), elapsed.Truncate(time.Millisecond))
	}
}

// parseDelimiter accepts a single character or the escapes \t and \0.
func parseDelimiter(s string) (rune, error) {
	switch s {
	case "", ",":
		return 0, nil
	case "\\t", "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r[0], nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: csv2sql [flags] <input> <output.sql>

Reads a delimited file (or HTML table / XLSX workbook), infers one SQL type
per column, and writes SQL that reproduces the data as an inline result set.

Flags:
`)
	flag.PrintDefaults()
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
