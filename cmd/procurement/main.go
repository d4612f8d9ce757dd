package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"procurement/internal"
	"procurement/internal/catalog"
	"procurement/internal/config"
	"procurement/internal/harness"
	"procurement/internal/listener"
	"procurement/internal/logging"
	"procurement/internal/pipeline"
	"procurement/internal/stats"
	"procurement/internal/storage"
	"procurement/internal/template"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	_, logCloser, err := logging.Setup(cfg)
	must(err)
	defer logCloser.Close()

	cmd := os.Args[1]
	if cmd == "template:extract" {
		runExtract(cmd)
		return
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	aliases, err := catalog.BuildAliasTable(cfg.AliasFile)
	must(err)

	ctx := context.Background()
	switch cmd {
	case "vendors:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "xlsx or html procurement export")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		res, err := pipeline.NewImportService(db).ImportFile(ctx, *input)
		must(err)
		fmt.Printf("import done rows=%d withAmount=%d vendors=%d trace=%s\n", res.Rows, res.WithAmount, res.VendorNames, res.TraceID)
	case "vendors:resolve":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		name := fs.String("name", "", "vendor name to resolve")
		asJSON := fs.Bool("json", false, "print the resolution as JSON")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*name) == "" {
			must(fmt.Errorf("--name is required"))
		}
		res, err := pipeline.NewResolver(cfg, db, aliases).Resolve(ctx, *name)
		must(err)
		if *asJSON {
			printJSON(res)
			return
		}
		printResolution(res)
	case "vendors:resolve-batch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "text file with one name per line, or xlsx")
		output := fs.String("output", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *output == "" {
			must(fmt.Errorf("--input --output are required"))
		}
		res, err := pipeline.NewBatchService(db, cfg, aliases).ResolveFile(ctx, *input, *output)
		must(err)
		fmt.Printf("batch done total=%d resolved=%d ambiguous=%d notFound=%d output=%s\n",
			res.Counts["total"], res.Counts["resolved"], res.Counts["ambiguous"], res.Counts["notFound"], *output)
	case "vendors:status":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		top := fs.Int("top", 5, "number of top vendors by spend")
		_ = fs.Parse(os.Args[2:])
		printStatus(ctx, db, aliases, *top)
	case "vendors:watch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		once := fs.Bool("once", false, "run a single cycle and exit")
		_ = fs.Parse(os.Args[2:])
		svc := listener.NewService(db, cfg, aliases)
		if *once {
			res, err := svc.RunCycle(ctx)
			must(err)
			fmt.Printf("watch cycle done imported=%d resolved=%d failed=%d\n", res.Imported, res.Resolved, res.Failed)
			return
		}
		runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		must(svc.Run(runCtx))
	case "stats":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		vendors := fs.String("vendors", "", "comma-separated vendor names; empty means all vendors")
		metric := fs.String("metric", "all", "all|mean|median|min|max")
		compare := fs.Bool("compare", false, "require enough vendors for a comparison")
		_ = fs.Parse(os.Args[2:])
		runStats(ctx, cfg, db, aliases, *vendors, *metric, *compare)
	case "verify":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		cases := fs.String("cases", "", "yaml case file")
		outDir := fs.String("out", cfg.OutputDir, "directory for the JSON report")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*cases) == "" {
			must(fmt.Errorf("--cases is required"))
		}
		loaded, err := harness.LoadCases(*cases)
		must(err)
		runner := harness.NewRunner(pipeline.NewResolver(cfg, db, aliases), template.NewExtractor(nil))
		report := runner.Run(ctx, loaded)
		path, err := harness.SaveReport(report, *outDir, time.Now())
		must(err)
		fmt.Printf("verify done total=%d success=%d failure=%d report=%s\n",
			report.Tally.Total(), report.Tally.Success, report.Tally.Failure, path)
		if report.Tally.Failure > 0 {
			os.Exit(2)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func runExtract(cmd string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	input := fs.String("input", "", "file with generated text; stdin when empty")
	payload := fs.Bool("payload", false, "input is a JSON response payload")
	lines := fs.Bool("lines", false, "print one list item per line")
	asJSON := fs.Bool("json", false, "print the structured document as JSON")
	_ = fs.Parse(os.Args[2:])

	var blob []byte
	var err error
	if *input == "" {
		blob, err = io.ReadAll(os.Stdin)
	} else {
		blob, err = os.ReadFile(*input)
	}
	must(err)

	text := string(blob)
	if *payload {
		text = template.ResponseTextJSON(blob)
	}

	switch {
	case *lines:
		for _, line := range template.ResponseLines(text) {
			fmt.Println(line)
		}
	case *asJSON:
		doc := template.Extract(text)
		printJSON(map[string]any{"dialect": doc.Dialect(), "document": doc})
	default:
		fmt.Println(template.ResponseText(text))
	}
}

func runStats(ctx context.Context, cfg config.Config, db *storage.DB, aliases *catalog.AliasTable, vendorList, metricName string, compare bool) {
	metric, err := stats.ParseMetric(metricName)
	must(err)
	minimums := stats.Minimums{ComparisonVendors: cfg.MinComparisonVendors, StatisticalRecords: cfg.MinStatisticalRecords}

	names := []string{}
	if strings.TrimSpace(vendorList) != "" {
		resolver := pipeline.NewResolver(cfg, db, aliases)
		for _, query := range strings.Split(vendorList, ",") {
			query = strings.TrimSpace(query)
			if query == "" {
				continue
			}
			res, err := resolver.Resolve(ctx, query)
			must(err)
			if !res.Found() {
				fmt.Printf("no vendor matches %q\n", query)
				continue
			}
			names = append(names, res.Names...)
		}
		if len(names) == 0 {
			must(fmt.Errorf("none of the vendors could be resolved"))
		}
	}

	if compare {
		if ok, msg := stats.CheckSufficiency(stats.KindComparison, len(names), minimums); !ok {
			fmt.Println(msg)
			os.Exit(2)
		}
	}

	values, err := db.VendorAmounts(ctx, names)
	must(err)
	if ok, msg := stats.CheckSufficiency(stats.KindStatistical, len(values), minimums); !ok {
		fmt.Println(msg)
		os.Exit(2)
	}

	summary, err := stats.Calculate(values, metric)
	must(err)
	if metric != stats.MetricAll {
		fmt.Printf("%s=%.2f records=%d\n", metric, summary.Value, summary.RecordsAnalyzed)
		return
	}
	fmt.Printf("mean=%.2f median=%.2f min=%.2f max=%.2f records=%d\n",
		summary.Mean, summary.Median, summary.Min, summary.Max, summary.RecordsAnalyzed)
}

func printStatus(ctx context.Context, db *storage.DB, aliases *catalog.AliasTable, top int) {
	rows, err := db.CountProcurementRows(ctx)
	must(err)
	names, err := db.ListVendorNames(ctx)
	must(err)
	fmt.Printf("rows=%d vendors=%d aliases=%d\n", rows, len(names), aliases.Len())

	last, err := db.GetMetadata(pipeline.MetaLastImport)
	must(err)
	if last != nil {
		fmt.Printf("last import: %s\n", *last)
	}
	counts, err := db.LastRunCounts(pipeline.RunKindResolveBatch)
	must(err)
	if counts != nil {
		fmt.Printf("last batch: total=%d resolved=%d ambiguous=%d notFound=%d\n",
			counts["total"], counts["resolved"], counts["ambiguous"], counts["notFound"])
	}

	totals, err := db.TopVendors(ctx, top)
	must(err)
	for i, v := range totals {
		fmt.Printf("%2d. %-40s %14.2f orders=%d\n", i+1, v.VendorName, v.Total, v.Orders)
	}
}

func printResolution(res internal.Resolution) {
	fmt.Printf("status=%s strategy=%s\n", res.Status, res.Strategy)
	for _, c := range res.Candidates {
		fmt.Printf("  %s (%.3f)\n", c.Name, c.Score)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	must(enc.Encode(v))
}

func usage() {
	fmt.Println("usage: procurement <command>")
	fmt.Println("commands:")
	fmt.Println("  vendors:import --input=orders.xlsx|orders.html")
	fmt.Println("  vendors:resolve --name=\"Oracel America\" [--json]")
	fmt.Println("  vendors:resolve-batch --input=names.txt|names.xlsx --output=./out/resolved.xlsx")
	fmt.Println("  vendors:status [--top=5]")
	fmt.Println("  vendors:watch [--once]")
	fmt.Println("  template:extract [--input=response.txt] [--payload] [--lines] [--json]")
	fmt.Println("  stats [--vendors=\"Dell,IBM\"] [--metric=all|mean|median|min|max] [--compare]")
	fmt.Println("  verify --cases=cases.yaml [--out=./out]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
