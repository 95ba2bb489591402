package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"rcm-planner/config"
	"rcm-planner/engine"
	"rcm-planner/formatter"
	"rcm-planner/metrics"
	"rcm-planner/optimizer"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"
)

func main() {
	// Define flags
	configPath := flag.String("config", "", "YAML parameter file (built-in case-study defaults when omitted)")
	format := flag.String("format", "text", "Output format: text|json|csv")
	month := flag.Int("month", -1, "Show a single month in detail (-1 = full report)")
	optimize := flag.Bool("optimize", false, "Search for the cheapest staffing mix meeting the constraints")
	maxUtilization := flag.Float64("max-utilization", 0, "Utilization ceiling in percent for -optimize (0 = parameter target)")
	sweep := flag.String("sweep", "", "Parameter name for sensitivity analysis (e.g. revenue_percentage)")
	sweepValues := flag.String("sweep-values", "", "Comma-separated values for -sweep (e.g. 0.04,0.05,0.06)")
	metricsAddr := flag.String("metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	pushGateway := flag.String("push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	wait := flag.Bool("wait", false, "Keep process running after completion to allow for metric scraping")
	debug := flag.Bool("debug", false, "Log computation events to stderr")

	// Parse command-line flags
	flag.Parse()

	log := zerolog.Nop()
	if *debug {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	// Start metrics server if address provided
	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			fmt.Printf("Metrics server listening on %s/metrics\n", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				fmt.Printf("Metrics server error: %v\n", err)
			}
		}()
	}

	// Validate format enum
	validFormats := map[string]bool{"text": true, "json": true, "csv": true}
	if !validFormats[*format] {
		fmt.Printf("Error: format must be one of: text, json, csv (got: %s)\n", *format)
		os.Exit(1)
	}

	if *maxUtilization < 0 {
		fmt.Println("Error: max-utilization must not be negative")
		os.Exit(1)
	}

	params := config.Default()
	if *configPath != "" {
		file, err := os.Open(*configPath)
		if err != nil {
			fmt.Printf("Error opening config: %v\n", err)
			os.Exit(1)
		}
		params, err = config.Load(file)
		file.Close()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	eng, err := engine.New(params, engine.WithLogger(log))
	if err != nil {
		fmt.Printf("Error building engine: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *sweep != "":
		runSweep(params, log, *sweep, *sweepValues, *format)
	case *optimize:
		runOptimize(params, log, *month, *maxUtilization, *format)
	case *month >= 0:
		m, err := eng.ComputeMonth(*month)
		if err != nil {
			fmt.Printf("Error computing month: %v\n", err)
			os.Exit(1)
		}
		switch *format {
		case "json":
			fmt.Print(formatter.FormatMonthJSON(m))
		case "csv":
			fmt.Println("Error: -format csv supports full reports only")
			os.Exit(1)
		default: // "text"
			fmt.Print(formatter.FormatMonthText(m))
		}
	default:
		start := time.Now()
		report, err := eng.GenerateReport()
		if err != nil {
			fmt.Printf("Error generating report: %v\n", err)
			os.Exit(1)
		}
		metrics.ReportDurationSeconds.Observe(time.Since(start).Seconds())
		metrics.SetReportGauges(report)

		// Output based on format
		switch *format {
		case "json":
			fmt.Print(formatter.FormatJSON(report))
		case "csv":
			fmt.Print(formatter.FormatCSV(report))
		default: // "text"
			fmt.Print(formatter.FormatText(report))
		}
	}

	// Handle metrics pushing or waiting
	if *pushGateway != "" {
		jobName := "rcm_planner"
		if err := push.New(*pushGateway, jobName).Gatherer(metrics.Registry).Push(); err != nil {
			fmt.Fprintf(os.Stderr, "Error pushing to Pushgateway: %v\n", err)
		} else {
			fmt.Println("\nMetrics successfully pushed to Pushgateway")
		}
	}

	if *wait && *metricsAddr != "" {
		fmt.Println("\nProcess kept alive for metric scraping. Press Ctrl+C to exit.")
		// Wait for interrupt signal
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		fmt.Println("\nExiting...")
	} else if *metricsAddr != "" && *pushGateway == "" {
		// Small delay to allow final scrape if not waiting explicitly
		// but typically batch jobs should use pushgateway or wait
		time.Sleep(100 * time.Millisecond)
	}
}

func runOptimize(params *config.Params, log zerolog.Logger, month int, maxUtilization float64, format string) {
	if month == 0 {
		fmt.Println("Error: -optimize needs an operational month (1 or later)")
		os.Exit(1)
	}

	opt, err := optimizer.New(params, optimizer.WithLogger(log))
	if err != nil {
		fmt.Printf("Error building optimizer: %v\n", err)
		os.Exit(1)
	}

	in := optimizer.DefaultInput(params)
	if month > 0 {
		in.Period = month
	}
	if maxUtilization > 0 {
		in.MaxUtilization = maxUtilization
	}

	start := time.Now()
	sol, err := opt.Optimize(in)
	if err != nil {
		fmt.Printf("Error optimizing: %v\n", err)
		os.Exit(1)
	}
	metrics.OptimizerDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.OptimizerIterations.Observe(float64(sol.Iterations))

	switch format {
	case "json":
		fmt.Print(formatter.FormatSolutionJSON(sol))
	case "csv":
		fmt.Println("Error: -format csv supports full reports only")
		os.Exit(1)
	default: // "text"
		fmt.Print(formatter.FormatSolutionText(sol))
	}
}

func runSweep(params *config.Params, log zerolog.Logger, param, rawValues, format string) {
	if rawValues == "" {
		fmt.Println("Error: -sweep requires -sweep-values")
		os.Exit(1)
	}
	values, err := parseSweepValues(rawValues)
	if err != nil {
		fmt.Printf("Error parsing sweep values: %v\n", err)
		os.Exit(1)
	}

	opt, err := optimizer.New(params, optimizer.WithLogger(log))
	if err != nil {
		fmt.Printf("Error building optimizer: %v\n", err)
		os.Exit(1)
	}
	table, err := opt.SensitivityAnalysis(param, values)
	if err != nil {
		fmt.Printf("Error running sensitivity analysis: %v\n", err)
		os.Exit(1)
	}

	switch format {
	case "json":
		fmt.Print(formatter.FormatSensitivityJSON(table))
	case "csv":
		fmt.Println("Error: -format csv supports full reports only")
		os.Exit(1)
	default: // "text"
		fmt.Print(formatter.FormatSensitivityText(table))
	}
}

func parseSweepValues(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
