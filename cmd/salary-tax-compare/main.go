package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/salary-tax-compare/internal/compare"
	"github.com/iwvelando/salary-tax-compare/internal/config"
	"github.com/iwvelando/salary-tax-compare/internal/currency"
	"github.com/iwvelando/salary-tax-compare/pkg/constants"
	"github.com/iwvelando/salary-tax-compare/pkg/output"
	"github.com/iwvelando/salary-tax-compare/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, yaml")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	salary := flag.Float64("salary", 0, "salary amount")
	period := flag.String("period", constants.PeriodAnnual, "salary period: Annual or Monthly")
	currencyFlag := flag.String("currency", constants.CurrencyINR, "salary currency: INR or USD")
	flag.Parse()

	// A missing .env file is not an error; the key may come from the environment.
	_ = godotenv.Load()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	salaryPeriod, err := currency.ParsePeriod(*period)
	if err != nil {
		logger.Fatal("invalid salary period",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	salaryCurrency, err := currency.ParseCurrency(*currencyFlag)
	if err != nil {
		logger.Fatal("invalid salary currency",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	converter := currency.NewConverter(logger, conf.Currency.NewRateClient(logger), conf.TaxConfig().USDToINRFallback)
	comparator := compare.NewComparator(logger, compare.StaticConfig{Config: conf.TaxConfig()}, converter)

	report, err := comparator.Compare(context.Background(), compare.Request{
		Salary:   *salary,
		Period:   salaryPeriod,
		Currency: salaryCurrency,
	})
	if err != nil {
		logger.Fatal("failed to compare tax regimes",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	for _, warning := range report.Warnings {
		fmt.Fprintln(os.Stderr, warning)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, report)
	case constants.OutputFormatCSV:
		output.CsvFormat(os.Stdout, report)
	case constants.OutputFormatYAML:
		if err := output.YAMLFormat(os.Stdout, report); err != nil {
			logger.Fatal("failed to write YAML output",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}
