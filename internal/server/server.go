package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/salary-tax-compare/internal/compare"
	"github.com/iwvelando/salary-tax-compare/internal/currency"
	"github.com/iwvelando/salary-tax-compare/internal/tax"
	"github.com/iwvelando/salary-tax-compare/pkg/constants"
	"github.com/iwvelando/salary-tax-compare/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger      *zap.Logger
	comparator  *compare.Comparator
	source      compare.TaxConfigSource
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the web UI and comparison API.
func NewHandler(logger *zap.Logger, comparator *compare.Comparator, source compare.TaxConfigSource, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		comparator:  comparator,
		source:      source,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	mux := http.NewServeMux()

	// Comparison API endpoint
	mux.HandleFunc("/api/compare", h.handleCompare)

	// Active tax configuration, for display
	mux.HandleFunc("/api/config", h.handleConfig)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	fileServer := http.FileServer(http.FS(sub))
	mux.Handle("/", fileServer)

	return mux
}

type compareRequest struct {
	Salary   *float64 `json:"salary"`
	Period   string   `json:"period"`
	Currency string   `json:"currency"`
}

type compareResponse struct {
	output.Summary
	CSV      string `json:"csv"`
	Duration string `json:"duration"`
}

type slabResponse struct {
	Limit interface{} `json:"limit" yaml:"limit"`
	Rate  float64     `json:"rate" yaml:"rate"`
}

type settingsResponse struct {
	RebateLimit  float64 `json:"rebate_limit" yaml:"rebate_limit"`
	RebateAmount float64 `json:"rebate_amount" yaml:"rebate_amount"`
	CessRate     float64 `json:"cess_rate" yaml:"cess_rate"`
	USDINR       float64 `json:"usd_inr" yaml:"usd_inr"`
}

type configResponse struct {
	TaxSlabs   []slabResponse   `json:"tax_slabs"`
	TaxConfig  settingsResponse `json:"tax_config"`
	ConfigYAML string           `json:"configYaml"`
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var payload compareRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	if payload.Salary == nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing salary", op)
		return
	}
	if payload.Period == "" {
		payload.Period = constants.PeriodAnnual
	}
	if payload.Currency == "" {
		payload.Currency = constants.CurrencyINR
	}

	period, err := currency.ParsePeriod(payload.Period)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	cur, err := currency.ParseCurrency(payload.Currency)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.DefaultRequestTimeout)
	defer cancel()

	report, err := h.comparator.Compare(ctx, compare.Request{
		Salary:   *payload.Salary,
		Period:   period,
		Currency: cur,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, tax.ErrInvalidIncome), errors.Is(err, currency.ErrInvalidPeriod), errors.Is(err, currency.ErrUnsupportedCurrency):
			status = http.StatusBadRequest
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			status = http.StatusServiceUnavailable
		}
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	response := compareResponse{
		Summary:  output.Summarize(report),
		CSV:      output.CsvString(report),
		Duration: elapsed.String(),
	}

	h.logger.Info("comparison served",
		zap.String("op", op),
		zap.Bool("requiredCTC", report.HasRequiredCTC),
		zap.Int("warnings", len(report.Warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfig"

	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	cfg := h.source.TaxConfig()
	if cfg == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "no tax configuration loaded", op)
		return
	}

	slabs := make([]slabResponse, 0, len(cfg.Slabs))
	for _, slab := range cfg.Slabs {
		var limit interface{} = slab.UpperBound
		if math.IsInf(slab.UpperBound, 1) {
			limit = "inf"
		}
		slabs = append(slabs, slabResponse{Limit: limit, Rate: slab.Rate})
	}
	settings := settingsResponse{
		RebateLimit:  cfg.RebateLimit,
		RebateAmount: cfg.RebateAmount,
		CessRate:     cfg.CessRate,
		USDINR:       cfg.USDToINRFallback,
	}

	yamlBytes, err := yaml.Marshal(orderedConfig{items: []orderedItem{
		{key: "tax_slabs", value: slabs},
		{key: "tax_config", value: settings},
	}})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, configResponse{
		TaxSlabs:   slabs,
		TaxConfig:  settings,
		ConfigYAML: string(yamlBytes),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
