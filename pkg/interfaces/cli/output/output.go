package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/invsim/pkg/application/dto"
	"github.com/vsinha/invsim/pkg/domain/entities"
)

// Formats lists the supported output formats
var Formats = []string{"text", "json"}

// places is the rounding applied to every reported quantity and cost
const places = 2

func round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Config holds configuration for output generation
type Config struct {
	Format string
	Writer io.Writer
	// HistoryFile is reported when a CSV history was written
	HistoryFile string
	// EventCounts holds the number of events of each type emitted by the run
	EventCounts map[string]int
}

func checkFormat(format string) error {
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

// Simulation renders the summary of one run
func Simulation(result *dto.SimulationResult, config Config) error {
	if err := checkFormat(config.Format); err != nil {
		return err
	}
	if config.Format == "json" {
		return writeJSON(config.Writer, simulationJSON(result, config))
	}
	return simulationText(result, config)
}

func simulationText(result *dto.SimulationResult, config Config) error {
	w := &errWriter{w: config.Writer}

	w.printf("Simulation Results\n")
	w.printf("==================\n\n")
	w.printf("Run ID:     %s\n", result.RunID)
	w.printf("Seed:       %d\n", result.Seed)
	w.printf("Periods:    %d\n", result.NumPeriods)
	w.printf("Total Cost: %s\n\n", fixed(result.TotalCost))

	w.printf("%-6s %-16s %12s %12s %12s %12s %9s\n",
		"Node", "Name", "Holding", "Stockout", "In Transit", "Total", "Disrupted")
	w.printf("%s\n", strings.Repeat("-", 85))
	for _, n := range result.Nodes {
		w.printf("%-6d %-16s %12s %12s %12s %12s %9d\n",
			n.NodeID, truncate(n.Name, 16),
			fixed(n.HoldingCost), fixed(n.StockoutCost), fixed(n.InTransitCost), fixed(n.TotalCost),
			n.DisruptedPeriods)
	}
	w.printf("\n")

	w.printf("%-6s %-8s %12s %10s %12s %12s %10s %12s\n",
		"Node", "Product", "Demand", "Fill Rate", "Mean IL", "Ending IL", "Stockouts", "Ordered")
	w.printf("%s\n", strings.Repeat("-", 88))
	for _, n := range result.Nodes {
		for _, p := range n.Products {
			w.printf("%-6d %-8d %12s %10s %12s %12s %10d %12s\n",
				n.NodeID, p.ProductID,
				fixed(p.TotalDemand), fixed(p.FillRate), fixed(p.MeanInventoryLevel),
				fixed(p.EndingInventoryLevel), p.StockoutPeriods, fixed(p.TotalOrdered))
		}
	}

	if len(config.EventCounts) > 0 {
		w.printf("\nEvents:\n")
		for _, t := range sortedKeys(config.EventCounts) {
			w.printf("  %-20s %d\n", t, config.EventCounts[t])
		}
	}
	if config.HistoryFile != "" {
		w.printf("\nHistory written to %s\n", config.HistoryFile)
	}
	return w.err
}

type productJSON struct {
	ProductID            entities.ProductID `json:"product_id"`
	TotalDemand          float64            `json:"total_demand"`
	FillRate             float64            `json:"fill_rate"`
	MeanInventoryLevel   float64            `json:"mean_inventory_level"`
	EndingInventoryLevel float64            `json:"ending_inventory_level"`
	StockoutPeriods      int                `json:"stockout_periods"`
	TotalOrdered         float64            `json:"total_ordered"`
}

type nodeJSON struct {
	NodeID           entities.NodeID `json:"node_id"`
	Name             string          `json:"name,omitempty"`
	HoldingCost      float64         `json:"holding_cost"`
	StockoutCost     float64         `json:"stockout_cost"`
	InTransitCost    float64         `json:"in_transit_cost"`
	TotalCost        float64         `json:"total_cost"`
	DisruptedPeriods int             `json:"disrupted_periods"`
	Products         []productJSON   `json:"products"`
}

type simulationDoc struct {
	RunID       string         `json:"run_id"`
	Seed        uint64         `json:"seed"`
	NumPeriods  int            `json:"num_periods"`
	TotalCost   float64        `json:"total_cost"`
	Nodes       []nodeJSON     `json:"nodes"`
	Events      map[string]int `json:"events,omitempty"`
	HistoryFile string         `json:"history_file,omitempty"`
}

func simulationJSON(result *dto.SimulationResult, config Config) simulationDoc {
	doc := simulationDoc{
		RunID:       result.RunID,
		Seed:        result.Seed,
		NumPeriods:  result.NumPeriods,
		TotalCost:   round(result.TotalCost),
		Nodes:       make([]nodeJSON, 0, len(result.Nodes)),
		Events:      config.EventCounts,
		HistoryFile: config.HistoryFile,
	}
	for _, n := range result.Nodes {
		nj := nodeJSON{
			NodeID:           n.NodeID,
			Name:             n.Name,
			HoldingCost:      round(n.HoldingCost),
			StockoutCost:     round(n.StockoutCost),
			InTransitCost:    round(n.InTransitCost),
			TotalCost:        round(n.TotalCost),
			DisruptedPeriods: n.DisruptedPeriods,
			Products:         make([]productJSON, 0, len(n.Products)),
		}
		for _, p := range n.Products {
			nj.Products = append(nj.Products, productJSON{
				ProductID:            p.ProductID,
				TotalDemand:          round(p.TotalDemand),
				FillRate:             round(p.FillRate),
				MeanInventoryLevel:   round(p.MeanInventoryLevel),
				EndingInventoryLevel: round(p.EndingInventoryLevel),
				StockoutPeriods:      p.StockoutPeriods,
				TotalOrdered:         round(p.TotalOrdered),
			})
		}
		doc.Nodes = append(doc.Nodes, nj)
	}
	return doc
}

type trialJSON struct {
	Trial     int                         `json:"trial"`
	Seed      uint64                      `json:"seed"`
	TotalCost float64                     `json:"total_cost"`
	FillRates map[entities.NodeID]float64 `json:"fill_rates,omitempty"`
}

type trialsDoc struct {
	RunID      string      `json:"run_id"`
	NumTrials  int         `json:"num_trials"`
	NumPeriods int         `json:"num_periods"`
	BaseSeed   uint64      `json:"base_seed"`
	MeanCost   float64     `json:"mean_cost"`
	StdDevCost float64     `json:"stddev_cost"`
	MinCost    float64     `json:"min_cost"`
	MaxCost    float64     `json:"max_cost"`
	Trials     []trialJSON `json:"trials"`
}

// Trials renders the summary of a multi-trial experiment
func Trials(result *dto.TrialsResult, config Config) error {
	if err := checkFormat(config.Format); err != nil {
		return err
	}

	if config.Format == "json" {
		doc := trialsDoc{
			RunID:      result.RunID,
			NumTrials:  result.NumTrials,
			NumPeriods: result.NumPeriods,
			BaseSeed:   result.BaseSeed,
			MeanCost:   round(result.MeanCost),
			StdDevCost: round(result.StdDevCost),
			MinCost:    round(result.MinCost),
			MaxCost:    round(result.MaxCost),
			Trials:     make([]trialJSON, 0, len(result.Trials)),
		}
		for _, tr := range result.Trials {
			rates := make(map[entities.NodeID]float64, len(tr.FillRates))
			for id, r := range tr.FillRates {
				rates[id] = round(r)
			}
			doc.Trials = append(doc.Trials, trialJSON{
				Trial:     tr.Trial,
				Seed:      tr.Seed,
				TotalCost: round(tr.TotalCost),
				FillRates: rates,
			})
		}
		return writeJSON(config.Writer, doc)
	}

	w := &errWriter{w: config.Writer}
	w.printf("Trial Results\n")
	w.printf("=============\n\n")
	w.printf("Run ID:    %s\n", result.RunID)
	w.printf("Trials:    %d x %d periods (base seed %d)\n\n", result.NumTrials, result.NumPeriods, result.BaseSeed)
	w.printf("Mean Cost: %s\n", fixed(result.MeanCost))
	w.printf("Std Dev:   %s\n", fixed(result.StdDevCost))
	w.printf("Min Cost:  %s\n", fixed(result.MinCost))
	w.printf("Max Cost:  %s\n\n", fixed(result.MaxCost))

	w.printf("%-6s %-22s %12s\n", "Trial", "Seed", "Total Cost")
	w.printf("%s\n", strings.Repeat("-", 42))
	for _, tr := range result.Trials {
		w.printf("%-6d %-22d %12s\n", tr.Trial, tr.Seed, fixed(tr.TotalCost))
	}
	return w.err
}

type validationDoc struct {
	Valid  bool     `json:"valid"`
	Nodes  int      `json:"nodes"`
	Errors []string `json:"errors,omitempty"`
}

// Validation renders the outcome of pre-flight validation
func Validation(nodes int, problems []string, config Config) error {
	if err := checkFormat(config.Format); err != nil {
		return err
	}
	if config.Format == "json" {
		return writeJSON(config.Writer, validationDoc{Valid: len(problems) == 0, Nodes: nodes, Errors: problems})
	}

	w := &errWriter{w: config.Writer}
	if len(problems) == 0 {
		w.printf("Network is valid (%d nodes)\n", nodes)
		return w.err
	}
	w.printf("Network is invalid:\n")
	for _, p := range problems {
		w.printf("  - %s\n", p)
	}
	return w.err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}

// errWriter keeps the first write error so table rendering stays linear
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
