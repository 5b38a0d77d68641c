package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/stocksim/stocksim/sim"
)

// configFlags binds a SimulationConfig to command-line flags.
// The base config comes from --config or --preset (DefaultConfig otherwise);
// a field flag overrides the base only when it was set explicitly.
type configFlags struct {
	configPath   string
	preset       string
	defaultsPath string
	noSalesGate  bool
	values       sim.SimulationConfig
	minStart     float64
	outstanding  string
	overflow     string
	leadTimeMode string
}

func (f *configFlags) register(fs *pflag.FlagSet) {
	def := sim.DefaultConfig()
	fs.StringVar(&f.configPath, "config", "", "Path to a YAML simulation config")
	fs.StringVar(&f.preset, "preset", "", "Name of a preset in the defaults file")
	fs.StringVar(&f.defaultsPath, "defaults", defaultsFilePath, "Path to the defaults file holding presets")

	fs.Float64Var(&f.values.DailyConsumption, "daily-consumption", def.DailyConsumption, "Units consumed per working day")
	fs.Float64Var(&f.values.InitialStock, "initial-stock", def.InitialStock, "Opening stock")
	fs.Float64Var(&f.values.ReorderThreshold, "reorder-threshold", def.ReorderThreshold, "Stock level below which an order is placed")
	fs.Float64Var(&f.values.MaxStock, "max-stock", def.MaxStock, "Storage capacity")
	fs.IntVar(&f.values.MinOrderQuantity, "min-order-quantity", def.MinOrderQuantity, "Smallest order, a multiple of the lot size")
	fs.IntVar(&f.values.MaxOrderQuantity, "max-order-quantity", def.MaxOrderQuantity, "Largest order")
	fs.IntVar(&f.values.LotSize, "lot-size", def.LotSize, "Order granularity")
	fs.IntVar(&f.values.DeliveryLeadTimeDays, "lead-time", def.DeliveryLeadTimeDays, "Days between order and delivery")
	fs.IntVar(&f.values.SimulationDays, "simulation-days", def.SimulationDays, "Simulation horizon in days")
	fs.Float64Var(&f.minStart, "min-stock-to-start-sales", *def.MinStockToStartSales, "Stock needed before sales start when initial stock is 0")
	fs.BoolVar(&f.noSalesGate, "no-sales-gate", false, "Start sales on day one even with an empty initial stock")
	fs.StringVar(&f.values.StartDate, "start-date", def.StartDate, "First simulated day (YYYY-MM-DD)")
	fs.StringVar(&f.outstanding, "outstanding-policy", string(sim.SingleOutstanding),
		"Open order policy ("+strings.Join(sim.OutstandingPolicyNames(), ", ")+")")
	fs.StringVar(&f.overflow, "overflow-policy", string(sim.OverflowClamp),
		"Delivery overflow policy ("+strings.Join(sim.OverflowPolicyNames(), ", ")+")")
	fs.StringVar(&f.leadTimeMode, "lead-time-mode", string(sim.CalendarDays),
		"Lead time counting ("+strings.Join(sim.LeadTimeModeNames(), ", ")+")")
}

// resolve builds the config for fs after parsing. The result is validated.
func (f *configFlags) resolve(fs *pflag.FlagSet) (sim.SimulationConfig, error) {
	if err := f.checkPolicyNames(); err != nil {
		return sim.SimulationConfig{}, err
	}
	cfg, err := f.base()
	if err != nil {
		return sim.SimulationConfig{}, err
	}

	if fs.Changed("daily-consumption") {
		cfg.DailyConsumption = f.values.DailyConsumption
	}
	if fs.Changed("initial-stock") {
		cfg.InitialStock = f.values.InitialStock
	}
	if fs.Changed("reorder-threshold") {
		cfg.ReorderThreshold = f.values.ReorderThreshold
	}
	if fs.Changed("max-stock") {
		cfg.MaxStock = f.values.MaxStock
	}
	if fs.Changed("min-order-quantity") {
		cfg.MinOrderQuantity = f.values.MinOrderQuantity
	}
	if fs.Changed("max-order-quantity") {
		cfg.MaxOrderQuantity = f.values.MaxOrderQuantity
	}
	if fs.Changed("lot-size") {
		cfg.LotSize = f.values.LotSize
	}
	if fs.Changed("lead-time") {
		cfg.DeliveryLeadTimeDays = f.values.DeliveryLeadTimeDays
	}
	if fs.Changed("simulation-days") {
		cfg.SimulationDays = f.values.SimulationDays
	}
	if fs.Changed("min-stock-to-start-sales") {
		v := f.minStart
		cfg.MinStockToStartSales = &v
	}
	if f.noSalesGate {
		cfg.MinStockToStartSales = nil
	}
	if fs.Changed("start-date") {
		cfg.StartDate = f.values.StartDate
	}
	if fs.Changed("outstanding-policy") {
		cfg.OutstandingPolicy = sim.OutstandingPolicy(f.outstanding)
	}
	if fs.Changed("overflow-policy") {
		cfg.OverflowPolicy = sim.OverflowPolicy(f.overflow)
	}
	if fs.Changed("lead-time-mode") {
		cfg.LeadTimeMode = sim.LeadTimeMode(f.leadTimeMode)
	}

	if err := cfg.Validate(); err != nil {
		return sim.SimulationConfig{}, err
	}
	return cfg.Normalized(), nil
}

// checkPolicyNames rejects unknown policy flag values before any config is loaded.
func (f *configFlags) checkPolicyNames() error {
	if !sim.IsValidOutstandingPolicy(f.outstanding) {
		return fmt.Errorf("unknown --outstanding-policy %q; valid: %s", f.outstanding, strings.Join(sim.OutstandingPolicyNames(), ", "))
	}
	if !sim.IsValidOverflowPolicy(f.overflow) {
		return fmt.Errorf("unknown --overflow-policy %q; valid: %s", f.overflow, strings.Join(sim.OverflowPolicyNames(), ", "))
	}
	if !sim.IsValidLeadTimeMode(f.leadTimeMode) {
		return fmt.Errorf("unknown --lead-time-mode %q; valid: %s", f.leadTimeMode, strings.Join(sim.LeadTimeModeNames(), ", "))
	}
	return nil
}

func (f *configFlags) base() (sim.SimulationConfig, error) {
	switch {
	case f.configPath != "" && f.preset != "":
		return sim.SimulationConfig{}, fmt.Errorf("--config and --preset are mutually exclusive")
	case f.configPath != "":
		return sim.LoadConfig(f.configPath)
	case f.preset != "":
		defaults, err := loadDefaultsConfig(f.defaultsPath)
		if err != nil {
			return sim.SimulationConfig{}, err
		}
		return defaults.Preset(f.preset)
	default:
		return sim.DefaultConfig(), nil
	}
}
