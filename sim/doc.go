// Package sim provides the deterministic day-by-day inventory simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - config.go: SimulationConfig, policy variants and validation
//   - policy.go: ReplenishmentPolicy (when to order, how much, when it arrives)
//   - simulator.go: the day loop (deliveries, consumption, stockout, threshold, order)
//
// # Architecture
//
// The sim package holds the engine and its data contracts; consumers live in
// sub-packages:
//   - sim/trend/: trailing-window trend classification and viability checks
//   - sim/optimize/: boundary search over consumption and delivery capacity
//   - sim/analysis/: single-run diagnostics, risks and stability solutions
//   - sim/trace/: optional record of every trial a search simulates
//
// Every run is a pure function of its SimulationConfig: there is no randomness,
// no wall-clock dependency and no package-level mutable state, so callers may run
// many simulations in parallel.
//
// # Policy Variants
//
// Behaviors that differ between stock-keeping setups are explicit config enums:
//   - OutstandingPolicy: single-outstanding (default) or multiple-outstanding
//   - OverflowPolicy: clamp (default), defer or allow-overflow
//   - LeadTimeMode: calendar-days (default) or working-days
package sim
