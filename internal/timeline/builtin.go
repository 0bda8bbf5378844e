package timeline

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnknownPlan indicates a plan name that is not registered.
var ErrUnknownPlan = errors.New("unknown plan")

const ms = time.Millisecond

// Built-in plan names, one per loading-screen skin.
const (
	QuantumGrid = "quantum-grid"
	Quantum     = "quantum"
	Cyber       = "cyber"
	CodePhase   = "codephase"
	Website     = "website"
)

// Stages of the quantum-grid plan.
const (
	StageGrid     Stage = "grid"
	StageComputer Stage = "computer"
	StageBlast    Stage = "blast"
	StageBinary   Stage = "binary"
	StageAlign    Stage = "align"
	StageFade     Stage = "fade"
	StageComplete Stage = "complete"
)

// Stages of the quantum plan. Each adds one boot line.
const (
	StageDormant     Stage = "dormant"
	StageField       Stage = "field"
	StageAwakening   Stage = "awakening"
	StageProtocols   Stage = "protocols"
	StageSync        Stage = "sync"
	StageMaterialize Stage = "materialize"
)

// Stages of the cyber plan.
const (
	StageFirewall Stage = "firewall"
	StageMacbook  Stage = "macbook"
	StageAttack   Stage = "attack"
	StageBreach   Stage = "breach"
)

// Stages of the codephase plan.
const (
	StageCode   Stage = "code"
	StageHTML   Stage = "html"
	StageStyled Stage = "styled"
)

// Stages of the website plan. The swoop stages are the wipe between phases.
const (
	StageDeveloper  Stage = "developer"
	StageSwoopHTML  Stage = "swoop-html"
	StageSwoopFinal Stage = "swoop-final"
	StageFinal      Stage = "final"
)

var builtins = map[string]Plan{
	QuantumGrid: MustPlan(QuantumGrid, []Entry{
		{At: 0, Stage: StageGrid, Caption: "Initializing Quantum Field..."},
		{At: 1500 * ms, Stage: StageComputer, Caption: "Quantum Computer Online"},
		{At: 4000 * ms, Stage: StageBlast, Caption: "Quantum Superposition Activated"},
		{At: 5000 * ms, Stage: StageBinary, Caption: "Processing Quantum States..."},
		{At: 7000 * ms, Stage: StageAlign, Caption: "Resolving Superposition..."},
		{At: 9000 * ms, Stage: StageFade, Caption: "Welcome"},
		{At: 10500 * ms, Stage: StageComplete, Caption: "Welcome"},
	}),
	Quantum: MustPlan(Quantum, []Entry{
		{At: 0, Stage: StageDormant, Caption: ""},
		{At: 500 * ms, Stage: StageField, Caption: "Quantum field activated..."},
		{At: 1200 * ms, Stage: StageAwakening, Caption: "AI consciousness awakening..."},
		{At: 2000 * ms, Stage: StageProtocols, Caption: "Cybersecurity protocols loading..."},
		{At: 2800 * ms, Stage: StageSync, Caption: "System synchronization complete..."},
		{At: 3600 * ms, Stage: StageMaterialize, Caption: "Reality materializing..."},
		{At: 4000 * ms, Stage: StageComplete, Caption: "Reality materializing..."},
	}),
	Cyber: MustPlan(Cyber, []Entry{
		{At: 0, Stage: StageFirewall, Caption: "INITIALIZING FIREWALL DEFENSE SYSTEM..."},
		{At: 3000 * ms, Stage: StageMacbook, Caption: "UNAUTHORIZED ACCESS DETECTED..."},
		{At: 5000 * ms, Stage: StageAttack, Caption: "PAYLOAD INJECTION IN PROGRESS..."},
		{At: 7000 * ms, Stage: StageBreach, Caption: "FIREWALL BREACHED - DATA EXTRACTING..."},
		{At: 9000 * ms, Stage: StageComplete, Caption: "SYSTEM COMPROMISED - ACCESS GRANTED"},
	}),
	CodePhase: MustPlan(CodePhase, []Entry{
		{At: 0, Stage: StageCode, Caption: "compiling portfolio"},
		{At: 2000 * ms, Stage: StageHTML, Caption: "rendering markup"},
		{At: 4000 * ms, Stage: StageStyled, Caption: "applying styles"},
		{At: 6000 * ms, Stage: StageComplete, Caption: ""},
	}),
	Website: MustPlan(Website, []Entry{
		{At: 0, Stage: StageDeveloper, Caption: "developer view"},
		{At: 2500 * ms, Stage: StageSwoopHTML, Caption: ""},
		{At: 3300 * ms, Stage: StageHTML, Caption: "markup view"},
		{At: 5800 * ms, Stage: StageSwoopFinal, Caption: ""},
		{At: 6600 * ms, Stage: StageFinal, Caption: ""},
	}),
}

// Builtin returns the built-in plan registered under name.
func Builtin(name string) (Plan, error) {
	p, ok := builtins[name]
	if !ok {
		return Plan{}, fmt.Errorf("%q: %w", name, ErrUnknownPlan)
	}
	return p, nil
}

// BuiltinNames returns the built-in plan names in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
