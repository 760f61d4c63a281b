package scripting

import "github.com/dop251/goja"

// Variables is the table state passed to dobet() and the values the script
// may set in response. Scripts only ever write nextbet and running; the rest
// is refreshed by the session before every call.
type Variables struct {
	Balance     float64 `json:"balance"`
	NextBet     float64 `json:"nextbet"`
	BaseBet     float64 `json:"basebet"`
	PreviousBet float64 `json:"previousbet"`
	Win         bool    `json:"win"`
	LastProfit  float64 `json:"lastprofit"`

	RunningCount int     `json:"runningcount"`
	TrueCount    float64 `json:"truecount"`

	Rounds  int     `json:"rounds"`
	Profit  float64 `json:"profit"`
	Running bool    `json:"running"`
}

func injectVariables(vm *goja.Runtime, vars *Variables) {
	vm.Set("balance", vars.Balance)
	vm.Set("nextbet", vars.NextBet)
	vm.Set("basebet", vars.BaseBet)
	vm.Set("previousbet", vars.PreviousBet)
	vm.Set("win", vars.Win)
	vm.Set("lastprofit", vars.LastProfit)

	vm.Set("runningcount", vars.RunningCount)
	vm.Set("truecount", vars.TrueCount)

	vm.Set("rounds", vars.Rounds)
	vm.Set("profit", vars.Profit)
	vm.Set("running", vars.Running)
}

// syncFromVM reads back only what scripts are allowed to modify.
func syncFromVM(vm *goja.Runtime, vars *Variables) {
	vars.NextBet = toFloat64(vm.Get("nextbet"))
	vars.Running = toBool(vm.Get("running"))
}

func toFloat64(v goja.Value) float64 {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	return v.ToFloat()
}

func toBool(v goja.Value) bool {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return false
	}
	return v.ToBoolean()
}
