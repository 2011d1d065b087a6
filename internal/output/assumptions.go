package output

// DefaultAssumptions lists the modeling assumptions rendered in the detailed
// outputs.
var DefaultAssumptions = []string{
	"Balances are simulated one calendar day at a time from start to end inclusive",
	"Interest compounds daily at the yearly rate divided by 365",
	"Transactions on the same day execute in ascending priority order",
	"Income taxes are settled on December 31st, federal before state",
	"Tax brackets, deductions and credits grow with their configured interest rate",
	"Snapshots and net worth are recorded at each month end",
}
