package allocator

// Strategy is the policy object parameterizing the allocator core. All
// strategies share the same placement machinery and invariants; the policy
// only selects iteration behavior and which deferral families apply.
type Strategy struct {
	Name string
	// SinglePass stops after one sweep of the date grid; otherwise the
	// sweep repeats with updated participant state until a fixed point or
	// the iteration ceiling.
	SinglePass bool
	// RecoveryChecks enables participant recovery-time deferral and daily
	// limit bookkeeping. The rotation strategy skips both.
	RecoveryChecks bool
	// AssignCourts makes the allocator assign explicit courts and court
	// order at a fixed cadence instead of grid-derived times only.
	AssignCourts bool
}

// The three documented strategies.
var (
	Garman = Strategy{Name: "garman", SinglePass: true, RecoveryChecks: true}
	Jinn   = Strategy{Name: "jinn", RecoveryChecks: true}
	Pro    = Strategy{Name: "pro", SinglePass: true, AssignCourts: true}
)

// Select maps request modifiers to a strategy: pro wins outright;
// garmanSinglePass false forces the iterative mode.
func Select(pro, garmanSinglePass bool) Strategy {
	if pro {
		return Pro
	}
	if !garmanSinglePass {
		return Jinn
	}
	return Garman
}
