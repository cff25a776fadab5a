package domain

// EffectType represents a side effect the enforcement controller must perform.
type EffectType string

const (
	EffectStartEnforcement EffectType = "StartEnforcement"
	EffectStopEnforcement  EffectType = "StopEnforcement"
	EffectShowNotification EffectType = "ShowNotification"
	EffectHideNotification EffectType = "HideNotification"
)

// Effect is produced by Transition without being executed.
type Effect struct {
	Type EffectType
}

// Transition returns the effects required when the registry size changes
// from before to after. Start/stop are emitted only on Idle<->Enforcing edges;
// notification visibility is re-evaluated on every mutation.
func Transition(before, after int) []Effect {
	var effects []Effect
	wasEnforcing, enforcing := IsEnforcing(before), IsEnforcing(after)
	switch {
	case !wasEnforcing && enforcing:
		effects = append(effects, Effect{Type: EffectStartEnforcement})
	case wasEnforcing && !enforcing:
		effects = append(effects, Effect{Type: EffectStopEnforcement})
	}
	if enforcing {
		effects = append(effects, Effect{Type: EffectShowNotification})
	} else {
		effects = append(effects, Effect{Type: EffectHideNotification})
	}
	return effects
}
