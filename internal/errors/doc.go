// Package errors provides structured error handling for the mission engine.
//
// Every failure surfaced to a caller carries a Code so the presentation
// layer can map it to a user-facing message without string matching:
//
//	mission, err := svc.GenerateMission(ctx, input)
//	if errors.IsResourceExhausted(err) {
//	    // region cooldown still active, tell the player to retry later
//	}
//
// Expected in-battle outcomes (a missed jutsu, an actor out of chakra) are
// not errors; they are ordinary BattleAction results. Errors are reserved
// for structural misuse: unknown participants, techniques the actor cannot
// use, and illegal mission transitions.
package errors
