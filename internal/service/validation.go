package service

import "github.com/VibeBuddies/vibecheck-service/internal/apperr"

// rule is one step of an ordered validation pipeline: rules are evaluated in
// sequence and the first violated one decides the failure message. The order
// of the rules is part of each operation's contract.
type rule struct {
	ok      func() bool
	message string
}

func firstViolation(rules []rule) error {
	for _, r := range rules {
		if !r.ok() {
			return apperr.New(apperr.InvalidArgument, r.message)
		}
	}
	return nil
}
