package search

import (
	"errors"
	"fmt"
)

// ChallengeMarker appears in the message of every challenge error.
const ChallengeMarker = "CAPTCHA detected"

// ErrCaptcha matches every challenge error via errors.Is.
// A challenge means the run is inconclusive, not that the page regressed.
var ErrCaptcha = errors.New(ChallengeMarker)

// Stage says where in the workflow a challenge appeared.
type Stage string

const (
	StageInitial      Stage = "on initial load"
	StageBeforeSearch Stage = "before search"
	StageAfterSearch  Stage = "after search"
)

// ChallengeError reports an anti-automation challenge. It is never retried.
type ChallengeError struct {
	Stage Stage
	URL   string
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("%s %s - manual intervention needed", ChallengeMarker, e.Stage)
}

// Is makes errors.Is(err, ErrCaptcha) true for any ChallengeError.
func (e *ChallengeError) Is(target error) bool {
	return target == ErrCaptcha
}

// IsChallenge reports whether err, or any error it wraps, is a challenge.
func IsChallenge(err error) bool {
	return errors.Is(err, ErrCaptcha)
}
