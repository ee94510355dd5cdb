package view

import (
	"errors"
	"fmt"
	"math"

	"github.com/launchdash/launchdash/pkg/types"
)

// ErrInvalidSelection is matched by every error from Validate.
var ErrInvalidSelection = errors.New("invalid selection")

// Validate checks the shape of a selection arriving from a client. Unknown
// site names are valid; they simply select nothing.
func Validate(sel types.Selection) error {
	if sel.Site == "" {
		return fmt.Errorf("%w: site is empty", ErrInvalidSelection)
	}
	r := sel.Range
	if math.IsNaN(r.Low) || math.IsNaN(r.High) {
		return fmt.Errorf("%w: range bounds must be numbers", ErrInvalidSelection)
	}
	if math.IsInf(r.Low, 0) || math.IsInf(r.High, 0) {
		return fmt.Errorf("%w: range bounds must be finite", ErrInvalidSelection)
	}
	if r.Low > r.High {
		return fmt.Errorf("%w: range low %g is greater than high %g", ErrInvalidSelection, r.Low, r.High)
	}
	return nil
}
