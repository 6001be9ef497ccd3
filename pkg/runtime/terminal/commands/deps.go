package commands

import (
	"github.com/sarafti/sarafti/pkg/runtime/terminal/export"
	"github.com/sarafti/sarafti/pkg/services/scoring"
	restaurantstore "github.com/sarafti/sarafti/pkg/store/sqlite/restaurant"
	submissionstore "github.com/sarafti/sarafti/pkg/store/sqlite/submission"
)

// Deps is the shared wiring every command receives.
type Deps struct {
	Restaurants restaurantstore.Store
	Submissions submissionstore.Store
	Recalc      *scoring.Recalculator
	Reporter    *export.Reporter
}
