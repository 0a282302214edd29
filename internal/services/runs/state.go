package runs

import (
	"fmt"

	"github.com/wasper/research-api/internal/models"
	"github.com/wasper/research-api/internal/services/apify"
	apperrors "github.com/wasper/research-api/pkg/errors"
)

// vendorStates maps vendor run statuses onto local states
var vendorStates = map[string]models.RunStatus{
	apify.StatusReady:     models.RunStatusPending,
	apify.StatusRunning:   models.RunStatusRunning,
	apify.StatusTimingOut: models.RunStatusRunning,
	apify.StatusAborting:  models.RunStatusRunning,
	apify.StatusSucceeded: models.RunStatusSucceeded,
	apify.StatusFailed:    models.RunStatusFailed,
	apify.StatusAborted:   models.RunStatusFailed,
	apify.StatusTimedOut:  models.RunStatusFailed,
}

// transitions lists the states reachable from each non-terminal state
var transitions = map[models.RunStatus][]models.RunStatus{
	models.RunStatusPending: {
		models.RunStatusPending,
		models.RunStatusRunning,
		models.RunStatusSucceeded,
		models.RunStatusFailed,
		models.RunStatusTimedOut,
	},
	models.RunStatusRunning: {
		models.RunStatusRunning,
		models.RunStatusSucceeded,
		models.RunStatusFailed,
		models.RunStatusTimedOut,
	},
}

// mapVendorStatus resolves a vendor status. Unknown or empty statuses are an upstream fault.
func mapVendorStatus(vendor string) (models.RunStatus, error) {
	status, ok := vendorStates[vendor]
	if !ok {
		return "", apperrors.UpstreamUnavailable("run status",
			fmt.Errorf("unrecognized run status %q", vendor))
	}
	return status, nil
}

func canTransition(from, to models.RunStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// advance moves a handle to the observed state. A vendor report that would move a
// running handle back to pending leaves it running; terminal states never change.
func advance(current, observed models.RunStatus) models.RunStatus {
	if current == "" {
		current = models.RunStatusPending
	}
	if canTransition(current, observed) {
		return observed
	}
	return current
}
