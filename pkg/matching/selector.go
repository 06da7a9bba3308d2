package matching

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/models"
)

// CandidateSource fetches voter records sharing any of the given
// blocking keys, with the dataset's geographic filters already
// applied. Implementations must return ErrDatasetUnavailable (wrapped
// or direct) when the backing dataset cannot be read, and an empty
// slice (not an error) when nothing matches.
//
// The engine calls this once per batch with the union of every
// entry's blocking keys, so implementations should batch their reads:
// one query per distinct key set, not one per person.
type CandidateSource interface {
	FetchByBlockingKeys(ctx context.Context, tenantID string, assignment models.DatasetAssignment, keys []BlockingKey) ([]models.VoterRecord, error)
}
