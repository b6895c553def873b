package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"encoding/json"
	"time"

	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
)

// Store is the persistence port. Stores return sentinel errors; the service
// maps them to coded errors.
type Store interface {
	Create(ctx context.Context, check *models.RegisterCheck) error
	Save(ctx context.Context, check *models.RegisterCheck) error
	FindByCorrelationID(ctx context.Context, correlationID id.CorrelationID) (*models.RegisterCheck, error)
	FindBySourceCorrelationID(ctx context.Context, sourceType models.SourceType, sourceCorrelationID string) (*models.RegisterCheck, error)
	FindPending(ctx context.Context, codes []id.JurisdictionCode, limit int) ([]*models.RegisterCheck, error)
	DeleteBySourceReference(ctx context.Context, sourceType models.SourceType, sourceReference string, code id.JurisdictionCode) (int, error)
	SaveResultData(ctx context.Context, correlationID id.CorrelationID, payload []byte, now time.Time) error
	ArchiveBefore(ctx context.Context, cutoff, now time.Time) (int, error)
}

// AuthorityResolver maps a caller credential to its authority.
type AuthorityResolver interface {
	ResolveAuthority(ctx context.Context, credential string) (id.AuthorityID, error)
}

// JurisdictionLookup lists the codes an authority administers.
type JurisdictionLookup interface {
	JurisdictionsFor(ctx context.Context, authority id.AuthorityID) ([]id.JurisdictionCode, error)
}

// Publisher sends finalized results and replication events.
type Publisher interface {
	PublishResult(ctx context.Context, evt models.FinalizedResult) error
	Replicate(ctx context.Context, raw json.RawMessage, correlationID id.CorrelationID) error
	ForwardRemoval(ctx context.Context, raw json.RawMessage, sourceReference string) error
}
