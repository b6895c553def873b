package service

import (
	"context"
	"slices"

	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
	dErrors "regcheck/pkg/domain-errors"
	"regcheck/pkg/requestcontext"
)

// PendingFor lists PENDING checks the caller may see, oldest first, capped at
// the page size. Requested codes the caller does not administer are ignored;
// no requested codes means every owned jurisdiction.
func (s *Service) PendingFor(ctx context.Context, credential string, requested []id.JurisdictionCode) ([]*models.RegisterCheck, error) {
	authority, err := s.authorities.ResolveAuthority(ctx, credential)
	if err != nil {
		return nil, err
	}
	owned, err := s.jurisdictions.JurisdictionsFor(ctx, authority)
	if err != nil {
		return nil, err
	}

	codes := owned
	if len(requested) > 0 {
		codes = make([]id.JurisdictionCode, 0, len(requested))
		for _, c := range requested {
			if slices.Contains(owned, c) && !slices.Contains(codes, c) {
				codes = append(codes, c)
			}
		}
	}
	if len(codes) == 0 {
		return []*models.RegisterCheck{}, nil
	}

	var checks []*models.RegisterCheck
	err = s.runner.ReadOnly(ctx, func(ctx context.Context) error {
		var findErr error
		checks, findErr = s.store.FindPending(ctx, codes, s.pageSize)
		return findErr
	})
	if err != nil {
		return nil, storeError(err, "list pending register checks")
	}
	s.logger.DebugContext(ctx, "pending register checks listed",
		"request_id", requestcontext.RequestID(ctx),
		"authority_id", authority,
		"jurisdictions", len(codes),
		"returned", len(checks),
	)
	return checks, nil
}

// AdminPending summarises every PENDING check of an authority. It performs no
// caller credential check.
func (s *Service) AdminPending(ctx context.Context, authority id.AuthorityID) ([]models.PendingSummary, error) {
	if authority == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "authority id is required")
	}
	owned, err := s.jurisdictions.JurisdictionsFor(ctx, authority)
	if err != nil {
		return nil, err
	}
	out := make([]models.PendingSummary, 0)
	if len(owned) == 0 {
		return out, nil
	}

	var checks []*models.RegisterCheck
	err = s.runner.ReadOnly(ctx, func(ctx context.Context) error {
		var findErr error
		checks, findErr = s.store.FindPending(ctx, owned, 0)
		return findErr
	})
	if err != nil {
		return nil, storeError(err, "list pending register checks")
	}
	for _, c := range checks {
		out = append(out, models.PendingSummary{
			SourceReference:  c.SourceReference,
			SourceType:       c.SourceType,
			JurisdictionCode: c.JurisdictionCode,
			CreatedAt:        c.CreatedAt,
		})
	}
	return out, nil
}
