package commands

import (
	"context"
	"strings"

	"stockflow/internal/domain/company"
	reqdto "stockflow/internal/handler/dto/request"
	"stockflow/internal/infra"
	"stockflow/internal/pkg/errs"
	"stockflow/internal/usecase/shared"
)

var (
	ErrCompanyAlreadyConfigured = errs.New("company is already configured")
	ErrAbbrevNotDerivable       = errs.New("could not derive a company abbreviation")
)

const (
	companyNameKey   = "company_name"
	companyAbbrevKey = "company_abbrev"
)

type SetupCompanyResult struct {
	CompanyName string
	Abbrev      string
	CompanyCode string
}

type SetupCommands interface {
	SetupCompany(ctx context.Context, req reqdto.SetupCompanyRequest) (*SetupCompanyResult, error)
	CompanyInfo(ctx context.Context) (*SetupCompanyResult, error)
}

type setupCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewSetupCommands(uow shared.UnitOfWork) SetupCommands {
	return &setupCommandsImpl{uow: uow}
}

// SetupCompany is one-shot: once a company code exists it never changes,
// because every SKU printed so far embeds it.
func (s *setupCommandsImpl) SetupCompany(ctx context.Context, req reqdto.SetupCompanyRequest) (*SetupCompanyResult, error) {
	if err := s.ensureNotConfigured(ctx); err != nil {
		return nil, err
	}

	abbrev := company.NormalizeAbbrev(req.Abbrev)
	if abbrev == "" {
		abbrev = company.SuggestAbbrev(req.CompanyName)
	}
	if abbrev == "" {
		return nil, ErrAbbrevNotDerivable
	}

	result := &SetupCompanyResult{
		CompanyName: strings.TrimSpace(req.CompanyName),
		Abbrev:      abbrev,
		CompanyCode: company.GenCode(abbrev),
	}

	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		inserted, err := tx.Settings().SetIfAbsent(ctx, tx.DB(), companyCodeKey, result.CompanyCode)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		// The pre-check races with concurrent setups; the conditional
		// insert decides, and the first code stands.
		if !inserted {
			return ErrCompanyAlreadyConfigured
		}
		for key, value := range map[string]string{
			companyNameKey:   result.CompanyName,
			companyAbbrevKey: result.Abbrev,
		} {
			if err := tx.Settings().Set(ctx, tx.DB(), key, value); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *setupCommandsImpl) CompanyInfo(ctx context.Context) (*SetupCompanyResult, error) {
	reads := s.uow.CommandReads()

	code, err := reads.Setting(ctx, companyCodeKey)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCompanyNotConfigured
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	name, err := reads.Setting(ctx, companyNameKey)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	abbrev, err := reads.Setting(ctx, companyAbbrevKey)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &SetupCompanyResult{CompanyName: name, Abbrev: abbrev, CompanyCode: code}, nil
}

func (s *setupCommandsImpl) ensureNotConfigured(ctx context.Context) error {
	_, err := s.uow.CommandReads().Setting(ctx, companyCodeKey)
	if err == nil {
		return ErrCompanyAlreadyConfigured
	}
	if infra.IsKind(err, infra.KindNotFound) {
		return nil
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}
