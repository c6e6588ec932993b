package dv

import (
	"context"
	"strings"
	"time"

	dverrors "go-dvms/internal/dv/errors"
	"go-dvms/internal/shared/apperror"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Identity is the acting user, passed explicitly into every operation instead
// of being read from ambient state.
type Identity struct {
	ID   uint
	Role string
}

// PolicyChecker decides whether a role may drive a status transition.
type PolicyChecker interface {
	CanTransition(role, fromStatus, action string) bool
}

// Config toggles behavior that intentionally diverges from the legacy system.
// StrictTransitions confines generic updates to the lifecycle edges; the
// default (false) reproduces the original arbitrary-overwrite behavior.
type Config struct {
	StrictTransitions bool
}

type Service interface {
	List(ctx context.Context, q ListDVQuery) ([]DVResponse, int64, error)
	Create(ctx context.Context, actor Identity, req CreateDVRequest) (DVResponse, error)
	Get(ctx context.Context, id uint) (DVResponse, error)
	Update(ctx context.Context, actor Identity, id uint, req UpdateDVRequest) (DVResponse, error)
	Delete(ctx context.Context, id uint) error
	Approve(ctx context.Context, actor Identity, id uint) (DVResponse, error)
	Disapprove(ctx context.Context, actor Identity, id uint, remarks string) (DVResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	policy PolicyChecker
	cfg    Config
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, policy PolicyChecker, cfg Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("dv.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dv.service")
	}
	return &service{db: db, repo: repo, policy: policy, cfg: cfg, logger: l}
}

func (s *service) List(ctx context.Context, q ListDVQuery) ([]DVResponse, int64, error) {
	// An unknown status filter is ignored rather than rejected.
	if q.Status != "" && !ValidStatus(q.Status) {
		q.Status = ""
	}
	if q.Page < 1 {
		q.Page = 1
	}

	dvs, total, err := s.repo.Search(ctx, q)
	if err != nil {
		s.logger.Error("list dvs search failed", zap.Error(err))
		return nil, 0, err
	}
	return mapToListResponse(dvs), total, nil
}

func (s *service) Create(ctx context.Context, actor Identity, req CreateDVRequest) (DVResponse, error) {
	s.logger.Debug("create dv requested",
		zap.Uint("actor_id", actor.ID),
		zap.String("dv_number", req.DVNumber),
	)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create dv begin tx failed", zap.Error(tx.Error))
		return DVResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	fields := map[string]string{}
	dvDate := validateDate(req.DVDate, fields)
	if req.Amount == nil {
		fields["amount"] = "Amount is required"
	} else {
		validateAmount(*req.Amount, fields)
	}
	if strings.TrimSpace(req.Payee) == "" {
		fields["payee"] = dverrors.MsgPayeeRequired
	}
	if strings.TrimSpace(req.Particulars) == "" {
		fields["particulars"] = dverrors.MsgParticularsBlank
	}

	taken, err := qtx.DVNumberExists(ctx, req.DVNumber, nil)
	if err != nil {
		s.logger.Error("create dv uniqueness check failed", zap.Error(err))
		return DVResponse{}, err
	}
	if taken {
		fields["dv_number"] = dverrors.MsgDVNumberTaken
	}

	if len(fields) > 0 {
		s.logger.Warn("create dv validation failed", zap.Any("fields", fields))
		return DVResponse{}, apperror.Validation(fields)
	}

	status := req.Status
	if status == "" {
		status = StatusDraft
	}

	d := &DV{
		DVNumber:      req.DVNumber,
		DVDate:        dvDate,
		Payee:         req.Payee,
		Particulars:   req.Particulars,
		Amount:        req.Amount.Round(2),
		Status:        status,
		OfficeCode:    req.OfficeCode,
		CreatedBy:     actor.ID,
		VoucherNumber: req.VoucherNumber,
		AccountCode:   req.AccountCode,
		Remarks:       req.Remarks,
	}

	if err := qtx.Create(ctx, d); err != nil {
		s.logger.Error("create dv persist failed", zap.Error(err))
		return DVResponse{}, mapRepositoryError(err)
	}

	created, err := qtx.FindByID(ctx, d.ID)
	if err != nil {
		return DVResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create dv commit failed", zap.Error(err))
		return DVResponse{}, err
	}
	s.logger.Info("create dv success",
		zap.Uint("dv_id", d.ID),
		zap.String("dv_number", d.DVNumber),
		zap.String("status", d.Status),
	)

	return mapToResponse(*created), nil
}

func (s *service) Get(ctx context.Context, id uint) (DVResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DVResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*d), nil
}

func (s *service) Update(ctx context.Context, actor Identity, id uint, req UpdateDVRequest) (DVResponse, error) {
	s.logger.Debug("update dv requested",
		zap.Uint("dv_id", id),
		zap.Uint("actor_id", actor.ID),
	)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("update dv begin tx failed", zap.Error(tx.Error))
		return DVResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d, err := qtx.FindByID(ctx, id)
	if err != nil {
		return DVResponse{}, mapRepositoryError(err)
	}

	fields := map[string]string{}
	var dvDate time.Time

	if req.DVNumber != nil {
		if strings.TrimSpace(*req.DVNumber) == "" {
			fields["dv_number"] = dverrors.MsgDVNumberRequired
		} else if *req.DVNumber != d.DVNumber {
			taken, err := qtx.DVNumberExists(ctx, *req.DVNumber, &id)
			if err != nil {
				s.logger.Error("update dv uniqueness check failed", zap.Error(err))
				return DVResponse{}, err
			}
			if taken {
				fields["dv_number"] = dverrors.MsgDVNumberTaken
			}
		}
	}
	if req.DVDate != nil {
		dvDate = validateDate(*req.DVDate, fields)
	}
	if req.Payee != nil && strings.TrimSpace(*req.Payee) == "" {
		fields["payee"] = dverrors.MsgPayeeRequired
	}
	if req.Particulars != nil && strings.TrimSpace(*req.Particulars) == "" {
		fields["particulars"] = dverrors.MsgParticularsBlank
	}
	if req.Amount != nil {
		validateAmount(*req.Amount, fields)
	}
	if req.ApprovedBy != nil {
		exists, err := qtx.UserExists(ctx, *req.ApprovedBy)
		if err != nil {
			s.logger.Error("update dv approver check failed", zap.Error(err))
			return DVResponse{}, err
		}
		if !exists {
			fields["approved_by"] = dverrors.MsgApproverUnknown
		}
	}

	if len(fields) > 0 {
		s.logger.Warn("update dv validation failed",
			zap.Uint("dv_id", id),
			zap.Any("fields", fields),
		)
		return DVResponse{}, apperror.Validation(fields)
	}

	if req.Status != nil && *req.Status != d.Status {
		action := TransitionAction(*req.Status)
		if !s.policy.CanTransition(actor.Role, d.Status, action) {
			s.logger.Warn("update dv transition forbidden",
				zap.Uint("dv_id", id),
				zap.String("role", actor.Role),
				zap.String("from_status", d.Status),
				zap.String("to_status", *req.Status),
			)
			return DVResponse{}, dverrors.ErrTransitionForbidden
		}
		if s.cfg.StrictTransitions && !AllowedTransition(d.Status, *req.Status) {
			return DVResponse{}, dverrors.ErrInvalidStatusTransition
		}
	}

	if req.DVNumber != nil {
		d.DVNumber = *req.DVNumber
	}
	if req.DVDate != nil {
		d.DVDate = dvDate
	}
	if req.Payee != nil {
		d.Payee = *req.Payee
	}
	if req.Particulars != nil {
		d.Particulars = *req.Particulars
	}
	if req.Amount != nil {
		d.Amount = req.Amount.Round(2)
	}
	if req.Status != nil {
		d.Status = *req.Status
	}
	if req.OfficeCode != nil {
		d.OfficeCode = req.OfficeCode
	}
	if req.ApprovedBy != nil {
		d.ApprovedBy = req.ApprovedBy
	}
	if req.VoucherNumber != nil {
		d.VoucherNumber = req.VoucherNumber
	}
	if req.AccountCode != nil {
		d.AccountCode = req.AccountCode
	}
	if req.Remarks != nil {
		d.Remarks = req.Remarks
	}

	if err := qtx.Update(ctx, d); err != nil {
		s.logger.Error("update dv persist failed", zap.Uint("dv_id", id), zap.Error(err))
		return DVResponse{}, mapRepositoryError(err)
	}

	updated, err := qtx.FindByID(ctx, id)
	if err != nil {
		return DVResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("update dv commit failed", zap.Uint("dv_id", id), zap.Error(err))
		return DVResponse{}, err
	}
	s.logger.Info("update dv success",
		zap.Uint("dv_id", id),
		zap.String("status", d.Status),
	)

	return mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rows, err := qtx.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete dv failed", zap.Uint("dv_id", id), zap.Error(err))
		return err
	}
	if rows == 0 {
		return dverrors.ErrDVNotFound
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}
	s.logger.Info("delete dv success", zap.Uint("dv_id", id))
	return nil
}

// Approve sets status=approved and records the acting user, regardless of the
// record's prior status. The named transitions carry the semantic intent; the
// strict-transition switch constrains only generic updates.
func (s *service) Approve(ctx context.Context, actor Identity, id uint) (DVResponse, error) {
	return s.transitionStatus(ctx, actor, id, StatusApproved, nil)
}

func (s *service) Disapprove(ctx context.Context, actor Identity, id uint, remarks string) (DVResponse, error) {
	if strings.TrimSpace(remarks) == "" {
		return DVResponse{}, apperror.Validation(map[string]string{
			"remarks": dverrors.MsgRemarksRequired,
		})
	}
	return s.transitionStatus(ctx, actor, id, StatusDisapproved, &remarks)
}

func (s *service) transitionStatus(ctx context.Context, actor Identity, id uint, targetStatus string, remarks *string) (DVResponse, error) {
	s.logger.Debug("transition dv status requested",
		zap.Uint("dv_id", id),
		zap.Uint("actor_id", actor.ID),
		zap.String("target_status", targetStatus),
	)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("transition dv status begin tx failed", zap.Error(tx.Error))
		return DVResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d, err := qtx.FindByID(ctx, id)
	if err != nil {
		return DVResponse{}, mapRepositoryError(err)
	}

	action := TransitionAction(targetStatus)
	if !s.policy.CanTransition(actor.Role, d.Status, action) {
		s.logger.Warn("transition dv status forbidden",
			zap.Uint("dv_id", id),
			zap.String("role", actor.Role),
			zap.String("action", action),
		)
		return DVResponse{}, dverrors.ErrTransitionForbidden
	}

	d.Status = targetStatus
	switch targetStatus {
	case StatusApproved:
		d.ApprovedBy = &actor.ID
	case StatusDisapproved:
		// approved_by is deliberately left as-is; only remarks change.
		d.Remarks = remarks
	}

	if err := qtx.Update(ctx, d); err != nil {
		s.logger.Error("transition dv status persist failed",
			zap.Uint("dv_id", id),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return DVResponse{}, mapRepositoryError(err)
	}

	updated, err := qtx.FindByID(ctx, id)
	if err != nil {
		return DVResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("transition dv status commit failed", zap.Uint("dv_id", id), zap.Error(err))
		return DVResponse{}, err
	}
	s.logger.Info("transition dv status success",
		zap.Uint("dv_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*updated), nil
}

func validateDate(v string, fields map[string]string) time.Time {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		fields["dv_date"] = dverrors.MsgDVDateInvalid
		return time.Time{}
	}
	return t
}

// amountCeiling is 10^13: the column holds 13 integer digits plus 2 decimals.
var amountCeiling = decimal.New(1, 13)

func validateAmount(d decimal.Decimal, fields map[string]string) {
	if d.Sign() < 0 {
		fields["amount"] = dverrors.MsgAmountNegative
		return
	}
	if d.GreaterThanOrEqual(amountCeiling) {
		fields["amount"] = dverrors.MsgAmountTooLarge
	}
}

func mapToResponse(d DV) DVResponse {
	resp := DVResponse{
		ID:            d.ID,
		DVNumber:      d.DVNumber,
		DVDate:        d.DVDate.Format("2006-01-02"),
		Payee:         d.Payee,
		Particulars:   d.Particulars,
		Amount:        d.Amount.StringFixed(2),
		Status:        d.Status,
		OfficeCode:    d.OfficeCode,
		CreatedBy:     d.CreatedBy,
		ApprovedBy:    d.ApprovedBy,
		VoucherNumber: d.VoucherNumber,
		AccountCode:   d.AccountCode,
		Remarks:       d.Remarks,
		CreatedAt:     d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     d.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if d.Creator != nil {
		resp.Creator = &DVUserResponse{ID: d.Creator.ID, Name: d.Creator.Name}
	}
	if d.Approver != nil {
		resp.Approver = &DVUserResponse{ID: d.Approver.ID, Name: d.Approver.Name}
	}
	return resp
}

func mapToListResponse(dvs []DV) []DVResponse {
	resp := make([]DVResponse, len(dvs))
	for i, d := range dvs {
		resp[i] = mapToResponse(d)
	}
	return resp
}
