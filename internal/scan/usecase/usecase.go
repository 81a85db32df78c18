package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/config"
	"github.com/warekit/rfid-scan-service/internal/model"
	"github.com/warekit/rfid-scan-service/internal/notify"
	"github.com/warekit/rfid-scan-service/internal/receiving"
	"github.com/warekit/rfid-scan-service/internal/sale"
	"github.com/warekit/rfid-scan-service/internal/scan"
	"github.com/warekit/rfid-scan-service/internal/scan/dto"
	"github.com/warekit/rfid-scan-service/internal/session"
	"github.com/warekit/rfid-scan-service/internal/tag"
)

type scanUseCase struct {
	store      *session.Store
	locker     session.SlotLocker
	tags       tag.Repository
	recv       receiving.Repository
	sales      sale.Repository
	repo       scan.Repository
	dispatcher notify.Dispatcher
	cfg        config.SessionConfig
	logger     *zap.Logger
}

func NewScanUseCase(
	store *session.Store,
	locker session.SlotLocker,
	tags tag.Repository,
	recv receiving.Repository,
	sales sale.Repository,
	repo scan.Repository,
	dispatcher notify.Dispatcher,
	cfg config.SessionConfig,
	log *zap.Logger,
) scan.UseCase {
	return &scanUseCase{
		store:      store,
		locker:     locker,
		tags:       tags,
		recv:       recv,
		sales:      sales,
		repo:       repo,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     log,
	}
}

// Apply is the one place session progress is mutated by tag reads. It runs
// inside the store's critical section, so repeated reads of the same tag can
// never race their own idempotency check.
func (uc *scanUseCase) Apply(ctx context.Context, read *dto.TagRead) (*dto.Outcome, error) {
	out := &dto.Outcome{
		TagUID:  read.UID,
		Outcome: dto.OutcomeIgnored,
		Reason:  dto.ReasonNoActiveSession,
	}

	var applyErr error
	existed, released := uc.store.Exclusive(func(cur *model.ScanSession) bool {
		out.SessionID = cur.ID
		out.Mode = cur.Mode
		out.Reason = ""

		if cur.HasApplied(read.UID) {
			out.Outcome = dto.OutcomeDuplicate
			return false
		}

		t, err := uc.tags.GetByUID(ctx, read.UID)
		if err != nil {
			applyErr = err
			return false
		}

		switch cur.Mode {
		case model.ModeReceive:
			return uc.applyReceive(ctx, cur, t, read, out, &applyErr)
		case model.ModeSell:
			return uc.applySell(ctx, cur, t, read, out, &applyErr)
		}
		return false
	})

	if applyErr != nil {
		// Infrastructure failure: the branch never fired, so no outcome is
		// emitted. The reader will re-read the tag.
		uc.logger.Error("failed to apply tag read",
			zap.String("tag_uid", read.UID),
			zap.Error(applyErr),
		)
		return nil, applyErr
	}

	if !existed {
		out.Outcome = dto.OutcomeIgnored
		out.Reason = dto.ReasonNoActiveSession
	}

	if released {
		if err := uc.locker.ReleaseLock(ctx, session.SlotLockKey, out.SessionID); err != nil {
			uc.logger.Error("failed to release scan slot lock", zap.Error(err))
		}
	} else if out.Outcome == dto.OutcomeApplied {
		// Keep the cross-instance slot alive while events are flowing.
		if err := uc.locker.RefreshLock(ctx, session.SlotLockKey, out.SessionID, uc.cfg.LockTTL); err != nil {
			uc.logger.Error("failed to refresh scan slot lock", zap.Error(err))
		}
	}

	uc.dispatcher.Deliver(ctx, out)
	return out, nil
}

func (uc *scanUseCase) applyReceive(ctx context.Context, cur *model.ScanSession, t *model.Tag, read *dto.TagRead, out *dto.Outcome, applyErr *error) bool {
	out.LineID = cur.LineID

	if t != nil && t.Status != model.TagStatusUnused {
		out.Outcome = dto.OutcomeInvalid
		out.Reason = dto.ReasonTagAlreadyUsed
		return false
	}

	line, err := uc.recv.GetLine(ctx, cur.LineID)
	if err != nil {
		*applyErr = err
		return false
	}
	if line == nil {
		// Target deleted mid-session.
		out.Outcome = dto.OutcomeInvalid
		out.Reason = dto.ReasonTargetNotEligible
		return false
	}

	scanned, err := uc.recv.CountLineTags(ctx, cur.LineID)
	if err != nil {
		*applyErr = err
		return false
	}
	if scanned >= line.ExpectedQty {
		// Already full, e.g. a stale session started against a finished
		// line. Refuse the association and signal completion.
		out.Outcome = dto.OutcomeIgnored
		out.Reason = dto.ReasonTargetComplete
		out.Completed = true
		cur.State = model.SessionComplete
		return true
	}

	now := time.Now()
	assoc := &model.LineAssociation{
		LineID:    cur.LineID,
		TagUID:    read.UID,
		SessionID: cur.ID,
		CreatedAt: now,
	}
	sessionID := cur.ID
	event := &model.TagEvent{
		ID:         uuid.New().String(),
		TagUID:     read.UID,
		Action:     model.ActionStorePrefix + cur.TargetID,
		SessionID:  &sessionID,
		OccurredAt: now,
	}

	if err := uc.repo.ApplyReceive(ctx, assoc, line.ProductID, event); err != nil {
		*applyErr = err
		return false
	}

	cur.Applied[read.UID] = struct{}{}
	cur.LastEventAt = now
	out.Outcome = dto.OutcomeApplied

	if scanned+1 >= line.ExpectedQty {
		out.Completed = true
		cur.State = model.SessionComplete
		return true
	}
	return false
}

func (uc *scanUseCase) applySell(ctx context.Context, cur *model.ScanSession, t *model.Tag, read *dto.TagRead, out *dto.Outcome, applyErr *error) bool {
	if t == nil || t.ProductID == nil {
		out.Outcome = dto.OutcomeInvalid
		out.Reason = dto.ReasonTagNotSellable
		return false
	}
	if t.Status == model.TagStatusSold {
		out.Outcome = dto.OutcomeInvalid
		out.Reason = dto.ReasonTagAlreadySold
		return false
	}
	if t.Status != model.TagStatusInStock {
		out.Outcome = dto.OutcomeInvalid
		out.Reason = dto.ReasonTagNotSellable
		return false
	}

	bill, err := uc.sales.GetByID(ctx, cur.TargetID)
	if err != nil {
		*applyErr = err
		return false
	}
	if bill == nil || bill.Status != model.BillStatusDraft {
		out.Outcome = dto.OutcomeInvalid
		out.Reason = dto.ReasonTargetNotEligible
		return false
	}

	now := time.Now()
	assoc := &model.BillAssociation{
		BillID:    cur.TargetID,
		TagUID:    read.UID,
		ProductID: *t.ProductID,
		SessionID: cur.ID,
		CreatedAt: now,
	}
	sessionID := cur.ID
	event := &model.TagEvent{
		ID:         uuid.New().String(),
		TagUID:     read.UID,
		Action:     model.ActionSellPrefix + cur.TargetID,
		SessionID:  &sessionID,
		OccurredAt: now,
	}

	if err := uc.repo.ApplySell(ctx, assoc, event); err != nil {
		*applyErr = err
		return false
	}

	cur.Applied[read.UID] = struct{}{}
	cur.LastEventAt = now
	out.Outcome = dto.OutcomeApplied

	// Selling has no target quantity; the session runs until checkout or stop.
	return false
}
