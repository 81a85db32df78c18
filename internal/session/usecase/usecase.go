package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/config"
	"github.com/warekit/rfid-scan-service/internal/model"
	"github.com/warekit/rfid-scan-service/internal/receiving"
	"github.com/warekit/rfid-scan-service/internal/sale"
	"github.com/warekit/rfid-scan-service/internal/session"
	"github.com/warekit/rfid-scan-service/internal/session/dto"
)

type sessionUseCase struct {
	store  *session.Store
	locker session.SlotLocker
	recv   receiving.Repository
	sales  sale.Repository
	cfg    config.SessionConfig
	logger *zap.Logger
}

func NewSessionUseCase(
	store *session.Store,
	locker session.SlotLocker,
	recv receiving.Repository,
	sales sale.Repository,
	cfg config.SessionConfig,
	log *zap.Logger,
) session.UseCase {
	return &sessionUseCase{
		store:  store,
		locker: locker,
		recv:   recv,
		sales:  sales,
		cfg:    cfg,
		logger: log,
	}
}

func (uc *sessionUseCase) Start(ctx context.Context, mode model.SessionMode, targetID, lineID string) (*dto.SessionHandle, error) {
	if err := uc.checkEligible(ctx, mode, targetID, lineID); err != nil {
		return nil, err
	}

	// Claim the cross-instance slot before installing anything locally: a
	// session must not be visible to the ingestor until the start is certain,
	// or reads could commit against a session that never started. Retry
	// briefly like any other lock acquisition; a holder elsewhere means busy,
	// not broken.
	sessionID := uuid.New().String()
	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.locker.AcquireLock(ctx, session.SlotLockKey, sessionID, uc.cfg.LockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire scan slot lock", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !acquired {
		return nil, session.ErrSessionBusy
	}

	sess, ok := uc.store.TryInstall(sessionID, mode, targetID, lineID)
	if !ok {
		uc.releaseSlot(ctx, sessionID)
		return nil, session.ErrSessionBusy
	}

	uc.logger.Info("scan session started",
		zap.String("session_id", sess.ID),
		zap.String("mode", string(mode)),
		zap.String("target_id", targetID),
	)

	return &dto.SessionHandle{SessionID: sess.ID, Version: sess.Version}, nil
}

func (uc *sessionUseCase) checkEligible(ctx context.Context, mode model.SessionMode, targetID, lineID string) error {
	switch mode {
	case model.ModeReceive:
		line, err := uc.recv.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		if line == nil || line.OrderID != targetID {
			return session.ErrTargetNotFound
		}
		scanned, err := uc.recv.CountLineTags(ctx, lineID)
		if err != nil {
			return err
		}
		if scanned >= line.ExpectedQty {
			return session.ErrTargetNotEligible
		}
	case model.ModeSell:
		bill, err := uc.sales.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if bill == nil {
			return session.ErrTargetNotFound
		}
		if bill.Status != model.BillStatusDraft {
			return session.ErrTargetNotEligible
		}
	default:
		return session.ErrTargetNotFound
	}
	return nil
}

func (uc *sessionUseCase) Stop(ctx context.Context, version uint64) bool {
	stopped := uc.store.Stop(version)
	if stopped == nil {
		return false
	}
	uc.releaseSlot(ctx, stopped.ID)
	uc.logger.Info("scan session stopped", zap.String("session_id", stopped.ID))
	return true
}

func (uc *sessionUseCase) StopTarget(ctx context.Context, targetID string) bool {
	active := uc.store.Snapshot()
	if active == nil || active.TargetID != targetID {
		return false
	}
	return uc.Stop(ctx, active.Version)
}

func (uc *sessionUseCase) Active() *model.ScanSession {
	return uc.store.Snapshot()
}

func (uc *sessionUseCase) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(uc.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired := uc.store.ExpireIdle(time.Now().Add(-uc.cfg.IdleTimeout))
			if expired == nil {
				continue
			}
			uc.releaseSlot(ctx, expired.ID)
			uc.logger.Warn("scan session expired without events",
				zap.String("session_id", expired.ID),
				zap.String("target_id", expired.TargetID),
				zap.Time("last_event_at", expired.LastEventAt),
			)
		}
	}
}

func (uc *sessionUseCase) releaseSlot(ctx context.Context, sessionID string) {
	if err := uc.locker.ReleaseLock(ctx, session.SlotLockKey, sessionID); err != nil {
		uc.logger.Error("failed to release scan slot lock", zap.Error(err))
	}
}
