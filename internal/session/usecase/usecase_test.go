package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/config"
	"github.com/warekit/rfid-scan-service/internal/model"
	"github.com/warekit/rfid-scan-service/internal/session"
)

// stubLocker is an in-memory stand-in for the redis slot lock.
type stubLocker struct {
	mu          sync.Mutex
	holder      string
	failAcquire bool
}

func (l *stubLocker) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failAcquire || l.holder != "" {
		return false, nil
	}
	l.holder = value
	return true, nil
}

func (l *stubLocker) ReleaseLock(ctx context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.holder == value {
		l.holder = ""
	}
	return nil
}

func (l *stubLocker) RefreshLock(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

// stubRecvRepo serves one receiving line.
type stubRecvRepo struct {
	line    *model.ReceivingLine
	scanned int
}

func (r *stubRecvRepo) ListPending(ctx context.Context) ([]model.PurchaseOrderSummary, error) {
	return nil, nil
}

func (r *stubRecvRepo) GetOrder(ctx context.Context, id string) (*model.PurchaseOrder, error) {
	return nil, nil
}

func (r *stubRecvRepo) GetLine(ctx context.Context, lineID string) (*model.ReceivingLine, error) {
	if r.line == nil || r.line.ID != lineID {
		return nil, nil
	}
	return r.line, nil
}

func (r *stubRecvRepo) CountLineTags(ctx context.Context, lineID string) (int, error) {
	return r.scanned, nil
}

func (r *stubRecvRepo) ListLineTags(ctx context.Context, lineID string) ([]model.LineAssociation, error) {
	return nil, nil
}

// stubSaleRepo serves one bill.
type stubSaleRepo struct {
	bill *model.Bill
}

func (r *stubSaleRepo) CreateDraft(ctx context.Context, bill *model.Bill) error { return nil }

func (r *stubSaleRepo) GetByID(ctx context.Context, id string) (*model.Bill, error) {
	if r.bill == nil || r.bill.ID != id {
		return nil, nil
	}
	return r.bill, nil
}

func (r *stubSaleRepo) GetWithItems(ctx context.Context, id string) (*model.Bill, error) {
	return r.GetByID(ctx, id)
}

func (r *stubSaleRepo) List(ctx context.Context) ([]model.Bill, error) { return nil, nil }

func (r *stubSaleRepo) ListBillTags(ctx context.Context, billID string) ([]model.BillAssociation, error) {
	return nil, nil
}

func (r *stubSaleRepo) Checkout(ctx context.Context, id string) (*model.Bill, error) {
	return nil, nil
}

func testConfig() config.SessionConfig {
	return config.SessionConfig{
		IdleTimeout:   50 * time.Millisecond,
		SweepInterval: 10 * time.Millisecond,
		LockTTL:       time.Minute,
	}
}

func newTestUseCase(t *testing.T, recv *stubRecvRepo, sales *stubSaleRepo) (session.UseCase, *session.Store, *stubLocker) {
	t.Helper()
	store := session.NewStore()
	locker := &stubLocker{}
	uc := NewSessionUseCase(store, locker, recv, sales, testConfig(), zap.NewNop())
	return uc, store, locker
}

func TestStart_Receive(t *testing.T) {
	recv := &stubRecvRepo{line: &model.ReceivingLine{ID: "line-1", OrderID: "po-1", ExpectedQty: 2}}
	uc, store, locker := newTestUseCase(t, recv, &stubSaleRepo{})

	handle, err := uc.Start(context.Background(), model.ModeReceive, "po-1", "line-1")
	require.NoError(t, err)
	assert.NotEmpty(t, handle.SessionID)
	assert.Equal(t, handle.SessionID, locker.holder)

	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, model.ModeReceive, snap.Mode)
}

func TestStart_BusyWhileAnotherSessionActive(t *testing.T) {
	recv := &stubRecvRepo{line: &model.ReceivingLine{ID: "line-1", OrderID: "po-1", ExpectedQty: 2}}
	sales := &stubSaleRepo{bill: &model.Bill{BaseModel: model.BaseModel{ID: "bill-1"}, Status: model.BillStatusDraft}}
	uc, _, _ := newTestUseCase(t, recv, sales)

	_, err := uc.Start(context.Background(), model.ModeReceive, "po-1", "line-1")
	require.NoError(t, err)

	// A different mode and target makes no difference: one slot, system-wide.
	_, err = uc.Start(context.Background(), model.ModeSell, "bill-1", "")
	assert.ErrorIs(t, err, session.ErrSessionBusy)
}

func TestStart_ConcurrentCallers_OneWinner(t *testing.T) {
	recv := &stubRecvRepo{line: &model.ReceivingLine{ID: "line-1", OrderID: "po-1", ExpectedQty: 5}}
	uc, _, _ := newTestUseCase(t, recv, &stubSaleRepo{})

	const callers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	won, busy := 0, 0

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Start(context.Background(), model.ModeReceive, "po-1", "line-1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case err == session.ErrSessionBusy:
				busy++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, won)
	assert.Equal(t, callers-1, busy)
}

func TestStart_TargetNotEligible(t *testing.T) {
	recv := &stubRecvRepo{
		line:    &model.ReceivingLine{ID: "line-1", OrderID: "po-1", ExpectedQty: 2},
		scanned: 2, // already full
	}
	sales := &stubSaleRepo{bill: &model.Bill{BaseModel: model.BaseModel{ID: "bill-1"}, Status: model.BillStatusPaid}}
	uc, _, _ := newTestUseCase(t, recv, sales)

	_, err := uc.Start(context.Background(), model.ModeReceive, "po-1", "line-1")
	assert.ErrorIs(t, err, session.ErrTargetNotEligible)

	_, err = uc.Start(context.Background(), model.ModeSell, "bill-1", "")
	assert.ErrorIs(t, err, session.ErrTargetNotEligible)
}

func TestStart_TargetNotFound(t *testing.T) {
	uc, _, _ := newTestUseCase(t, &stubRecvRepo{}, &stubSaleRepo{})

	_, err := uc.Start(context.Background(), model.ModeReceive, "po-1", "missing")
	assert.ErrorIs(t, err, session.ErrTargetNotFound)

	_, err = uc.Start(context.Background(), model.ModeSell, "missing", "")
	assert.ErrorIs(t, err, session.ErrTargetNotFound)
}

func TestStart_LockHeldElsewhere_NeverInstallsSlot(t *testing.T) {
	recv := &stubRecvRepo{line: &model.ReceivingLine{ID: "line-1", OrderID: "po-1", ExpectedQty: 2}}
	uc, store, locker := newTestUseCase(t, recv, &stubSaleRepo{})
	locker.failAcquire = true

	_, err := uc.Start(context.Background(), model.ModeReceive, "po-1", "line-1")
	assert.ErrorIs(t, err, session.ErrSessionBusy)

	// The lock is taken before the slot: a start that loses to another
	// instance must leave nothing for the ingestor to apply reads into.
	assert.Nil(t, store.Snapshot())
}

func TestStop_StaleVersion(t *testing.T) {
	recv := &stubRecvRepo{line: &model.ReceivingLine{ID: "line-1", OrderID: "po-1", ExpectedQty: 2}}
	uc, store, locker := newTestUseCase(t, recv, &stubSaleRepo{})

	first, err := uc.Start(context.Background(), model.ModeReceive, "po-1", "line-1")
	require.NoError(t, err)
	require.True(t, uc.Stop(context.Background(), first.Version))

	second, err := uc.Start(context.Background(), model.ModeReceive, "po-1", "line-1")
	require.NoError(t, err)

	assert.False(t, uc.Stop(context.Background(), first.Version))
	require.NotNil(t, store.Snapshot())
	assert.Equal(t, second.SessionID, locker.holder)

	assert.True(t, uc.Stop(context.Background(), second.Version))
	assert.Empty(t, locker.holder)
}

func TestStopTarget(t *testing.T) {
	recv := &stubRecvRepo{line: &model.ReceivingLine{ID: "line-1", OrderID: "po-1", ExpectedQty: 2}}
	uc, _, _ := newTestUseCase(t, recv, &stubSaleRepo{})

	_, err := uc.Start(context.Background(), model.ModeReceive, "po-1", "line-1")
	require.NoError(t, err)

	assert.False(t, uc.StopTarget(context.Background(), "some-other-po"))
	assert.True(t, uc.StopTarget(context.Background(), "po-1"))
	assert.Nil(t, uc.Active())
}

func TestSweeper_ExpiresIdleSession(t *testing.T) {
	recv := &stubRecvRepo{line: &model.ReceivingLine{ID: "line-1", OrderID: "po-1", ExpectedQty: 2}}
	uc, store, locker := newTestUseCase(t, recv, &stubSaleRepo{})

	_, err := uc.Start(context.Background(), model.ModeReceive, "po-1", "line-1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go uc.RunSweeper(ctx)

	require.Eventually(t, func() bool {
		return store.Snapshot() == nil
	}, time.Second, 10*time.Millisecond, "idle session should be swept")
	assert.Empty(t, locker.holder)
}
