package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avinash-ch/UnionSathi/config"
	"github.com/avinash-ch/UnionSathi/gateway"
	"github.com/avinash-ch/UnionSathi/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

// newTestDB opens a fresh in-memory database with the full schema. Each test
// gets its own database so tests cannot observe each other's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, config.MigrateSchema(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, status string) *models.User {
	t.Helper()

	user := &models.User{
		FirstName:          "Ravi",
		LastName:           "Kumar",
		Phone:              fmt.Sprintf("98%08d", atomic.AddInt64(&testDBSeq, 1)),
		PreferredLocale:    "te",
		District:           "Guntur",
		Occupation:         "weaver",
		IsVerified:         true,
		SubscriptionStatus: status,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// fakeGateway is a scriptable in-process payment gateway. OrderStatus walks
// statusSeq and repeats the final entry once the script is exhausted.
type fakeGateway struct {
	mu          sync.Mutex
	name        string
	createErr   error
	statusErr   error
	statusSeq   []gateway.Status
	statusCalls int
	paymentID   string
	sigOK       bool
	orders      int
}

func newFakeGateway(statuses ...gateway.Status) *fakeGateway {
	return &fakeGateway{name: "fake", statusSeq: statuses, paymentID: "pay_fake_1", sigOK: true}
}

func (f *fakeGateway) Name() string { return f.name }

func (f *fakeGateway) CreateOrder(ctx context.Context, in gateway.CreateOrderInput) (*gateway.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.orders++
	return &gateway.CheckoutSession{
		Gateway:      f.name,
		OrderID:      fmt.Sprintf("order_fake_%d", f.orders),
		AmountRupees: in.AmountRupees,
		Currency:     in.Currency,
	}, nil
}

func (f *fakeGateway) OrderStatus(ctx context.Context, gatewayOrderID string) (gateway.OrderState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return gateway.OrderState{}, f.statusErr
	}
	idx := f.statusCalls
	if idx >= len(f.statusSeq) {
		idx = len(f.statusSeq) - 1
	}
	f.statusCalls++
	st := f.statusSeq[idx]
	if st == gateway.StatusPaid {
		return gateway.OrderState{Status: st, PaymentID: f.paymentID}, nil
	}
	return gateway.OrderState{Status: st}, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return f.sigOK
}

func (f *fakeGateway) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls
}

func registryWith(f *fakeGateway) gateway.Registry {
	return gateway.Registry{f.name: f}
}

func fixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
