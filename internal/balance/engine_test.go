package balance

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nimasrn/ledger-api/internal/model"
	"github.com/nimasrn/ledger-api/internal/repository"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) AdjustBalance(ctx context.Context, customerID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID, delta.String())
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func dueTxn(t model.TransactionType, customerID int64, total int64) *model.Transaction {
	return &model.Transaction{
		Type:        t,
		CustomerID:  &customerID,
		Total:       decimal.NewFromInt(total),
		PaymentType: model.PaymentDue,
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		txnType model.TransactionType
		want    int64
	}{
		{model.TransactionSell, -100},
		{model.TransactionBuy, 100},
		{model.TransactionReceivable, 100},
		{model.TransactionDue, -100},
		{model.TransactionExpense, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.txnType), func(t *testing.T) {
			got := Delta(tt.txnType, decimal.NewFromInt(100))
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s", got)
		})
	}
}

func TestEngine_Gate(t *testing.T) {
	store := new(MockStore)
	engine := NewEngine(store)
	ctx := context.Background()

	cash := dueTxn(model.TransactionSell, 1, 100)
	cash.PaymentType = model.PaymentCash
	res, err := engine.Apply(ctx, cash)
	require.NoError(t, err)
	assert.False(t, res.Applied)

	anonymous := dueTxn(model.TransactionSell, 1, 100)
	anonymous.CustomerID = nil
	res, err = engine.Reverse(ctx, anonymous)
	require.NoError(t, err)
	assert.False(t, res.Applied)

	store.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_ApplyReverse(t *testing.T) {
	store := new(MockStore)
	engine := NewEngine(store)
	ctx := context.Background()
	txn := dueTxn(model.TransactionSell, 7, 100)

	store.On("AdjustBalance", ctx, int64(7), "-100").Return(decimal.NewFromInt(-100), nil).Once()
	store.On("AdjustBalance", ctx, int64(7), "100").Return(decimal.Zero, nil).Once()

	res, err := engine.Apply(ctx, txn)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.True(t, res.Balance.Equal(decimal.NewFromInt(-100)))

	res, err = engine.Reverse(ctx, txn)
	require.NoError(t, err)
	assert.True(t, res.Balance.IsZero())

	store.AssertExpectations(t)
}

func TestEngine_MissingCustomerSkipped(t *testing.T) {
	store := new(MockStore)
	engine := NewEngine(store)
	ctx := context.Background()

	store.On("AdjustBalance", ctx, int64(9), "100").Return(decimal.Zero, repository.ErrCustomerNotFound)

	res, err := engine.Apply(ctx, dueTxn(model.TransactionBuy, 9, 100))
	require.NoError(t, err)
	assert.False(t, res.Applied)
}

func TestEngine_StoreError(t *testing.T) {
	store := new(MockStore)
	engine := NewEngine(store)
	ctx := context.Background()

	store.On("AdjustBalance", ctx, int64(3), "-5").Return(decimal.Zero, errors.New("connection reset"))

	_, err := engine.Apply(ctx, dueTxn(model.TransactionDue, 3, 5))
	assert.EqualError(t, err, "connection reset")
}

func TestEngine_RoundTripOnDatabase(t *testing.T) {
	db := repository.NewTestDB(t)
	customers := repository.NewCustomerRepository(db)
	engine := NewEngine(customers)
	ctx := context.Background()

	alice, err := customers.Create(ctx, &model.Customer{Name: "Alice", Phone: "555"})
	require.NoError(t, err)

	txns := []*model.Transaction{
		dueTxn(model.TransactionSell, alice.ID, 100),
		dueTxn(model.TransactionReceivable, alice.ID, 40),
		dueTxn(model.TransactionBuy, alice.ID, 25),
		dueTxn(model.TransactionDue, alice.ID, 10),
		dueTxn(model.TransactionExpense, alice.ID, 999),
	}

	for _, txn := range txns {
		err := db.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := engine.Apply(ctx, txn)
			return err
		})
		require.NoError(t, err)
	}

	got, err := customers.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "-45", got.Balance.String())

	for i := len(txns) - 1; i >= 0; i-- {
		_, err := engine.Reverse(ctx, txns[i])
		require.NoError(t, err)
	}

	got, err = customers.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
}
