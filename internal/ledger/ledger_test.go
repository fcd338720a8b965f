package ledger

import (
	"testing"

	"riverview/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "hunter2secret"

// LedgerTestSuite runs the wallet core against an in-memory database
type LedgerTestSuite struct {
	suite.Suite
	db   *gorm.DB
	user domain.User
}

// SetupTest creates a fresh database and one funded user per test
func (s *LedgerTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(s.T(), err, "failed to open test database")
	// A single connection keeps every query on the same in-memory store
	sqlDB, err := db.DB()
	require.NoError(s.T(), err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(s.T(), db.AutoMigrate(
		&domain.User{}, &domain.FoodItem{}, &domain.CartLine{},
		&domain.Transaction{}, &domain.Review{},
	))
	s.db = db

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(s.T(), err)
	s.user = domain.User{Name: "Dana", Email: "dana@example.com", PasswordHash: string(hash), Wallet: 20.00}
	require.NoError(s.T(), db.Create(&s.user).Error)
}

// seedCart inserts pending cart rows for the suite user
func (s *LedgerTestSuite) seedCart(n int) {
	food := domain.FoodItem{Name: "Khinkali", Price: 3.50}
	require.NoError(s.T(), s.db.Create(&food).Error)
	for i := 0; i < n; i++ {
		line := domain.CartLine{UserID: s.user.ID, FoodID: food.ID, Quantity: 1}
		require.NoError(s.T(), s.db.Create(&line).Error)
	}
}

// balance re-reads the suite user's wallet
func (s *LedgerTestSuite) balance() float64 {
	var u domain.User
	require.NoError(s.T(), s.db.First(&u, "user_id = ?", s.user.ID).Error)
	return u.Wallet
}

func (s *LedgerTestSuite) countRows(model any) int64 {
	var n int64
	require.NoError(s.T(), s.db.Model(model).Count(&n).Error)
	return n
}

func (s *LedgerTestSuite) TestPlaceOrderSuccess() {
	s.seedCart(2)
	lines := []OrderLine{
		{Price: 3.50, Quantity: float64(2)},
		{Price: 2.00, Quantity: float64(3)},
	}
	total, err := PlaceOrder(s.db, s.user.ID, lines)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 13.00, total)
	assert.Equal(s.T(), 7.00, s.balance(), "balance decreases by exactly the total")

	var txs []domain.Transaction
	require.NoError(s.T(), s.db.Find(&txs).Error)
	require.Len(s.T(), txs, 1, "exactly one purchase record")
	assert.Equal(s.T(), domain.TxPurchase, txs[0].Type)
	assert.Equal(s.T(), 13.00, txs[0].Amount)
	assert.Equal(s.T(), s.user.ID, txs[0].UserID)

	assert.EqualValues(s.T(), 0, s.countRows(&domain.CartLine{}), "cart cleared on success")
}

func (s *LedgerTestSuite) TestPlaceOrderEmptyCart() {
	_, err := PlaceOrder(s.db, s.user.ID, nil)
	assert.ErrorIs(s.T(), err, ErrEmptyCart)
	assert.Equal(s.T(), 20.00, s.balance())
	assert.EqualValues(s.T(), 0, s.countRows(&domain.Transaction{}))
}

func (s *LedgerTestSuite) TestPlaceOrderInsufficientFunds() {
	s.seedCart(1)
	lines := []OrderLine{{Price: 15.00, Quantity: float64(2)}} // 30.00 > 20.00
	_, err := PlaceOrder(s.db, s.user.ID, lines)
	assert.ErrorIs(s.T(), err, ErrInsufficientFunds)
	// All-or-nothing: balance, history and cart are untouched
	assert.Equal(s.T(), 20.00, s.balance())
	assert.EqualValues(s.T(), 0, s.countRows(&domain.Transaction{}))
	assert.EqualValues(s.T(), 1, s.countRows(&domain.CartLine{}), "cart kept on failure")
}

func (s *LedgerTestSuite) TestPlaceOrderUnknownUser() {
	_, err := PlaceOrder(s.db, 9999, []OrderLine{{Price: 1.00, Quantity: float64(1)}})
	assert.ErrorIs(s.T(), err, ErrUserNotFound)
}

func (s *LedgerTestSuite) TestPlaceOrderCoercedQuantity() {
	// Balance 10.00; the fractional quantity is malformed and contributes
	// nothing, so only the valid line is charged.
	require.NoError(s.T(), s.db.Model(&domain.User{}).
		Where("user_id = ?", s.user.ID).Update("wallet", 10.00).Error)
	lines := []OrderLine{
		{Price: 3.50, Quantity: float64(2)},
		{Price: 2.00, Quantity: 1.5},
	}
	total, err := PlaceOrder(s.db, s.user.ID, lines)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 7.00, total)
	assert.Equal(s.T(), 3.00, s.balance())
}

func (s *LedgerTestSuite) TestPlaceOrderDoubleSubmit() {
	// Funds cover one order, not two: the second identical submit must
	// fail and the balance must reflect exactly one deduction.
	require.NoError(s.T(), s.db.Model(&domain.User{}).
		Where("user_id = ?", s.user.ID).Update("wallet", 10.00).Error)
	lines := []OrderLine{{Price: 7.00, Quantity: float64(1)}}

	_, err := PlaceOrder(s.db, s.user.ID, lines)
	require.NoError(s.T(), err)
	_, err = PlaceOrder(s.db, s.user.ID, lines)
	assert.ErrorIs(s.T(), err, ErrInsufficientFunds)

	assert.Equal(s.T(), 3.00, s.balance())
	var txs []domain.Transaction
	require.NoError(s.T(), s.db.Find(&txs).Error)
	assert.Len(s.T(), txs, 1, "exactly one deduction recorded")
}

func (s *LedgerTestSuite) TestPlaceOrderHugeQuantityCannotCredit() {
	// A quantity past the sane bound coerces to 0 like any other malformed
	// value: the line contributes nothing and the wallet can only go down,
	// never up.
	lines := []OrderLine{{Price: 1.00, Quantity: 1e19}}
	total, err := PlaceOrder(s.db, s.user.ID, lines)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0.0, total)
	assert.Equal(s.T(), 20.00, s.balance(), "balance never increases from an order")

	var txs []domain.Transaction
	require.NoError(s.T(), s.db.Find(&txs).Error)
	require.Len(s.T(), txs, 1)
	assert.Equal(s.T(), domain.TxPurchase, txs[0].Type)
	assert.Equal(s.T(), 0.0, txs[0].Amount, "purchase amounts are never negative")
}

func (s *LedgerTestSuite) TestPlaceOrderLostUpdateGuard() {
	// Drain the wallet between PlaceOrder's balance read and its debit, the
	// window a concurrent order would win. The guarded update must see the
	// shrunken balance, affect zero rows and fail the whole unit.
	require.NoError(s.T(), s.db.Model(&domain.User{}).
		Where("user_id = ?", s.user.ID).Update("wallet", 10.00).Error)

	drained := false
	err := s.db.Callback().Update().Before("gorm:update").Register("drain_wallet_once", func(d *gorm.DB) {
		if drained {
			return
		}
		drained = true
		d.Session(&gorm.Session{NewDB: true}).Exec(
			"UPDATE users SET wallet = wallet - ? WHERE user_id = ?", 7.00, s.user.ID)
	})
	require.NoError(s.T(), err)
	defer s.db.Callback().Update().Remove("drain_wallet_once")

	s.seedCart(1)
	_, err = PlaceOrder(s.db, s.user.ID, []OrderLine{{Price: 7.00, Quantity: float64(1)}})
	assert.ErrorIs(s.T(), err, ErrInsufficientFunds, "the losing order fails instead of overdrawing")

	// The transaction rolled back whole: no purchase row, cart kept
	assert.EqualValues(s.T(), 0, s.countRows(&domain.Transaction{}))
	assert.EqualValues(s.T(), 1, s.countRows(&domain.CartLine{}))
	assert.Equal(s.T(), 10.00, s.balance(), "rollback undoes the whole unit, drain included")
}

func (s *LedgerTestSuite) TestAddFundsUserRowVanished() {
	// Delete the user between the step-up read and the credit: the credit
	// must affect zero rows and no orphan add record may survive.
	deleted := false
	err := s.db.Callback().Update().Before("gorm:update").Register("delete_user_once", func(d *gorm.DB) {
		if deleted {
			return
		}
		deleted = true
		d.Session(&gorm.Session{NewDB: true}).Exec(
			"DELETE FROM users WHERE user_id = ?", s.user.ID)
	})
	require.NoError(s.T(), err)
	defer s.db.Callback().Update().Remove("delete_user_once")

	_, err = AddFunds(s.db, s.user.ID, 10.00, testPassword)
	assert.ErrorIs(s.T(), err, ErrUserNotFound)
	assert.EqualValues(s.T(), 0, s.countRows(&domain.Transaction{}), "no add record without its credit")
}

func (s *LedgerTestSuite) TestAddFundsSuccess() {
	amount, err := AddFunds(s.db, s.user.ID, 25.50, testPassword)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 25.50, amount)
	assert.Equal(s.T(), 45.50, s.balance())

	var txs []domain.Transaction
	require.NoError(s.T(), s.db.Find(&txs).Error)
	require.Len(s.T(), txs, 1)
	assert.Equal(s.T(), domain.TxAdd, txs[0].Type)
	assert.Equal(s.T(), 25.50, txs[0].Amount)
}

func (s *LedgerTestSuite) TestAddFundsWrongPassword() {
	_, err := AddFunds(s.db, s.user.ID, 10.00, "not-the-password")
	assert.ErrorIs(s.T(), err, ErrWrongPassword)
	assert.Equal(s.T(), 20.00, s.balance())
	assert.EqualValues(s.T(), 0, s.countRows(&domain.Transaction{}))
}

func (s *LedgerTestSuite) TestAddFundsNegativeAmountIsZeroCredit() {
	// Negative input coerces to 0 and succeeds as a no-op credit, with the
	// zero-value add still recorded. Intentional tolerance, not a bug.
	amount, err := AddFunds(s.db, s.user.ID, float64(-5), testPassword)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0.0, amount)
	assert.Equal(s.T(), 20.00, s.balance())

	var txs []domain.Transaction
	require.NoError(s.T(), s.db.Find(&txs).Error)
	require.Len(s.T(), txs, 1)
	assert.Equal(s.T(), domain.TxAdd, txs[0].Type)
	assert.Equal(s.T(), 0.0, txs[0].Amount)
}

func (s *LedgerTestSuite) TestAddFundsMalformedAmountIsZeroCredit() {
	amount, err := AddFunds(s.db, s.user.ID, "not a number", testPassword)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0.0, amount)
	assert.Equal(s.T(), 20.00, s.balance())
}

func (s *LedgerTestSuite) TestListTransactionsMostRecentFirst() {
	_, err := AddFunds(s.db, s.user.ID, 5.00, testPassword)
	require.NoError(s.T(), err)
	_, err = AddFunds(s.db, s.user.ID, 8.00, testPassword)
	require.NoError(s.T(), err)

	txs, err := ListTransactions(s.db, s.user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), txs, 2)
	assert.Equal(s.T(), 8.00, txs[0].Amount, "latest transaction first")
	assert.Equal(s.T(), 5.00, txs[1].Amount)
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}
