package ledgerrepo

import (
	"context"
	"database/sql"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ncibb/credit-ledger/internal/domain"
	"github.com/ncibb/credit-ledger/pkg/configpkg"
	"github.com/ncibb/credit-ledger/pkg/randompkg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	testRepo *RepoPGS
	testDB   *sql.DB
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	testDB, err = sql.Open(config.DBDriver, config.DBSource)
	if err != nil {
		log.Fatal("cannot connect to db:", err)
	}

	testRepo = NewRepoPGS(testDB)

	os.Exit(m.Run())
}

func createRandomUser(t *testing.T) int32 {
	t.Helper()

	var id int32

	err := testDB.QueryRow(
		`INSERT INTO users (username, full_name, email) VALUES ($1, $2, $3) RETURNING id`,
		randompkg.Owner(), randompkg.Owner(), randompkg.Email(),
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func TestCreditThenDebit(t *testing.T) {
	accountID := createRandomUser(t)

	credited, err := testRepo.Credit(context.Background(), domain.CreateTransactionParams{
		AccountID:   accountID,
		Amount:      "50.00",
		Kind:        domain.KindEarned,
		Description: "signup reward",
	})
	require.NoError(t, err)

	require.Equal(t, "50.00", credited.Balance.Balance)
	require.Equal(t, "50.00", credited.Balance.TotalEarned)
	require.Equal(t, "0.00", credited.Balance.TotalSpent)
	require.Equal(t, "50.00", credited.Transaction.Amount)
	require.Equal(t, domain.KindEarned, credited.Transaction.Kind)
	require.NotZero(t, credited.Transaction.ID)

	debited, err := testRepo.Debit(context.Background(), domain.CreateTransactionParams{
		AccountID:   accountID,
		Amount:      "20.00",
		Kind:        domain.KindSpent,
		Description: "report generation",
	})
	require.NoError(t, err)

	require.Equal(t, "30.00", debited.Balance.Balance)
	require.Equal(t, "50.00", debited.Balance.TotalEarned)
	require.Equal(t, "20.00", debited.Balance.TotalSpent)
	require.Equal(t, domain.KindSpent, debited.Transaction.Kind)
}

func TestDebitToExactlyZero(t *testing.T) {
	accountID := createRandomUser(t)

	_, err := testRepo.Credit(context.Background(), domain.CreateTransactionParams{
		AccountID: accountID,
		Amount:    "25.00",
		Kind:      domain.KindEarned,
	})
	require.NoError(t, err)

	debited, err := testRepo.Debit(context.Background(), domain.CreateTransactionParams{
		AccountID: accountID,
		Amount:    "25.00",
		Kind:      domain.KindSpent,
	})
	require.NoError(t, err)
	require.Equal(t, "0.00", debited.Balance.Balance)
}

func TestDebitInsufficientFunds(t *testing.T) {
	accountID := createRandomUser(t)

	_, err := testRepo.Debit(context.Background(), domain.CreateTransactionParams{
		AccountID: accountID,
		Amount:    "10.00",
		Kind:      domain.KindSpent,
	})

	var insufficient *domain.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, "0.00", insufficient.Balance)
	require.Equal(t, "10.00", insufficient.Requested)

	// A failed debit leaves no trace: balance unchanged, no record.
	balance, err := testRepo.GetOrCreateBalance(context.Background(), accountID)
	require.NoError(t, err)
	require.Equal(t, "0.00", balance.Balance)
	require.Equal(t, "0.00", balance.TotalSpent)

	records, err := testRepo.ListTransactions(context.Background(), domain.ListTransactionsParams{
		AccountID: accountID,
		Limit:     10,
	})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestCreditUnknownAccount(t *testing.T) {
	_, err := testRepo.Credit(context.Background(), domain.CreateTransactionParams{
		AccountID: -1,
		Amount:    "10.00",
		Kind:      domain.KindEarned,
	})
	require.EqualError(t, err, domain.ErrAccountNotFound.Error())
}

func TestFirstOperationCreatesBalance(t *testing.T) {
	accountID := createRandomUser(t)

	// No prior GetOrCreateBalance call: the first credit creates the
	// zeroed record on its own.
	credited, err := testRepo.Credit(context.Background(), domain.CreateTransactionParams{
		AccountID: accountID,
		Amount:    "5.00",
		Kind:      domain.KindBonus,
	})
	require.NoError(t, err)
	require.Equal(t, "5.00", credited.Balance.Balance)
}

func TestConcurrentDebitsCannotOverdraw(t *testing.T) {
	accountID := createRandomUser(t)

	_, err := testRepo.Credit(context.Background(), domain.CreateTransactionParams{
		AccountID: accountID,
		Amount:    "100.00",
		Kind:      domain.KindEarned,
	})
	require.NoError(t, err)

	// Five workers each try to take 60.00 from a 100.00 balance. The
	// per-account row lock must let exactly one through.
	const workers = 5

	errs := make(chan error, workers)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := testRepo.Debit(context.Background(), domain.CreateTransactionParams{
				AccountID: accountID,
				Amount:    "60.00",
				Kind:      domain.KindSpent,
			})
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	succeeded := 0

	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}

		var insufficient *domain.InsufficientFundsError
		require.ErrorAs(t, err, &insufficient)
	}

	require.Equal(t, 1, succeeded)

	balance, err := testRepo.GetOrCreateBalance(context.Background(), accountID)
	require.NoError(t, err)
	require.Equal(t, "40.00", balance.Balance)
}

func TestConcurrentCreditsAllApply(t *testing.T) {
	accountID := createRandomUser(t)

	const workers = 10

	amount := "7.00"

	var wg sync.WaitGroup

	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := testRepo.Credit(context.Background(), domain.CreateTransactionParams{
				AccountID: accountID,
				Amount:    amount,
				Kind:      domain.KindEarned,
			})
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	want := decimal.RequireFromString(amount).Mul(decimal.NewFromInt(workers)).StringFixed(2)

	balance, err := testRepo.GetOrCreateBalance(context.Background(), accountID)
	require.NoError(t, err)
	require.Equal(t, want, balance.Balance)
	require.Equal(t, want, balance.TotalEarned)
}

func TestConcurrentDistinctAccountsDoNotBlock(t *testing.T) {
	const workers = 4

	accountIDs := make([]int32, workers)
	for i := range accountIDs {
		accountIDs[i] = createRandomUser(t)
	}

	var wg sync.WaitGroup

	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func(accountID int32) {
			defer wg.Done()

			_, err := testRepo.Credit(context.Background(), domain.CreateTransactionParams{
				AccountID: accountID,
				Amount:    "10.00",
				Kind:      domain.KindEarned,
			})
			errs <- err
		}(accountIDs[i])
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	for _, accountID := range accountIDs {
		balance, err := testRepo.GetOrCreateBalance(context.Background(), accountID)
		require.NoError(t, err)
		require.Equal(t, "10.00", balance.Balance)
	}
}

func TestSumTransactionsSince(t *testing.T) {
	accountID := createRandomUser(t)

	_, err := testRepo.Credit(context.Background(), domain.CreateTransactionParams{
		AccountID: accountID,
		Amount:    "40.00",
		Kind:      domain.KindEarned,
	})
	require.NoError(t, err)

	_, err = testRepo.Debit(context.Background(), domain.CreateTransactionParams{
		AccountID: accountID,
		Amount:    "15.00",
		Kind:      domain.KindSpent,
	})
	require.NoError(t, err)

	since := time.Now().Add(-time.Hour)

	earned, err := testRepo.SumTransactionsSince(context.Background(), accountID, domain.KindEarned, since)
	require.NoError(t, err)
	require.Equal(t, "40.00", earned)

	spent, err := testRepo.SumTransactionsSince(context.Background(), accountID, domain.KindSpent, since)
	require.NoError(t, err)
	require.Equal(t, "15.00", spent)
}

func TestRollbackOnRecordFailure(t *testing.T) {
	accountID := createRandomUser(t)

	_, err := testRepo.Credit(context.Background(), domain.CreateTransactionParams{
		AccountID: accountID,
		Amount:    "50.00",
		Kind:      domain.KindEarned,
	})
	require.NoError(t, err)

	// An unknown kind fails the record insert after the balance update;
	// the whole transaction must roll back.
	_, err = testRepo.Debit(context.Background(), domain.CreateTransactionParams{
		AccountID: accountID,
		Amount:    "10.00",
		Kind:      domain.Kind("gifted"),
	})
	require.EqualError(t, err, domain.ErrInvalidKind.Error())

	balance, err := testRepo.GetOrCreateBalance(context.Background(), accountID)
	require.NoError(t, err)
	require.Equal(t, "50.00", balance.Balance)
}
