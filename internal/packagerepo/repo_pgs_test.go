package packagerepo

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

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

func createPackage(t *testing.T, credits, price string, active bool) int32 {
	t.Helper()

	var id int32

	err := testDB.QueryRow(
		`INSERT INTO credit_packages (name, description, credits, price, is_active)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		randompkg.Owner(), randompkg.String(20), credits, price, active,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func TestGet(t *testing.T) {
	id := createPackage(t, "100.00", "9.99", true)

	pack, err := testRepo.Get(context.Background(), id)
	require.NoError(t, err)

	require.Equal(t, id, pack.ID)
	require.Equal(t, "100.00", pack.Credits)
	require.Equal(t, "9.99", pack.Price)
	require.True(t, pack.IsActive)
	require.NotZero(t, pack.CreatedAt)
}

func TestGetInactiveNotFound(t *testing.T) {
	id := createPackage(t, "100.00", "9.99", false)

	_, err := testRepo.Get(context.Background(), id)
	require.EqualError(t, err, domain.ErrPackageNotFound.Error())
}

func TestGetUnknownNotFound(t *testing.T) {
	_, err := testRepo.Get(context.Background(), -1)
	require.EqualError(t, err, domain.ErrPackageNotFound.Error())
}

func TestList(t *testing.T) {
	activeID := createPackage(t, "500.00", "39.99", true)
	inactiveID := createPackage(t, "50.00", "4.99", false)

	packs, err := testRepo.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, packs)

	var sawActive bool

	for i, pack := range packs {
		require.True(t, pack.IsActive)
		require.NotEqual(t, inactiveID, pack.ID)

		if pack.ID == activeID {
			sawActive = true
		}

		if i > 0 {
			prev := decimal.RequireFromString(packs[i-1].Price)
			curr := decimal.RequireFromString(pack.Price)
			require.True(t, prev.LessThanOrEqual(curr))
		}
	}

	require.True(t, sawActive)
}
