package directoryrepo

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/ncibb/credit-ledger/internal/domain"
	"github.com/ncibb/credit-ledger/pkg/configpkg"
	"github.com/ncibb/credit-ledger/pkg/randompkg"
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

func TestGet(t *testing.T) {
	username := randompkg.Owner()
	fullName := randompkg.Owner()
	email := randompkg.Email()

	var id int32

	err := testDB.QueryRow(
		`INSERT INTO users (username, full_name, email, role) VALUES ($1, $2, $3, $4) RETURNING id`,
		username, fullName, email, domain.RoleManager,
	).Scan(&id)
	require.NoError(t, err)

	account, err := testRepo.Get(context.Background(), id)
	require.NoError(t, err)

	require.Equal(t, id, account.ID)
	require.Equal(t, username, account.Username)
	require.Equal(t, fullName, account.FullName)
	require.Equal(t, email, account.Email)
	require.Equal(t, domain.RoleManager, account.Role)
	require.NotZero(t, account.CreatedAt)
}

func TestGetNotFound(t *testing.T) {
	_, err := testRepo.Get(context.Background(), -1)
	require.EqualError(t, err, domain.ErrAccountNotFound.Error())
}
