package users_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/referral-portal/users"
	fakeuserrepo "github.com/jrsteele09/referral-portal/users/repofake"
	"github.com/stretchr/testify/require"
)

const seedCSV = `username,email,first_name,last_name,type,password
jdoe, jdoe@example.com ,John,Doe,Employee,secret123
hsmith,hsmith@example.com,Helen,Smith,hr,secret456
`

func TestParseSeedCSV(t *testing.T) {
	seeds, err := users.ParseSeedCSV(strings.NewReader(seedCSV))
	require.NoError(t, err)
	require.Len(t, seeds, 2)

	require.Equal(t, "jdoe@example.com", seeds[0].Email)
	require.Equal(t, "employee", seeds[0].Type)
	require.Equal(t, "hr", seeds[1].Type)
}

func TestParseSeedCSV_DefaultTypeAndMissingColumns(t *testing.T) {
	seeds, err := users.ParseSeedCSV(strings.NewReader("username,email,first_name,last_name,password\na,a@example.com,A,B,pw123456\n"))
	require.NoError(t, err)
	require.Equal(t, "employee", seeds[0].Type)

	_, err = users.ParseSeedCSV(strings.NewReader("username,email\na,a@example.com\n"))
	require.Error(t, err)
}

func TestSeed_SkipsExisting(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	seeds, err := users.ParseSeedCSV(strings.NewReader(seedCSV))
	require.NoError(t, err)

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	created, skipped, err := users.Seed(repo, seeds, now)
	require.NoError(t, err)
	require.Equal(t, 2, created)
	require.Zero(t, skipped)

	created, skipped, err = users.Seed(repo, seeds, now)
	require.NoError(t, err)
	require.Zero(t, created)
	require.Equal(t, 2, skipped)

	account, err := repo.GetByEmail("HSMITH@example.com")
	require.NoError(t, err)
	require.Equal(t, users.RoleHR, account.Role())
	require.Equal(t, "Helen Smith", account.FullName)
	require.True(t, users.CheckPasswordHash("secret456", account.PasswordHash))
	require.Equal(t, "2025-03-01T09:00:00Z", account.DateJoined)

	list, err := repo.List(0, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, int64(1), list[0].ID)
}
