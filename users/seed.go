package users

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

var seedColumns = []string{"username", "email", "first_name", "last_name", "type", "password"}

// SeedUser is one row of a user seed file.
type SeedUser struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Type      string
	Password  string
}

// ParseSeedCSV reads a seed file with a header row naming the columns
// username, email, first_name, last_name, type and password. type may be
// omitted and defaults to employee.
func ParseSeedCSV(r io.Reader) ([]SeedUser, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("[users ParseSeedCSV] reading header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range seedColumns {
		if _, ok := index[col]; !ok && col != "type" {
			return nil, fmt.Errorf("[users ParseSeedCSV] missing column %q", col)
		}
	}

	field := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var seeds []SeedUser
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("[users ParseSeedCSV] line %d: %w", line, err)
		}
		s := SeedUser{
			Username:  field(row, "username"),
			Email:     field(row, "email"),
			FirstName: field(row, "first_name"),
			LastName:  field(row, "last_name"),
			Type:      strings.ToLower(field(row, "type")),
			Password:  field(row, "password"),
		}
		if s.Type == "" {
			s.Type = RoleEmployee.String()
		}
		seeds = append(seeds, s)
	}
	return seeds, nil
}

// Account hashes the seed's password and builds the stored account.
func (s SeedUser) Account(joined time.Time) (*Account, error) {
	if s.Email == "" || s.Password == "" {
		return nil, fmt.Errorf("seed user %q needs an email and a password", s.Username)
	}
	hash, err := HashPassword(s.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password for %s: %w", s.Email, err)
	}
	return &Account{
		User: User{
			Username:   s.Username,
			Email:      s.Email,
			FirstName:  s.FirstName,
			LastName:   s.LastName,
			FullName:   strings.TrimSpace(s.FirstName + " " + s.LastName),
			Type:       s.Type,
			IsActive:   true,
			DateJoined: joined.UTC().Format(time.RFC3339),
		},
		PasswordHash: hash,
	}, nil
}

// Seed adds every seed user not already present by username or email.
// It returns how many were created and how many skipped.
func Seed(repo Repo, seeds []SeedUser, now time.Time) (created, skipped int, err error) {
	for _, s := range seeds {
		if _, err := repo.GetByEmail(s.Email); err == nil {
			skipped++
			continue
		}
		if s.Username != "" {
			if _, err := repo.GetByUsername(s.Username); err == nil {
				skipped++
				continue
			}
		}
		account, err := s.Account(now)
		if err != nil {
			return created, skipped, err
		}
		if err := repo.Upsert(account); err != nil {
			return created, skipped, fmt.Errorf("storing %s: %w", s.Email, err)
		}
		created++
	}
	return created, skipped, nil
}
