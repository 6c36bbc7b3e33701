package fakeuserrepo

import (
	"sort"
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/referral-portal/internal/errors"
	"github.com/jrsteele09/referral-portal/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	accounts map[int64]*users.Account
	emailIDs map[string]int64 // lower-cased email to id
	nameIDs  map[string]int64 // username to id
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeUserRepo() users.Repo {
	return &FakeUserRepo{
		accounts: make(map[int64]*users.Account),
		emailIDs: make(map[string]int64),
		nameIDs:  make(map[string]int64),
	}
}

func (ur *FakeUserRepo) Upsert(account *users.Account) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if account.ID == 0 {
		ur.nextID++
		account.ID = ur.nextID
	} else if account.ID > ur.nextID {
		ur.nextID = account.ID
	}
	if prev, ok := ur.accounts[account.ID]; ok {
		delete(ur.emailIDs, strings.ToLower(prev.Email))
		delete(ur.nameIDs, prev.Username)
	}
	ur.accounts[account.ID] = account
	ur.emailIDs[strings.ToLower(account.Email)] = account.ID
	if account.Username != "" {
		ur.nameIDs[account.Username] = account.ID
	}
	return nil
}

func (ur *FakeUserRepo) GetByEmail(email string) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIDs[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return ur.accounts[id], nil
}

func (ur *FakeUserRepo) GetByUsername(username string) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.nameIDs[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return ur.accounts[id], nil
}

func (ur *FakeUserRepo) GetByID(id int64) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	account, ok := ur.accounts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

func (ur *FakeUserRepo) List(offset, limit int) ([]*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	list := make([]*users.Account, 0, len(ur.accounts))
	for _, v := range ur.accounts {
		list = append(list, v)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})

	if offset >= len(list) {
		return nil, nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end], nil
}
