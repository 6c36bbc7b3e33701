package users

// Account is a stored user together with its password hash.
type Account struct {
	User
	PasswordHash string `json:"-"`
}

// Repo stores accounts for the development API.
type Repo interface {
	Upsert(account *Account) error
	GetByEmail(email string) (*Account, error)
	GetByUsername(username string) (*Account, error)
	GetByID(id int64) (*Account, error)
	List(offset, limit int) ([]*Account, error)
}
