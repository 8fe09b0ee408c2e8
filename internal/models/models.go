package models

// Record is a row the store can insert. SetID receives the surrogate key
// assigned by the database.
type Record interface {
	Table() string
	Columns() []string
	Values() []interface{}
	SetID(id int64)
}

const (
	TableUsers       = "users"
	TablePackages    = "packages"
	TableIndustries  = "industries"
	TableCredits     = "credits"
	TableProductions = "productions"
)

// DeleteOrder lists tables children first so bulk deletes never trip a
// foreign key.
var DeleteOrder = []string{TableCredits, TableProductions, TablePackages, TableIndustries, TableUsers}

// InsertOrder lists tables parents first.
var InsertOrder = []string{TableUsers, TablePackages, TableIndustries, TableCredits, TableProductions}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var Roles = []Role{RoleUser, RoleAdmin}

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type PackageName string

const (
	PackagePlatinum  PackageName = "Platinum"
	PackageGold      PackageName = "Gold"
	PackageSilver    PackageName = "Silver"
	PackageBronze    PackageName = "Bronze"
	PackageMwananchi PackageName = "Mwananchi"
)

// PackageNames is the closed set of package tiers, in seeding order.
var PackageNames = []PackageName{PackagePlatinum, PackageGold, PackageSilver, PackageBronze, PackageMwananchi}

func (p PackageName) Valid() bool {
	for _, name := range PackageNames {
		if p == name {
			return true
		}
	}
	return false
}

// MaxUsernameLength is the width of users.username after migration 0002.
const MaxUsernameLength = 50

type User struct {
	ID        int64  `json:"id" yaml:"id"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Role      Role   `json:"role" yaml:"role"`
	Username  string `json:"username" yaml:"username"`
	Email     string `json:"email" yaml:"email"`
	Password  string `json:"password" yaml:"password"`
	Active    bool   `json:"active" yaml:"active"`
}

func (u *User) Table() string { return TableUsers }

func (u *User) Columns() []string {
	return []string{"first_name", "last_name", "role", "username", "email", "password", "active"}
}

func (u *User) Values() []interface{} {
	return []interface{}{u.FirstName, u.LastName, string(u.Role), u.Username, u.Email, u.Password, u.Active}
}

func (u *User) SetID(id int64) { u.ID = id }

type Package struct {
	ID          int64       `json:"id" yaml:"id"`
	PackageName PackageName `json:"package_name" yaml:"package_name"`
	Rate        float64     `json:"rate" yaml:"rate"`
	Amount      int         `json:"amount" yaml:"amount"`
}

func (p *Package) Table() string { return TablePackages }

func (p *Package) Columns() []string {
	return []string{"package_name", "rate", "amount"}
}

func (p *Package) Values() []interface{} {
	return []interface{}{string(p.PackageName), p.Rate, p.Amount}
}

func (p *Package) SetID(id int64) { p.ID = id }

type Industry struct {
	ID              int64  `json:"id" yaml:"id"`
	IndustryType    string `json:"industry_type" yaml:"industry_type"`
	IndustryName    string `json:"industry_name" yaml:"industry_name"`
	Address         string `json:"address" yaml:"address"`
	CollectionPoint string `json:"collection_point" yaml:"collection_point"`
	ContactPerson   string `json:"contact_person" yaml:"contact_person"`
}

func (i *Industry) Table() string { return TableIndustries }

func (i *Industry) Columns() []string {
	return []string{"industry_type", "industry_name", "address", "collection_point", "contact_person"}
}

func (i *Industry) Values() []interface{} {
	return []interface{}{i.IndustryType, i.IndustryName, i.Address, i.CollectionPoint, i.ContactPerson}
}

func (i *Industry) SetID(id int64) { i.ID = id }

type Credit struct {
	ID           int64   `json:"id" yaml:"id"`
	PackageID    int64   `json:"package_id" yaml:"package_id"`
	UserID       int64   `json:"user_id" yaml:"user_id"`
	CreditAmount float64 `json:"credit_amount" yaml:"credit_amount"`
}

func (c *Credit) Table() string { return TableCredits }

func (c *Credit) Columns() []string {
	return []string{"package_id", "user_id", "credit_amount"}
}

func (c *Credit) Values() []interface{} {
	return []interface{}{c.PackageID, c.UserID, c.CreditAmount}
}

func (c *Credit) SetID(id int64) { c.ID = id }

type Production struct {
	ID                int64  `json:"id" yaml:"id"`
	Produce           string `json:"produce" yaml:"produce"`
	ProductionInKilos int    `json:"production_in_kilos" yaml:"production_in_kilos"`
	SalePrice         int    `json:"sale_price" yaml:"sale_price"`
	UserID            int64  `json:"user_id" yaml:"user_id"`
	IndustryID        int64  `json:"industry_id" yaml:"industry_id"`
}

func (p *Production) Table() string { return TableProductions }

func (p *Production) Columns() []string {
	return []string{"produce", "production_in_kilos", "sale_price", "user_id", "industry_id"}
}

func (p *Production) Values() []interface{} {
	return []interface{}{p.Produce, p.ProductionInKilos, p.SalePrice, p.UserID, p.IndustryID}
}

func (p *Production) SetID(id int64) { p.ID = id }
