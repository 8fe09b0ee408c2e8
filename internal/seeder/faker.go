package seeder

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/Rana718/agriseed/internal/models"
)

const maxUniqueAttempts = 10

// DataGenerator produces field values for seeded records. Usernames and
// emails are unique for the generator's lifetime.
type DataGenerator struct {
	faker     *gofakeit.Faker
	rand      *rand.Rand
	usernames map[string]bool
	emails    map[string]bool
	counter   int
}

// NewDataGenerator returns a generator seeded with seed, or with the clock
// when seed is zero.
func NewDataGenerator(seed int64) *DataGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &DataGenerator{
		faker:     gofakeit.New(seed),
		rand:      rand.New(rand.NewSource(seed)),
		usernames: make(map[string]bool),
		emails:    make(map[string]bool),
	}
}

func (g *DataGenerator) FirstName() string { return g.faker.FirstName() }

func (g *DataGenerator) LastName() string { return g.faker.LastName() }

func (g *DataGenerator) Role() models.Role {
	return models.Roles[g.rand.Intn(len(models.Roles))]
}

// Username returns a username no longer than models.MaxUsernameLength that
// this generator has not returned before.
func (g *DataGenerator) Username() string {
	return g.unique(g.usernames, func() string {
		return truncate(strings.ToLower(g.faker.Username()), models.MaxUsernameLength)
	}, func(base string) string {
		suffix := fmt.Sprintf("%d", g.counter)
		return truncate(base, models.MaxUsernameLength-len(suffix)) + suffix
	})
}

// Email returns an address this generator has not returned before.
func (g *DataGenerator) Email() string {
	return g.unique(g.emails, func() string {
		return strings.ToLower(g.faker.Email())
	}, func(base string) string {
		local, domain, ok := strings.Cut(base, "@")
		if !ok {
			return fmt.Sprintf("%s%d@example.com", base, g.counter)
		}
		return fmt.Sprintf("%s%d@%s", local, g.counter, domain)
	})
}

func (g *DataGenerator) unique(seen map[string]bool, next func() string, disambiguate func(string) string) string {
	var candidate string
	for i := 0; i < maxUniqueAttempts; i++ {
		candidate = next()
		if !seen[candidate] {
			seen[candidate] = true
			return candidate
		}
	}
	base := candidate
	for seen[candidate] {
		g.counter++
		candidate = disambiguate(base)
	}
	seen[candidate] = true
	return candidate
}

func (g *DataGenerator) Password() string {
	return g.faker.Password(true, true, true, false, false, 12)
}

func (g *DataGenerator) Word() string { return g.faker.Word() }

func (g *DataGenerator) Company() string { return g.faker.Company() }

// Address returns a single-line street address.
func (g *DataGenerator) Address() string {
	return strings.ReplaceAll(g.faker.Address().Address, "\n", ", ")
}

func (g *DataGenerator) City() string { return g.faker.City() }

func (g *DataGenerator) Name() string { return g.faker.Name() }

func (g *DataGenerator) Produce() string {
	if g.rand.Intn(2) == 0 {
		return g.faker.Fruit()
	}
	return g.faker.Vegetable()
}

// Digits returns a uniform integer with at most n decimal digits.
func (g *DataGenerator) Digits(n int) int {
	limit := 1
	for i := 0; i < n; i++ {
		limit *= 10
	}
	return g.rand.Intn(limit)
}

// Pick returns a uniform index into a collection of size n.
func (g *DataGenerator) Pick(n int) int {
	return g.rand.Intn(n)
}

func truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}
