package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rana718/agriseed/internal/models"
	"github.com/Rana718/agriseed/internal/store"
)

// Seeder wipes and repopulates the demo dataset through a session. Every
// step is one transaction; a failed step is rolled back and reported.
type Seeder struct {
	session   store.Session
	generator *DataGenerator
	opts      Options
	out       Printer
}

func New(session store.Session, opts Options) *Seeder {
	return &Seeder{
		session:   session,
		generator: NewDataGenerator(opts.Seed),
		opts:      opts,
		out:       ColorPrinter(),
	}
}

// WithPrinter replaces the console printer.
func (s *Seeder) WithPrinter(p Printer) *Seeder {
	s.out = p
	return s
}

// fail rolls back the open transaction and wraps err with the step name.
func (s *Seeder) fail(step string, err error) error {
	if rbErr := s.session.Rollback(); rbErr != nil {
		err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
	}
	return &StepError{Step: step, Err: err}
}

func (s *Seeder) persist(ctx context.Context, step string, records []models.Record) error {
	if err := s.session.AddAll(ctx, records...); err != nil {
		return s.fail(step, err)
	}
	if err := s.session.Commit(); err != nil {
		return s.fail(step, err)
	}
	return nil
}

// ClearAll deletes every row of the five tables, children first, and
// commits once. On failure nothing is deleted.
func (s *Seeder) ClearAll(ctx context.Context) error {
	if err := s.session.DeleteAll(ctx, models.DeleteOrder...); err != nil {
		err = s.fail(StepClear, err)
		s.out.Error("❌ An error occurred while deleting existing data: %v", err)
		return err
	}
	if err := s.session.Commit(); err != nil {
		err = s.fail(StepClear, err)
		s.out.Error("❌ An error occurred while deleting existing data: %v", err)
		return err
	}
	s.out.Success("🗑️  Existing data deleted.")
	return nil
}

func (s *Seeder) GenerateUsers(ctx context.Context, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	records := make([]models.Record, 0, n)
	for i := 0; i < n; i++ {
		u := &models.User{
			FirstName: s.generator.FirstName(),
			LastName:  s.generator.LastName(),
			Role:      s.generator.Role(),
			Username:  s.generator.Username(),
			Email:     s.generator.Email(),
			Password:  s.generator.Password(),
			Active:    true,
		}
		users = append(users, u)
		records = append(records, u)
	}

	if err := s.persist(ctx, StepUsers, records); err != nil {
		s.out.Error("❌ An error occurred while seeding users: %v", err)
		return nil, err
	}
	s.out.Success("✅ Users seeded (%d).", len(users))
	return users, nil
}

// GeneratePackages creates one package per tier in models.PackageNames.
func (s *Seeder) GeneratePackages(ctx context.Context) ([]*models.Package, error) {
	packages := make([]*models.Package, 0, len(models.PackageNames))
	records := make([]models.Record, 0, len(models.PackageNames))
	for _, name := range models.PackageNames {
		p := &models.Package{
			PackageName: name,
			Rate:        float64(s.generator.Digits(2)),
			Amount:      s.generator.Digits(5),
		}
		packages = append(packages, p)
		records = append(records, p)
	}

	if err := s.persist(ctx, StepPackages, records); err != nil {
		s.out.Error("❌ An error occurred while seeding packages: %v", err)
		return nil, err
	}
	s.out.Success("✅ Packages seeded (%d).", len(packages))
	return packages, nil
}

func (s *Seeder) GenerateIndustries(ctx context.Context, n int) ([]*models.Industry, error) {
	industries := make([]*models.Industry, 0, n)
	records := make([]models.Record, 0, n)
	for i := 0; i < n; i++ {
		ind := &models.Industry{
			IndustryType:    s.generator.Word(),
			IndustryName:    s.generator.Company(),
			Address:         s.generator.Address(),
			CollectionPoint: s.generator.City(),
			ContactPerson:   s.generator.Name(),
		}
		industries = append(industries, ind)
		records = append(records, ind)
	}

	if err := s.persist(ctx, StepIndustries, records); err != nil {
		s.out.Error("❌ An error occurred while seeding industries: %v", err)
		return nil, err
	}
	s.out.Success("✅ Industries seeded (%d).", len(industries))
	return industries, nil
}

// GenerateCredits creates n credits, each referencing a user and a package
// chosen uniformly with replacement.
func (s *Seeder) GenerateCredits(ctx context.Context, users []*models.User, packages []*models.Package, n int) ([]*models.Credit, error) {
	if len(users) == 0 || len(packages) == 0 {
		return nil, &StepError{Step: StepCredits, Err: ErrNoParents}
	}

	credits := make([]*models.Credit, 0, n)
	records := make([]models.Record, 0, n)
	for i := 0; i < n; i++ {
		c := &models.Credit{
			PackageID:    packages[s.generator.Pick(len(packages))].ID,
			CreditAmount: float64(s.generator.Digits(3)),
			UserID:       users[s.generator.Pick(len(users))].ID,
		}
		credits = append(credits, c)
		records = append(records, c)
	}

	if err := s.persist(ctx, StepCredits, records); err != nil {
		s.out.Error("❌ An error occurred while seeding credits: %v", err)
		return nil, err
	}
	s.out.Success("✅ Credits seeded (%d).", len(credits))
	return credits, nil
}

// GenerateProductions creates n productions, each referencing a user and an
// industry chosen uniformly with replacement.
func (s *Seeder) GenerateProductions(ctx context.Context, users []*models.User, industries []*models.Industry, n int) ([]*models.Production, error) {
	if len(users) == 0 || len(industries) == 0 {
		return nil, &StepError{Step: StepProductions, Err: ErrNoParents}
	}

	productions := make([]*models.Production, 0, n)
	records := make([]models.Record, 0, n)
	for i := 0; i < n; i++ {
		p := &models.Production{
			Produce:           s.generator.Produce(),
			ProductionInKilos: s.generator.Digits(2),
			SalePrice:         s.generator.Digits(2),
			UserID:            users[s.generator.Pick(len(users))].ID,
			IndustryID:        industries[s.generator.Pick(len(industries))].ID,
		}
		productions = append(productions, p)
		records = append(records, p)
	}

	if err := s.persist(ctx, StepProductions, records); err != nil {
		s.out.Error("❌ An error occurred while seeding productions: %v", err)
		return nil, err
	}
	s.out.Success("✅ Productions seeded (%d).", len(productions))
	return productions, nil
}

// Run clears the dataset and repopulates it in dependency order. A failed
// step does not stop later independent steps unless Options.FailFast is set;
// children whose parents are missing are skipped.
func (s *Seeder) Run(ctx context.Context) *Report {
	report := &Report{}
	halted := false

	step := func(name string, run func() (int, error)) {
		if halted {
			report.add(StepResult{Step: name, Skipped: true, Reason: "stopped after earlier failure"})
			return
		}
		count, err := run()
		report.add(StepResult{Step: name, Count: count, Err: err})
		if err != nil && s.opts.FailFast {
			halted = true
		}
	}

	skip := func(name, reason string) {
		s.out.Warn("⚠️  Skipping %s: %s", name, reason)
		report.add(StepResult{Step: name, Skipped: true, Reason: reason})
	}

	s.out.Info("🌱 Starting database seeding...")

	step(StepClear, func() (int, error) {
		return 0, s.ClearAll(ctx)
	})

	var (
		users      []*models.User
		packages   []*models.Package
		industries []*models.Industry
	)

	step(StepUsers, func() (int, error) {
		var err error
		users, err = s.GenerateUsers(ctx, s.opts.Users)
		return len(users), err
	})
	step(StepPackages, func() (int, error) {
		var err error
		packages, err = s.GeneratePackages(ctx)
		return len(packages), err
	})
	step(StepIndustries, func() (int, error) {
		var err error
		industries, err = s.GenerateIndustries(ctx, s.opts.Industries)
		return len(industries), err
	})

	if !halted && (len(users) == 0 || len(packages) == 0) {
		skip(StepCredits, "no users or packages available")
	} else {
		step(StepCredits, func() (int, error) {
			credits, err := s.GenerateCredits(ctx, users, packages, s.opts.Credits)
			return len(credits), err
		})
	}

	if !halted && (len(users) == 0 || len(industries) == 0) {
		skip(StepProductions, "no users or industries available")
	} else {
		step(StepProductions, func() (int, error) {
			productions, err := s.GenerateProductions(ctx, users, industries, s.opts.Productions)
			return len(productions), err
		})
	}

	if failed := report.Failed(); len(failed) > 0 {
		s.out.Warn("⚠️  Seeding finished with %d failed step(s).", len(failed))
	} else {
		s.out.Success("\n✅ Seeding completed!")
	}
	return report
}

// IsStepError reports whether err came from the named step.
func IsStepError(err error, step string) bool {
	var stepErr *StepError
	return errors.As(err, &stepErr) && stepErr.Step == step
}
