package seeder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rana718/agriseed/internal/models"
	"github.com/Rana718/agriseed/internal/seeder"
	"github.com/Rana718/agriseed/internal/store"
	"github.com/Rana718/agriseed/internal/testutil"
)

var errInjected = errors.New("injected failure")

// faultySession fails inserts into failTable, and fails DeleteAll after the
// wrapped session has already deleted the rows when failDelete is set.
type faultySession struct {
	store.Session
	failTable  string
	failDelete bool
	calls      int
	rollbacks  int
}

func (f *faultySession) DeleteAll(ctx context.Context, tables ...string) error {
	f.calls++
	if err := f.Session.DeleteAll(ctx, tables...); err != nil {
		return err
	}
	if f.failDelete {
		return errInjected
	}
	return nil
}

func (f *faultySession) AddAll(ctx context.Context, records ...models.Record) error {
	f.calls++
	if len(records) > 0 && records[0].Table() == f.failTable {
		return errInjected
	}
	return f.Session.AddAll(ctx, records...)
}

func (f *faultySession) Commit() error {
	f.calls++
	return f.Session.Commit()
}

func (f *faultySession) Rollback() error {
	f.rollbacks++
	return f.Session.Rollback()
}

func testOptions() seeder.Options {
	opts := seeder.DefaultOptions()
	opts.Seed = 2024
	return opts
}

func newSeeder(session store.Session, opts seeder.Options) *seeder.Seeder {
	return seeder.New(session, opts).WithPrinter(seeder.Discard)
}

func assertCounts(t *testing.T, db *store.DB, want map[string]int64) {
	t.Helper()
	got, err := store.Counts(context.Background(), db, models.InsertOrder...)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	for table, n := range want {
		if got[table] != n {
			t.Errorf("expected %d rows in %s, got %d", n, table, got[table])
		}
	}
}

func assertNoOrphans(t *testing.T, db *store.DB) {
	t.Helper()
	orphans, err := store.Orphans(context.Background(), db)
	if err != nil {
		t.Fatalf("orphans: %v", err)
	}
	for ref, n := range orphans {
		if n != 0 {
			t.Errorf("expected no orphans for %s, got %d", ref, n)
		}
	}
}

var fullDataset = map[string]int64{
	models.TableUsers:       3,
	models.TablePackages:    5,
	models.TableIndustries:  5,
	models.TableCredits:     20,
	models.TableProductions: 20,
}

func TestRunSeedsFullDataset(t *testing.T) {
	db := testutil.OpenMigratedSQLite(t, "seeder_full")

	report := newSeeder(store.NewSession(db), testOptions()).Run(context.Background())
	if err := report.Err(); err != nil {
		t.Fatalf("run: %v", err)
	}

	assertCounts(t, db, fullDataset)
	assertNoOrphans(t, db)

	for _, step := range []string{seeder.StepClear, seeder.StepUsers, seeder.StepPackages, seeder.StepIndustries, seeder.StepCredits, seeder.StepProductions} {
		result, ok := report.Step(step)
		if !ok {
			t.Errorf("missing result for %s", step)
			continue
		}
		if result.Skipped || result.Err != nil {
			t.Errorf("expected %s to succeed, got %+v", step, result)
		}
	}
	if result, _ := report.Step(seeder.StepCredits); result.Count != 20 {
		t.Errorf("expected 20 credits reported, got %d", result.Count)
	}
}

func TestRunIsRepeatable(t *testing.T) {
	db := testutil.OpenMigratedSQLite(t, "seeder_repeat")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		opts := testOptions()
		opts.Seed = int64(100 + i)
		if err := newSeeder(store.NewSession(db), opts).Run(ctx).Err(); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	assertCounts(t, db, fullDataset)
	assertNoOrphans(t, db)
}

func TestRunHonorsConfiguredCounts(t *testing.T) {
	db := testutil.OpenMigratedSQLite(t, "seeder_counts")

	opts := testOptions()
	opts.Users, opts.Industries, opts.Credits, opts.Productions = 7, 2, 4, 9
	if err := newSeeder(store.NewSession(db), opts).Run(context.Background()).Err(); err != nil {
		t.Fatalf("run: %v", err)
	}

	assertCounts(t, db, map[string]int64{
		models.TableUsers:       7,
		models.TablePackages:    5,
		models.TableIndustries:  2,
		models.TableCredits:     4,
		models.TableProductions: 9,
	})
}

func TestPackagesCoverEveryTier(t *testing.T) {
	db := testutil.OpenMigratedSQLite(t, "seeder_packages")
	session := store.NewSession(db)

	packages, err := newSeeder(session, testOptions()).GeneratePackages(context.Background())
	if err != nil {
		t.Fatalf("generate packages: %v", err)
	}
	if len(packages) != len(models.PackageNames) {
		t.Fatalf("expected %d packages, got %d", len(models.PackageNames), len(packages))
	}
	for i, p := range packages {
		if p.PackageName != models.PackageNames[i] {
			t.Errorf("package %d: expected %s, got %s", i, models.PackageNames[i], p.PackageName)
		}
		if p.ID == 0 {
			t.Errorf("package %s has no id", p.PackageName)
		}
		if p.Rate < 0 || p.Rate > 99 || p.Amount < 0 || p.Amount > 99999 {
			t.Errorf("package %s out of range: rate %v amount %d", p.PackageName, p.Rate, p.Amount)
		}
	}
}

func TestUsersAreActiveWithValidRoles(t *testing.T) {
	db := testutil.OpenMigratedSQLite(t, "seeder_users")

	users, err := newSeeder(store.NewSession(db), testOptions()).GenerateUsers(context.Background(), 25)
	if err != nil {
		t.Fatalf("generate users: %v", err)
	}
	seen := make(map[string]bool)
	for _, u := range users {
		if !u.Active {
			t.Errorf("user %s is not active", u.Username)
		}
		if !u.Role.Valid() {
			t.Errorf("user %s has role %q", u.Username, u.Role)
		}
		if len(u.Username) > models.MaxUsernameLength {
			t.Errorf("username %q too long", u.Username)
		}
		if seen[u.Username] {
			t.Errorf("duplicate username %q", u.Username)
		}
		seen[u.Username] = true
	}
}

func TestChildrenReferenceSeededParents(t *testing.T) {
	db := testutil.OpenMigratedSQLite(t, "seeder_closure")
	s := newSeeder(store.NewSession(db), testOptions())
	ctx := context.Background()

	users, err := s.GenerateUsers(ctx, 3)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	packages, err := s.GeneratePackages(ctx)
	if err != nil {
		t.Fatalf("packages: %v", err)
	}
	industries, err := s.GenerateIndustries(ctx, 5)
	if err != nil {
		t.Fatalf("industries: %v", err)
	}
	credits, err := s.GenerateCredits(ctx, users, packages, 20)
	if err != nil {
		t.Fatalf("credits: %v", err)
	}
	productions, err := s.GenerateProductions(ctx, users, industries, 20)
	if err != nil {
		t.Fatalf("productions: %v", err)
	}

	userIDs := make(map[int64]bool)
	for _, u := range users {
		userIDs[u.ID] = true
	}
	packageIDs := make(map[int64]bool)
	for _, p := range packages {
		packageIDs[p.ID] = true
	}
	industryIDs := make(map[int64]bool)
	for _, i := range industries {
		industryIDs[i.ID] = true
	}

	for _, c := range credits {
		if !userIDs[c.UserID] || !packageIDs[c.PackageID] {
			t.Errorf("credit %d references unknown parent: %+v", c.ID, c)
		}
	}
	for _, p := range productions {
		if !userIDs[p.UserID] || !industryIDs[p.IndustryID] {
			t.Errorf("production %d references unknown parent: %+v", p.ID, p)
		}
		if p.Produce == "" {
			t.Errorf("production %d has no produce", p.ID)
		}
	}
}

func TestChildStepsRequireParents(t *testing.T) {
	db := testutil.OpenMigratedSQLite(t, "seeder_no_parents")
	session := &faultySession{Session: store.NewSession(db)}
	s := newSeeder(session, testOptions())
	ctx := context.Background()

	_, err := s.GenerateCredits(ctx, nil, []*models.Package{{ID: 1}}, 5)
	if !errors.Is(err, seeder.ErrNoParents) || !seeder.IsStepError(err, seeder.StepCredits) {
		t.Fatalf("expected credits ErrNoParents, got %v", err)
	}
	_, err = s.GenerateProductions(ctx, []*models.User{{ID: 1}}, nil, 5)
	if !errors.Is(err, seeder.ErrNoParents) || !seeder.IsStepError(err, seeder.StepProductions) {
		t.Fatalf("expected productions ErrNoParents, got %v", err)
	}
	if session.calls != 0 || session.rollbacks != 0 {
		t.Errorf("expected session untouched, got %d calls and %d rollbacks", session.calls, session.rollbacks)
	}
}

func TestUsersFailureSkipsDependents(t *testing.T) {
	db := testutil.OpenMigratedSQLite(t, "seeder_users_fail")
	session := &faultySession{Session: store.NewSession(db), failTable: models.TableUsers}

	report := newSeeder(session, testOptions()).Run(context.Background())

	users, _ := report.Step(seeder.StepUsers)
	if !errors.Is(users.Err, errInjected) || !seeder.IsStepError(users.Err, seeder.StepUsers) {
		t.Fatalf("expected users step to fail, got %+v", users)
	}
	for _, step := range []string{seeder.StepCredits, seeder.StepProductions} {
		result, _ := report.Step(step)
		if !result.Skipped {
			t.Errorf("expected %s to be skipped, got %+v", step, result)
		}
	}
	for _, step := range []string{seeder.StepPackages, seeder.StepIndustries} {
		result, _ := report.Step(step)
		if result.Err != nil || result.Skipped {
			t.Errorf("expected %s to succeed, got %+v", step, result)
		}
	}
	if len(report.Failed()) != 1 || report.Err() == nil {
		t.Errorf("expected exactly one failed step, got %d", len(report.Failed()))
	}

	assertCounts(t, db, map[string]int64{
		models.TableUsers:       0,
		models.TablePackages:    5,
		models.TableIndustries:  5,
		models.TableCredits:     0,
		models.TableProductions: 0,
	})
}

func TestIndustriesFailureKeepsCredits(t *testing.T) {
	db := testutil.OpenMigratedSQLite(t, "seeder_industries_fail")
	session := &faultySession{Session: store.NewSession(db), failTable: models.TableIndustries}

	report := newSeeder(session, testOptions()).Run(context.Background())

	if result, _ := report.Step(seeder.StepIndustries); result.Err == nil {
		t.Fatal("expected industries step to fail")
	}
	if result, _ := report.Step(seeder.StepCredits); result.Err != nil || result.Count != 20 {
		t.Errorf("expected 20 credits, got %+v", result)
	}
	if result, _ := report.Step(seeder.StepProductions); !result.Skipped {
		t.Errorf("expected productions to be skipped, got %+v", result)
	}

	assertCounts(t, db, map[string]int64{
		models.TableUsers:       3,
		models.TablePackages:    5,
		models.TableIndustries:  0,
		models.TableCredits:     20,
		models.TableProductions: 0,
	})
	assertNoOrphans(t, db)
}

func TestFailFastStopsAtFirstFailure(t *testing.T) {
	db := testutil.OpenMigratedSQLite(t, "seeder_fail_fast")
	session := &faultySession{Session: store.NewSession(db), failTable: models.TableUsers}

	opts := testOptions()
	opts.FailFast = true
	report := newSeeder(session, opts).Run(context.Background())

	for _, step := range []string{seeder.StepPackages, seeder.StepIndustries, seeder.StepCredits, seeder.StepProductions} {
		result, ok := report.Step(step)
		if !ok || !result.Skipped {
			t.Errorf("expected %s to be skipped, got %+v", step, result)
		}
	}
	assertCounts(t, db, map[string]int64{
		models.TablePackages:   0,
		models.TableIndustries: 0,
	})
}

func TestClearAllFailureKeepsData(t *testing.T) {
	db := testutil.OpenMigratedSQLite(t, "seeder_clear_fail")
	ctx := context.Background()

	if err := newSeeder(store.NewSession(db), testOptions()).Run(ctx).Err(); err != nil {
		t.Fatalf("initial run: %v", err)
	}

	session := &faultySession{Session: store.NewSession(db), failDelete: true}
	err := newSeeder(session, testOptions()).ClearAll(ctx)
	if !errors.Is(err, errInjected) || !seeder.IsStepError(err, seeder.StepClear) {
		t.Fatalf("expected clear step error, got %v", err)
	}
	if session.rollbacks != 1 {
		t.Errorf("expected one rollback, got %d", session.rollbacks)
	}

	assertCounts(t, db, fullDataset)
}

func TestClearAllEmptiesTables(t *testing.T) {
	db := testutil.OpenMigratedSQLite(t, "seeder_clear")
	ctx := context.Background()

	if err := newSeeder(store.NewSession(db), testOptions()).Run(ctx).Err(); err != nil {
		t.Fatalf("initial run: %v", err)
	}
	if err := newSeeder(store.NewSession(db), testOptions()).ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	assertCounts(t, db, map[string]int64{
		models.TableUsers:       0,
		models.TablePackages:    0,
		models.TableIndustries:  0,
		models.TableCredits:     0,
		models.TableProductions: 0,
	})
}
