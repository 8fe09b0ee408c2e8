package models

import "testing"

func TestRoleValid(t *testing.T) {
	for _, r := range Roles {
		if !r.Valid() {
			t.Errorf("expected %q to be valid", r)
		}
	}
	if Role("superuser").Valid() {
		t.Error("expected unknown role to be invalid")
	}
}

func TestPackageNameValid(t *testing.T) {
	if len(PackageNames) != 5 {
		t.Fatalf("expected 5 package tiers, got %d", len(PackageNames))
	}
	if !PackageMwananchi.Valid() {
		t.Error("expected Mwananchi to be valid")
	}
	if PackageName("Diamond").Valid() {
		t.Error("expected unknown tier to be invalid")
	}
}

func TestRecordColumnsMatchValues(t *testing.T) {
	records := []Record{&User{}, &Package{}, &Industry{}, &Credit{}, &Production{}}
	for _, r := range records {
		if len(r.Columns()) != len(r.Values()) {
			t.Errorf("%s: %d columns but %d values", r.Table(), len(r.Columns()), len(r.Values()))
		}
	}
}

func TestTableOrdersAreMirrored(t *testing.T) {
	position := make(map[string]int, len(InsertOrder))
	for i, table := range InsertOrder {
		position[table] = i
	}
	parents := map[string][]string{
		TableCredits:     {TableUsers, TablePackages},
		TableProductions: {TableUsers, TableIndustries},
	}
	for child, ps := range parents {
		for _, p := range ps {
			if position[p] > position[child] {
				t.Errorf("%s inserted after its child %s", p, child)
			}
		}
	}
	if len(DeleteOrder) != len(InsertOrder) {
		t.Fatal("delete and insert orders cover different tables")
	}
	deletePos := make(map[string]int, len(DeleteOrder))
	for i, table := range DeleteOrder {
		deletePos[table] = i
	}
	for child, ps := range parents {
		for _, p := range ps {
			if deletePos[p] < deletePos[child] {
				t.Errorf("%s deleted before its child %s", p, child)
			}
		}
	}
}
