package org_test

import (
	"context"
	"errors"
	"testing"

	"github.com/osisproject0-hub/osis-sub000/core/org"
	dummydb "github.com/osisproject0-hub/osis-sub000/storage/database/dummy"
)

func newTestService(t *testing.T) *org.Service {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	return org.NewService(dummydb.NewOrgRepository(db))
}

func TestCreateDivision(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	div, err := svc.CreateDivision(ctx, org.NewDivision{Name: "Sekbid 1", Description: "ketakwaan"})
	if err != nil {
		t.Fatalf("CreateDivision() failed: %v", err)
	}
	if div.ID == "" {
		t.Error("CreateDivision() returned an empty ID")
	}

	// duplicate name rejected
	_, err = svc.CreateDivision(ctx, org.NewDivision{Name: "Sekbid 1"})
	if !errors.Is(err, org.ErrDivisionExists) {
		t.Errorf("CreateDivision() error = %v, want %v", err, org.ErrDivisionExists)
	}
}

func TestWorkPrograms(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	div, err := svc.CreateDivision(ctx, org.NewDivision{Name: "Sekbid 1"})
	if err != nil {
		t.Fatalf("CreateDivision() failed: %v", err)
	}
	other, err := svc.CreateDivision(ctx, org.NewDivision{Name: "Sekbid 2"})
	if err != nil {
		t.Fatalf("CreateDivision() failed: %v", err)
	}

	prog, err := svc.CreateWorkProgram(ctx, org.NewWorkProgram{
		DivisionID: div.ID,
		Title:      "Pesantren kilat",
		Quarter:    "2026-q2",
	})
	if err != nil {
		t.Fatalf("CreateWorkProgram() failed: %v", err)
	}
	if prog.Status != org.ProgramPlanned {
		t.Errorf("Status = %q, want %q", prog.Status, org.ProgramPlanned)
	}
	if _, err = svc.CreateWorkProgram(ctx, org.NewWorkProgram{
		DivisionID: other.ID,
		Title:      "Porak",
		Quarter:    "2026-q3",
	}); err != nil {
		t.Fatalf("CreateWorkProgram() failed: %v", err)
	}

	got, err := svc.QueryWorkPrograms(ctx, div.ID)
	if err != nil {
		t.Fatalf("QueryWorkPrograms() failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != prog.ID {
		t.Errorf("QueryWorkPrograms() = %+v, want [%s]", got, prog.ID)
	}

	updated, err := svc.UpdateWorkProgram(ctx, prog.ID, org.UpdateWorkProgram{
		Title:       prog.Title,
		Description: prog.Description,
		Quarter:     prog.Quarter,
		Status:      org.ProgramOngoing,
	})
	if err != nil {
		t.Fatalf("UpdateWorkProgram() failed: %v", err)
	}
	if updated.Status != org.ProgramOngoing {
		t.Errorf("Status = %q, want %q", updated.Status, org.ProgramOngoing)
	}
	if updated.Title != prog.Title {
		t.Errorf("Title = %q, want unchanged %q", updated.Title, prog.Title)
	}
}

func TestGetDivision_notFound(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.GetDivision(context.Background(), "nope"); !errors.Is(err, org.ErrDivisionNotFound) {
		t.Errorf("GetDivision() error = %v, want %v", err, org.ErrDivisionNotFound)
	}
}
