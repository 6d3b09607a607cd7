package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/osisproject0-hub/osis-sub000/core"
	"github.com/osisproject0-hub/osis-sub000/core/election"
	"github.com/osisproject0-hub/osis-sub000/core/member"
)

func NewConfig() *core.Config {
	return &core.Config{
		Debug:                     true,
		TestMode:                  true,
		Env:                       "TEST",
		AppName:                   "Osiris",
		SecretKey:                 "s3kr3t",
		FrontendBaseURL:           "http://localhost:3000",
		DefaultFromName:           "Osiris",
		DefaultFromAddr:           "noreply@test.local",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta:        7 * 24 * time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

func CreateMember(
	t *testing.T,
	repo member.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) member.Member {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	mbr := member.Member{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  &isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := mbr.SetPassword(pwd); err != nil {
			t.Fatalf("createMember() failed: %v", err)
		}
	}
	mbr, err := repo.CreateMember(context.Background(), mbr)
	if err != nil {
		t.Fatalf("createMember() failed: %v", err)
	}
	return mbr
}

func CreateCandidate(t *testing.T, repo election.Repository, name string, order int) election.Candidate {
	now := time.Now().UTC()
	cand, err := repo.CreateCandidate(context.Background(), election.Candidate{
		Name:      name,
		Vision:    "a better school",
		Mission:   "do the work",
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("createCandidate() failed: %v", err)
	}
	return cand
}

func OpenBalloting(t *testing.T, repo election.Repository, title string) election.Control {
	ctl, err := repo.SaveControl(context.Background(), election.Control{
		Title:  title,
		IsOpen: true,
	})
	if err != nil {
		t.Fatalf("openBalloting() failed: %v", err)
	}
	return ctl
}
