package member

import (
	"testing"
	"time"

	"github.com/osisproject0-hub/osis-sub000/core"
)

func TestMakeVerifyToken(t *testing.T) {
	conf := &core.Config{
		SecretKey:                 "secret",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}

	active := true
	now := time.Now()
	mbr := Member{
		ID:        "39f48b10-6ad3-46bd-a5b0-9abfa87c31ab",
		Name:      "T",
		Username:  "t",
		Email:     "t@test.test",
		IsActive:  &active,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	_ = mbr.SetPassword("pwd")

	validToken, err := MakeToken(conf, mbr)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}

	// generate an expired token
	dayLate := conf.PasswordResetTimeoutDelta + (24 * time.Hour)
	NowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken, err := MakeToken(conf, mbr)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}
	NowFunc = time.Now // reset

	tests := []struct {
		name    string
		mbr     Member
		token   string
		wantErr error
	}{
		{name: "no token", mbr: mbr, wantErr: errInvalidToken},
		{name: "invalid parts len", mbr: mbr, token: "lmaooolol", wantErr: errInvalidToken},
		{name: "invalid base32", mbr: mbr, token: "hahaha-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid timestamp", mbr: mbr, token: "NRXWY-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid token", mbr: mbr, token: "HE4TS-sigsig-sig", wantErr: errInvalidToken},
		{name: "expired token", mbr: mbr, token: expiredToken, wantErr: errTokenExpired},
		{name: "valid token", mbr: mbr, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := verifyToken(conf, tt.mbr, tt.token); err != tt.wantErr {
				t.Errorf("verifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
