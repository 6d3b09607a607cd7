package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/osisproject0-hub/osis-sub000/core/member"
	"github.com/osisproject0-hub/osis-sub000/core/org"
	"github.com/osisproject0-hub/osis-sub000/tests"
)

func Test_orgApi_updateDivision(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateMember(t, mbrRepo, "Admin", "admin01", "admin01@test.test", "pwd", member.AdminRoles, true)
	token := getToken(t, admin)

	body := marchallObj(t, org.NewDivision{Name: "Humas", Description: "Public relations and outreach"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/divisions", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating division: code = %v; want %v", rec.Code, http.StatusCreated)
	}
	var div org.Division
	if err := json.Unmarshal(rec.Body.Bytes(), &div); err != nil {
		t.Fatalf("unmarshalling division: %v", err)
	}

	tests := []struct {
		name     string
		body     []byte
		wantName string
		wantDesc string
	}{
		{
			name:     "name only keeps description",
			body:     []byte(`{"name": "Hubungan Masyarakat"}`),
			wantName: "Hubungan Masyarakat",
			wantDesc: "Public relations and outreach",
		},
		{
			name:     "description only keeps name",
			body:     []byte(`{"description": "External communication"}`),
			wantName: "Hubungan Masyarakat",
			wantDesc: "External communication",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, "/v1/divisions/"+div.ID, token, tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
			}
			var updated org.Division
			if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
				t.Fatalf("unmarshalling division: %v", err)
			}
			if updated.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", updated.Name, tt.wantName)
			}
			if updated.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", updated.Description, tt.wantDesc)
			}
		})
	}
}
