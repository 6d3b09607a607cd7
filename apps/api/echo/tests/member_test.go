package tests

import (
	"encoding/json"
	"net/http"
	"reflect"
	"testing"

	. "github.com/osisproject0-hub/osis-sub000/apps/api/echo"
	"github.com/osisproject0-hub/osis-sub000/core/member"
	"github.com/osisproject0-hub/osis-sub000/tests"
)

func Test_memberApi_login(t *testing.T) {
	app := setup(t)

	testutil.CreateMember(t, mbrRepo, "Voter", "voter01", "voter01@test.test", "pwd", member.MemberRoles, true)
	testutil.CreateMember(t, mbrRepo, "Ghost", "ghost01", "ghost01@test.test", "pwd", member.MemberRoles, false)

	authFailed := marchallObj(t, httpErr{Error: "authentication failed"})

	tests := []httpTest{
		{
			name:     "login",
			body:     marchallObj(t, LoginRequest{Username: "voter01", Password: "pwd"}),
			wantCode: http.StatusOK,
		},
		{
			name:     "login with email",
			body:     marchallObj(t, LoginRequest{Username: "voter01@test.test", Password: "pwd"}),
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong password",
			body:     marchallObj(t, LoginRequest{Username: "voter01", Password: "nope"}),
			wantCode: http.StatusBadRequest,
			wantData: authFailed,
		},
		{
			name:     "unknown member",
			body:     marchallObj(t, LoginRequest{Username: "who", Password: "pwd"}),
			wantCode: http.StatusBadRequest,
			wantData: authFailed,
		},
		{
			name:     "deactivated account",
			body:     marchallObj(t, LoginRequest{Username: "ghost01", Password: "pwd"}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/members/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
			var res LoginResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("unmarshalling response: %v", err)
			}
			if res.Token == "" {
				t.Error("login returned an empty token")
			}
		})
	}
}

func Test_memberApi_query(t *testing.T) {
	app := setup(t)

	mbr := testutil.CreateMember(t, mbrRepo, "Voter", "voter01", "voter01@test.test", "pwd", member.MemberRoles, true)
	board := testutil.CreateMember(t, mbrRepo, "Sekretaris", "sekre01", "sekre01@test.test", "pwd", member.BoardRoles, true)
	admin := testutil.CreateMember(t, mbrRepo, "Admin", "admin01", "admin01@test.test", "pwd", member.AdminRoles, true)

	tests := []httpTest{
		{
			name:     "listing requires authentication",
			path:     "/v1/members",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "listing is board only",
			path:     "/v1/members",
			token:    getToken(t, mbr),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "board lists members",
			path:     "/v1/members",
			token:    getToken(t, board),
			wantCode: http.StatusOK,
			wantData: marchallList(t, admin, board, mbr),
		},
		{
			name:     "search filters the listing",
			path:     "/v1/members?search=sekre01",
			token:    getToken(t, board),
			wantCode: http.StatusOK,
			wantData: marchallList(t, board),
		},
		{
			name:     "roles listing is admin only",
			path:     "/v1/members/roles",
			token:    getToken(t, board),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "admin lists roles",
			path:     "/v1/members/roles",
			token:    getToken(t, admin),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, member.Roles),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_memberApi_query_ordering(t *testing.T) {
	app := setup(t)

	testutil.CreateMember(t, mbrRepo, "Voter", "voter01", "voter01@test.test", "pwd", member.MemberRoles, true)
	board := testutil.CreateMember(t, mbrRepo, "Sekretaris", "sekre01", "sekre01@test.test", "pwd", member.BoardRoles, true)
	testutil.CreateMember(t, mbrRepo, "Admin", "admin01", "admin01@test.test", "pwd", member.AdminRoles, true)

	tests := []struct {
		name          string
		path          string
		wantUsernames []string
	}{
		{
			name:          "ascending",
			path:          "/v1/members?ordering=username",
			wantUsernames: []string{"admin01", "sekre01", "voter01"},
		},
		{
			name:          "descending",
			path:          "/v1/members?ordering=-username",
			wantUsernames: []string{"voter01", "sekre01", "admin01"},
		},
		{
			name:          "unknown field is ignored",
			path:          "/v1/members?ordering=password_hash,-name",
			wantUsernames: []string{"voter01", "sekre01", "admin01"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, getToken(t, board))
			app.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("code = %v; wantCode %v", rec.Code, http.StatusOK)
			}
			var members []member.Member
			if err := json.Unmarshal(rec.Body.Bytes(), &members); err != nil {
				t.Fatalf("unmarshalling response: %v", err)
			}
			usernames := make([]string, 0, len(members))
			for _, m := range members {
				usernames = append(usernames, m.Username)
			}
			if !reflect.DeepEqual(usernames, tt.wantUsernames) {
				t.Errorf("usernames = %v; want %v", usernames, tt.wantUsernames)
			}
		})
	}
}
