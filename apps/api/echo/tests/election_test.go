package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/osisproject0-hub/osis-sub000/apps/api/echo"
	"github.com/osisproject0-hub/osis-sub000/core/election"
	"github.com/osisproject0-hub/osis-sub000/core/member"
	"github.com/osisproject0-hub/osis-sub000/tests"
)

func Test_electionApi_vote(t *testing.T) {
	app := setup(t)

	voter := testutil.CreateMember(t, mbrRepo, "Voter", "voter01", "voter01@test.test", "pwd", member.MemberRoles, true)
	lateVoter := testutil.CreateMember(t, mbrRepo, "Late Voter", "voter02", "voter02@test.test", "pwd", member.MemberRoles, true)
	cand := testutil.CreateCandidate(t, electionRepo, "Awa", 1)
	testutil.OpenBalloting(t, electionRepo, "Ketua OSIS 2026/2027")

	voterToken := getToken(t, voter)

	tests := []httpTest{
		{
			name:     "vote requires authentication",
			method:   http.MethodPost,
			path:     "/v1/election/vote",
			body:     marchallObj(t, VoteRequest{CandidateID: cand.ID}),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "vote requires a candidate",
			method:   http.MethodPost,
			path:     "/v1/election/vote",
			body:     marchallObj(t, VoteRequest{}),
			token:    voterToken,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown candidate rejected",
			method:   http.MethodPost,
			path:     "/v1/election/vote",
			body:     marchallObj(t, VoteRequest{CandidateID: "nope"}),
			token:    voterToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: election.ErrCandidateNotFound.Error()}),
		},
		{
			name:     "vote not cast yet",
			method:   http.MethodGet,
			path:     "/v1/election/vote",
			token:    voterToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, VoteStatusResponse{}),
		},
		{
			name:     "vote",
			method:   http.MethodPost,
			path:     "/v1/election/vote",
			body:     marchallObj(t, VoteRequest{CandidateID: cand.ID}),
			token:    voterToken,
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, SuccessResponse{Success: "Your vote has been recorded."}),
		},
		{
			name:     "vote cast",
			method:   http.MethodGet,
			path:     "/v1/election/vote",
			token:    voterToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, VoteStatusResponse{HasVoted: true}),
		},
		{
			name:     "second vote rejected",
			method:   http.MethodPost,
			path:     "/v1/election/vote",
			body:     marchallObj(t, VoteRequest{CandidateID: cand.ID}),
			token:    voterToken,
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: election.ErrAlreadyVoted.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("closed balloting rejects votes", func(t *testing.T) {
		if _, err := electionRepo.SaveControl(context.Background(), election.Control{Title: "t", IsOpen: false}); err != nil {
			t.Fatalf("SaveControl() failed: %v", err)
		}
		tt := httpTest{
			body:     marchallObj(t, VoteRequest{CandidateID: cand.ID}),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: election.ErrBallotingClosed.Error()}),
		}
		req, rec := newAuthRequest(http.MethodPost, "/v1/election/vote", getToken(t, lateVoter), tt.body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_electionApi_results(t *testing.T) {
	app := setup(t)

	voter := testutil.CreateMember(t, mbrRepo, "Voter", "voter01", "voter01@test.test", "pwd", member.MemberRoles, true)
	admin := testutil.CreateMember(t, mbrRepo, "Admin", "admin01", "admin01@test.test", "pwd", member.AdminRoles, true)
	cand := testutil.CreateCandidate(t, electionRepo, "Awa", 1)
	testutil.OpenBalloting(t, electionRepo, "Ketua OSIS 2026/2027")

	req, rec := newAuthRequest(http.MethodPost, "/v1/election/vote", getToken(t, voter), marchallObj(t, VoteRequest{CandidateID: cand.ID}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("vote setup failed: code = %v; body = %v", rec.Code, rec.Body.String())
	}

	forbidden := marchallObj(t, errForbidden)
	openTests := []httpTest{
		{name: "live tally hidden from the public", method: http.MethodGet, path: "/v1/election/results", wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "live tally hidden from members", method: http.MethodGet, path: "/v1/election/results", token: getToken(t, voter), wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "admins watch the live tally", method: http.MethodGet, path: "/v1/election/results", token: getToken(t, admin), wantCode: http.StatusOK},
	}
	for _, tt := range openTests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("results go public once closed", func(t *testing.T) {
		if _, err := electionRepo.SaveControl(context.Background(), election.Control{Title: "t", IsOpen: false}); err != nil {
			t.Fatalf("SaveControl() failed: %v", err)
		}

		req, rec := newRequest(http.MethodGet, "/v1/election/results")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}

		var res election.Results
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling results: %v", err)
		}
		if res.TotalVotes != 1 {
			t.Errorf("TotalVotes = %d, want 1", res.TotalVotes)
		}
		if len(res.Ranking) != 1 || res.Ranking[0].Candidate.ID != cand.ID || res.Ranking[0].Percentage != 100 {
			t.Errorf("Ranking = %+v, want 100%% for %s", res.Ranking, cand.ID)
		}
	})
}

func Test_electionApi_candidateAdmin(t *testing.T) {
	app := setup(t)

	mbr := testutil.CreateMember(t, mbrRepo, "Voter", "voter01", "voter01@test.test", "pwd", member.MemberRoles, true)
	admin := testutil.CreateMember(t, mbrRepo, "Admin", "admin01", "admin01@test.test", "pwd", member.AdminRoles, true)

	tests := []httpTest{
		{
			name:     "creation is admin only",
			method:   http.MethodPost,
			path:     "/v1/election/candidates",
			body:     marchallObj(t, election.NewCandidate{Name: "Awa", Order: 1}),
			token:    getToken(t, mbr),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "admin creates a candidate",
			method:   http.MethodPost,
			path:     "/v1/election/candidates",
			body:     marchallObj(t, election.NewCandidate{Name: "Awa", Vision: "v", Mission: "m", Order: 1}),
			token:    getToken(t, admin),
			wantCode: http.StatusCreated,
		},
		{
			name:     "candidates are public",
			method:   http.MethodGet,
			path:     "/v1/election/candidates",
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
