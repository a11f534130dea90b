// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JMP-APZH/conspop2-sub000/models"
	"github.com/JMP-APZH/conspop2-sub000/testutil"
	"github.com/JMP-APZH/conspop2-sub000/voting"
)

// TestFullVotingWorkflow tests the complete end-to-end workflow:
// 1. Create session
// 2. Add ideas
// 3. Publish session
// 4. Voters claim names
// 5. Voters submit rankings
// 6. Update a ranking
// 7. Close session
// 8. Verify results
func TestFullVotingWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	sessionHandler := NewSessionHandler(db, cfg)
	votingHandler := NewVotingHandler(db, cfg)
	resultsHandler := NewResultsHandler(db, cfg)

	// Step 1: Create a session
	req := testutil.MakeRequest("POST", "/sessions", models.CreateSessionRequest{
		Title:       "Integration Test Session",
		Description: "Testing the full voting workflow",
		CreatorName: "IntegrationTester",
		Method:      "borda",
	}, nil)
	w := httptest.NewRecorder()
	sessionHandler.CreateSession(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create session failed: %d - %s", w.Code, w.Body.String())
	}

	var createResp models.CreateSessionResponse
	testutil.AssertJSON(t, w, &createResp)
	sessionID := createResp.SessionID
	adminHeaders := map[string]string{"X-Admin-Key": createResp.AdminKey}
	t.Logf("Step 1 - Created session: %s", sessionID)

	// Step 2: Add 3 ideas
	titles := []string{"Pizza", "Sushi", "Tacos"}
	ideaIDs := make([]string, 0, len(titles))
	for _, title := range titles {
		req := testutil.MakeRequest("POST", "/sessions/"+sessionID+"/ideas", models.AddIdeaRequest{Title: title}, adminHeaders)
		req.SetPathValue("id", sessionID)
		w := httptest.NewRecorder()
		sessionHandler.AddIdea(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 2 - Add idea '%s' failed: %d - %s", title, w.Code, w.Body.String())
		}

		var ideaResp models.AddIdeaResponse
		testutil.AssertJSON(t, w, &ideaResp)
		ideaIDs = append(ideaIDs, ideaResp.IdeaID)
	}
	pizza, sushi, tacos := ideaIDs[0], ideaIDs[1], ideaIDs[2]

	// Step 3: Publish
	req = testutil.MakeRequest("POST", "/sessions/"+sessionID+"/publish", nil, adminHeaders)
	req.SetPathValue("id", sessionID)
	w = httptest.NewRecorder()
	sessionHandler.PublishSession(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Publish failed: %d - %s", w.Code, w.Body.String())
	}
	var publishResp models.PublishSessionResponse
	testutil.AssertJSON(t, w, &publishResp)
	slug := publishResp.ShareSlug
	t.Logf("Step 3 - Published with slug: %s", slug)

	// Step 4: Claim voter names
	names := []string{"Alice", "Bob", "Carol"}
	tokens := make(map[string]string, len(names))
	for _, name := range names {
		req := testutil.MakeRequest("POST", "/sessions/"+slug+"/voters", models.ClaimVoterRequest{Name: name}, nil)
		req.SetPathValue("slug", slug)
		w := httptest.NewRecorder()
		votingHandler.ClaimVoter(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 4 - Claim '%s' failed: %d - %s", name, w.Code, w.Body.String())
		}
		var claimResp models.ClaimVoterResponse
		testutil.AssertJSON(t, w, &claimResp)
		tokens[name] = claimResp.VoterToken
	}

	// Step 5: Submit rankings
	rankings := map[string][]string{
		"Alice": {sushi, pizza, tacos},
		"Bob":   {pizza, sushi, tacos},
		"Carol": {tacos, pizza, sushi},
	}
	for name, ranking := range rankings {
		w := submitVotes(t, votingHandler, slug, tokens[name], models.SubmitVotesRequest{Ranking: ranking})
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 5 - %s's ranking failed: %d - %s", name, w.Code, w.Body.String())
		}
	}

	// Results are sealed while open
	w = getResults(resultsHandler, "/sessions/"+slug+"/results", slug, (*ResultsHandler).GetResults)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// Step 6: Alice changes her mind
	w = submitVotes(t, votingHandler, slug, tokens["Alice"], models.SubmitVotesRequest{Ranking: []string{pizza, sushi, tacos}})
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 6 - Update failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 7: Close
	req = testutil.MakeRequest("POST", "/sessions/"+sessionID+"/close", nil, adminHeaders)
	req.SetPathValue("id", sessionID)
	w = httptest.NewRecorder()
	sessionHandler.CloseSession(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - Close failed: %d - %s", w.Code, w.Body.String())
	}

	// Late votes are rejected
	w = submitVotes(t, votingHandler, slug, tokens["Bob"], models.SubmitVotesRequest{Ranking: []string{tacos}})
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Step 8: Verify results
	// Borda with maxRank 3: pizza 3+3+2=8, sushi 2+2+1=5, tacos 1+1+3=5
	w = getResults(resultsHandler, "/sessions/"+slug+"/results", slug, (*ResultsHandler).GetResults)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resultsResp models.MethodResultsResponse
	testutil.AssertJSON(t, w, &resultsResp)
	if resultsResp.Method != voting.MethodBorda {
		t.Errorf("Step 8 - Expected borda, got %s", resultsResp.Method)
	}
	if resultsResp.VoterCount != 3 {
		t.Errorf("Step 8 - Expected 3 voters, got %d", resultsResp.VoterCount)
	}

	expected := []struct {
		id     string
		points int
	}{{pizza, 8}, {sushi, 5}, {tacos, 5}}
	for i, e := range expected {
		r := resultsResp.Results[i]
		if r.IdeaID != e.id || r.Points == nil || *r.Points != e.points || r.Rank != i+1 {
			t.Errorf("Step 8 - Result %d: expected %s with %d points, got %+v", i, e.id, e.points, r)
		}
	}

	w = getResults(resultsHandler, "/sessions/"+slug+"/results/all", slug, (*ResultsHandler).GetAllResults)
	testutil.AssertStatus(t, w, http.StatusOK)

	var allResp models.AllResultsResponse
	testutil.AssertJSON(t, w, &allResp)
	for _, set := range allResp.ResultSets {
		switch set.Method {
		case voting.MethodRankedChoice:
			// pizza is first choice for Alice and Bob
			first := set.Results[0]
			if first.IdeaID != pizza || *first.Score != 2 {
				t.Errorf("Step 8 - Expected pizza with 2 first choices, got %+v", first)
			}
		case voting.MethodCondorcet:
			if len(set.Winners) != 1 || set.Winners[0].IdeaID != pizza {
				t.Errorf("Step 8 - Expected pizza as condorcet winner, got %+v", set.Winners)
			}
		}
	}
	t.Log("Step 8 - Results verified")
}
