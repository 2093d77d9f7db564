package bright

import (
	"fmt"
	"testing"
)

func TestClassifyAllCodes(t *testing.T) {
	cases := []struct {
		code     ErrorCode
		status   int
		category Category
	}{
		{ErrorCodeMissingParameter, 400, CategoryValidation},
		{ErrorCodeInvalidParameter, 400, CategoryValidation},
		{ErrorCodeInvalidRequestBody, 400, CategoryValidation},
		{ErrorCodeConflictingParameters, 400, CategoryValidation},
		{ErrorCodeInvalidFormat, 400, CategoryValidation},
		{ErrorCodeParseError, 400, CategoryValidation},
		{ErrorCodeIndexNotFound, 404, CategoryNotFound},
		{ErrorCodeDocumentNotFound, 404, CategoryNotFound},
		{ErrorCodeNotLeader, 307, CategoryCluster},
		{ErrorCodeClusterUnavailable, 503, CategoryCluster},
		{ErrorCodeInsufficientPermissions, 403, CategoryAuthorization},
		{ErrorCodeLeaderOnlyOperation, 403, CategoryAuthorization},
		{ErrorCodeResourceAlreadyExists, 409, CategoryConflict},
		{ErrorCodeUUIDGenerationFailed, 500, CategoryInternal},
		{ErrorCodeSerializationFailed, 500, CategoryInternal},
		{ErrorCodeRaftApplyFailed, 500, CategoryInternal},
		{ErrorCodeIndexOperationFailed, 500, CategoryInternal},
		{ErrorCodeDocumentOperationFailed, 500, CategoryInternal},
		{ErrorCodeBatchOperationFailed, 500, CategoryInternal},
		{ErrorCodeSearchFailed, 500, CategoryInternal},
		{ErrorCodeInternalError, 500, CategoryInternal},
	}

	if len(cases) != len(codeCategories) {
		t.Fatalf("expected %d cases, got %d: the code table changed", len(codeCategories), len(cases))
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			e := classify(tc.status, errorEnvelope{Message: "boom", Code: tc.code})
			if e.Category != tc.category {
				t.Fatalf("expected category %s, got %s", tc.category, e.Category)
			}
			if e.Code != tc.code {
				t.Fatalf("expected code %s preserved, got %s", tc.code, e.Code)
			}
			if e.StatusCode != tc.status {
				t.Fatalf("expected status %d preserved, got %d", tc.status, e.StatusCode)
			}
			if e.Message != "boom" {
				t.Fatalf("expected message preserved, got %q", e.Message)
			}
		})
	}
}

func TestClassifyNotLeaderExtractsLeaderURL(t *testing.T) {
	e := classify(307, errorEnvelope{
		Message: "not leader",
		Code:    ErrorCodeNotLeader,
		Details: map[string]any{"leaderUrl": "http://host:2"},
	})

	if e.LeaderURL != "http://host:2" {
		t.Fatalf("expected leader URL, got %q", e.LeaderURL)
	}
	if !e.IsCluster() {
		t.Fatalf("expected cluster category, got %s", e.Category)
	}
}

func TestClassifyNotLeaderWithoutDetails(t *testing.T) {
	e := classify(307, errorEnvelope{Message: "not leader", Code: ErrorCodeNotLeader})
	if e.LeaderURL != "" {
		t.Fatalf("expected empty leader URL, got %q", e.LeaderURL)
	}
}

func TestClassifyUnknownCodeFallsBackToStatus(t *testing.T) {
	e := classify(404, errorEnvelope{Message: "gone", Code: "SOMETHING_NEW"})

	if e.Category != CategoryNotFound {
		t.Fatalf("expected not-found fallback, got %s", e.Category)
	}
	// The unrecognized code is passed through untouched
	if e.Code != "SOMETHING_NEW" {
		t.Fatalf("expected code passthrough, got %s", e.Code)
	}
}

func TestClassifyStatusFallback(t *testing.T) {
	cases := []struct {
		status   int
		category Category
	}{
		{400, CategoryValidation},
		{403, CategoryAuthorization},
		{404, CategoryNotFound},
		{409, CategoryConflict},
		{307, CategoryCluster},
		{503, CategoryCluster},
		{500, CategoryInternal},
	}

	for _, tc := range cases {
		e := classify(tc.status, errorEnvelope{Message: "boom"})
		if e.Category != tc.category {
			t.Fatalf("status %d: expected %s, got %s", tc.status, tc.category, e.Category)
		}
		if e.StatusCode != tc.status {
			t.Fatalf("status %d not preserved, got %d", tc.status, e.StatusCode)
		}
	}
}

func TestClassifyClusterStatusesStayDistinguishable(t *testing.T) {
	redirect := classify(307, errorEnvelope{Message: "not leader"})
	outage := classify(503, errorEnvelope{Message: "no leader elected"})

	if !redirect.IsCluster() || !outage.IsCluster() {
		t.Fatal("both 307 and 503 should classify as cluster errors")
	}
	if redirect.StatusCode == outage.StatusCode {
		t.Fatal("status codes must keep the two cluster conditions apart")
	}
}

func TestClassifyUnknownStatusAndCode(t *testing.T) {
	details := map[string]any{"hint": "teapot"}
	e := classify(418, errorEnvelope{Message: "odd", Code: "WEIRD", Details: details})

	if e.Category != CategoryUnknown {
		t.Fatalf("expected unknown category, got %s", e.Category)
	}
	if e.Code != "WEIRD" || e.StatusCode != 418 {
		t.Fatalf("expected raw code and status passthrough, got %s/%d", e.Code, e.StatusCode)
	}
	if e.Details["hint"] != "teapot" {
		t.Fatalf("expected details passthrough, got %v", e.Details)
	}
}

func TestIsNotFoundUnwraps(t *testing.T) {
	e := classify(404, errorEnvelope{Message: "missing", Code: ErrorCodeIndexNotFound})
	wrapped := fmt.Errorf("probing index: %w", e)

	if !IsNotFound(wrapped) {
		t.Fatal("expected IsNotFound to see through wrapping")
	}

	forbidden := classify(403, errorEnvelope{Message: "denied", Code: ErrorCodeInsufficientPermissions})
	if IsNotFound(forbidden) {
		t.Fatal("authorization error must not match IsNotFound")
	}
}

func TestErrorString(t *testing.T) {
	e := classify(404, errorEnvelope{Message: "index not found", Code: ErrorCodeIndexNotFound})
	want := "bright: index not found (status 404, code INDEX_NOT_FOUND)"
	if e.Error() != want {
		t.Fatalf("expected %q, got %q", want, e.Error())
	}

	bare := classify(500, errorEnvelope{Message: "boom"})
	if bare.Error() != "bright: boom (status 500)" {
		t.Fatalf("unexpected message without code: %q", bare.Error())
	}
}
