package documents

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimRef(id int64) *int64 { return &id }

func TestDeriveFolderPath(t *testing.T) {
	cases := []struct {
		name    string
		userID  int64
		docType string
		claimID *int64
		want    string
	}{
		{"kyc", 123, TypeKYC, nil, "users/123/kyc"},
		{"id card", 123, TypeIDCard, nil, "users/123/id_cards"},
		{"pan card", 123, TypePAN, nil, "users/123/pan_cards"},
		{"policy", 123, TypePolicy, nil, "users/123/policies"},
		{"other", 123, TypeOther, nil, "users/123/other"},
		{"claim with id", 123, TypeClaim, claimRef(456), "claims/456"},
		{"claim without id", 123, TypeClaim, nil, "claims/pending/123"},
		{"claim id zero is a valid claim", 123, TypeClaim, claimRef(0), "claims/0"},
		{"unknown type falls back to other", 123, "bogus", nil, "users/123/other"},
		{"empty type falls back to other", 123, "", nil, "users/123/other"},
		{"user zero", 0, TypeKYC, nil, "users/0/kyc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveFolderPath(tc.userID, tc.docType, tc.claimID)
			assert.Equal(t, tc.want, got)
			// pure: identical inputs, identical output
			assert.Equal(t, got, DeriveFolderPath(tc.userID, tc.docType, tc.claimID))
		})
	}
}

func TestDeriveFolderPathDistinctUsers(t *testing.T) {
	a := DeriveFolderPath(123, TypeKYC, nil)
	b := DeriveFolderPath(456, TypeKYC, nil)
	assert.NotEqual(t, a, b)
}

func TestExtractFolderFromURL(t *testing.T) {
	const container = "insurance-documents"
	cases := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{"local users", "http://localhost:8000/uploads/users/123/kyc/uuid.pdf", "users/123/kyc", true},
		{"local claims", "http://localhost:8000/uploads/claims/456/uuid.pdf", "claims/456", true},
		{"local pending claim", "http://localhost:8000/uploads/claims/pending/123/uuid.pdf", "claims/pending/123", true},
		{"local legacy flat folder", "http://localhost:8000/uploads/kyc/uuid.pdf", "kyc", true},
		{"blob users", "https://storage.example.com/insurance-documents/users/123/kyc/uuid.pdf", "users/123/kyc", true},
		{"blob claims", "https://storage.example.com/insurance-documents/claims/456/uuid.pdf", "claims/456", true},
		{"blob deeper nesting truncated", "https://storage.example.com/insurance-documents/users/123/kyc/extra/uuid.pdf", "users/123/kyc", true},
		{"query parameters stripped", "https://storage.example.com/insurance-documents/users/123/kyc/uuid.pdf?token=x", "users/123/kyc", true},
		{"fragment stripped", "http://localhost:8000/uploads/users/123/kyc/uuid.pdf#frag", "users/123/kyc", true},
		{"bare path fallback users", "users/123/kyc/uuid.pdf", "users/123/kyc", true},
		{"bare path fallback claims", "claims/456/uuid.pdf", "claims/456", true},
		{"garbage", "invalid-url", "", false},
		{"empty", "", "", false},
		{"no folder between marker and file", "http://localhost:8000/uploads/uuid.pdf", "", false},
		{"unrelated host and path", "https://example.com/some/random/path.pdf", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractFolderFromURL(tc.url, container)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractFolderFromURLNeverPanicsOnGarbage(t *testing.T) {
	inputs := []string{
		"", " ", "://", "http://", "%zz", "http://%41:8080/", "////",
		"?only=query", "#only-fragment", "uploads", "/uploads/",
		"https://storage.example.com/insurance-documents",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, _ = ExtractFolderFromURL(in, "insurance-documents")
		}, "input %q", in)
	}
}

func TestExtractFolderRoundTrip(t *testing.T) {
	// constructing a local URL from a derived folder must extract back exactly
	types := []string{TypeKYC, TypeIDCard, TypePAN, TypePolicy, TypeOther, "bogus"}
	for _, docType := range types {
		for _, userID := range []int64{0, 1, 123, 99999} {
			folder := DeriveFolderPath(userID, docType, nil)
			url := fmt.Sprintf("http://localhost:8000/uploads/%s/%s", folder, "f.pdf")
			got, ok := ExtractFolderFromURL(url, "insurance-documents")
			require.True(t, ok, "url %s", url)
			assert.Equal(t, folder, got)
		}
	}
	// claim documents with an id round-trip too
	folder := DeriveFolderPath(123, TypeClaim, claimRef(789))
	got, ok := ExtractFolderFromURL("http://localhost:8000/uploads/"+folder+"/f.pdf", "insurance-documents")
	require.True(t, ok)
	assert.Equal(t, "claims/789", got)
}

func TestTypeFromFolder(t *testing.T) {
	cases := []struct {
		folder string
		want   string
		wantOK bool
	}{
		{"users/6/id_cards", TypeIDCard, true},
		{"users/6/pan_cards", TypePAN, true},
		{"users/6/policies", TypePolicy, true},
		{"users/6/kyc", TypeKYC, true},
		{"users/6/other", TypeOther, true},
		{"users/6/unmapped_segment", TypeOther, true},
		{"claims/123", TypeClaim, true},
		{"claims/pending/6", TypeClaim, true},
		{"kyc", TypeKYC, true},
		{"policies", TypePolicy, true},
		{"unrecognized", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := TypeFromFolder(tc.folder)
		assert.Equal(t, tc.wantOK, ok, "folder %q", tc.folder)
		assert.Equal(t, tc.want, got, "folder %q", tc.folder)
	}
}

func TestTypeFromURL(t *testing.T) {
	got, ok := TypeFromURL("https://storage.example.com/insurance-documents/users/6/id_cards/a.pdf", "insurance-documents")
	require.True(t, ok)
	assert.Equal(t, TypeIDCard, got)

	_, ok = TypeFromURL("not a url at all", "insurance-documents")
	assert.False(t, ok)
}

func TestFileNameFromURL(t *testing.T) {
	name, ok := FileNameFromURL("http://localhost:8000/uploads/users/1/kyc/uuid-1.pdf?sig=abc")
	require.True(t, ok)
	assert.Equal(t, "uuid-1.pdf", name)

	name, ok = FileNameFromURL("https://storage.example.com/b/claims/9/scan.jpg#page2")
	require.True(t, ok)
	assert.Equal(t, "scan.jpg", name)

	_, ok = FileNameFromURL("http://localhost:8000/uploads/users/1/kyc/")
	assert.False(t, ok)
	_, ok = FileNameFromURL("")
	assert.False(t, ok)
}

func TestTypeFolder(t *testing.T) {
	assert.Equal(t, "kyc", TypeFolder(TypeKYC))
	assert.Equal(t, "id_cards", TypeFolder(TypeIDCard))
	assert.Equal(t, "pan_cards", TypeFolder(TypePAN))
	assert.Equal(t, "policies", TypeFolder(TypePolicy))
	assert.Equal(t, "claims", TypeFolder(TypeClaim))
	assert.Equal(t, "other", TypeFolder(TypeOther))
	assert.Equal(t, "other", TypeFolder("invalid_type"))
	assert.Equal(t, "other", TypeFolder(""))
}
