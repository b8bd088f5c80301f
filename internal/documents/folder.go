package documents

import (
	"net/url"
	"strconv"
	"strings"
)

// folderMap is the single source of truth for "where a document of a given
// type belongs". Every caller (upload handler, backfill, migrator) goes
// through DeriveFolderPath / TypeFolder; no second copy may exist.
var folderMap = map[string]string{
	TypeKYC:    "kyc",
	TypeIDCard: "id_cards",
	TypePAN:    "pan_cards",
	TypePolicy: "policies",
	TypeClaim:  "claims",
	TypeOther:  "other",
}

// folderToType inverts folderMap (folder segment -> document type).
var folderToType = func() map[string]string {
	inv := make(map[string]string, len(folderMap))
	for t, f := range folderMap {
		inv[f] = t
	}
	return inv
}()

// TypeFolder returns the base folder segment for a document type; unknown or
// empty types map to "other".
func TypeFolder(documentType string) string {
	if f, ok := folderMap[documentType]; ok {
		return f
	}
	return "other"
}

// DeriveFolderPath maps (userID, documentType, claimID) to the canonical
// storage folder:
//
//	users/{userID}/{typeFolder}   all types except claim documents
//	claims/{claimID}              claim documents with a known claim
//	claims/pending/{userID}       claim documents awaiting claim assignment
//
// Only a nil claimID selects the pending branch; claimID zero is a valid
// claim id and produces "claims/0". The function is pure and never fails.
func DeriveFolderPath(userID int64, documentType string, claimID *int64) string {
	if documentType == TypeClaim {
		if claimID != nil {
			return "claims/" + strconv.FormatInt(*claimID, 10)
		}
		return "claims/pending/" + strconv.FormatInt(userID, 10)
	}
	return "users/" + strconv.FormatInt(userID, 10) + "/" + TypeFolder(documentType)
}

// ExtractFolderFromURL recovers the storage folder from a previously stored
// document URL. Historical records only retain the URL, so this is the
// inverse of DeriveFolderPath up to the claim-id/pending ambiguity. It
// recognizes local URLs (an /uploads/ marker segment), object-store URLs
// (path rooted at the container name) and, as a best effort, bare paths that
// begin with a recognized root segment. Deeper nesting is truncated to the
// canonical folder granularity. Returns ok=false for anything it cannot
// parse; it never panics on malformed input.
func ExtractFolderFromURL(rawURL, container string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	// parsed.Path drops query parameters and fragments
	segments := splitPath(parsed.Path)
	if len(segments) == 0 {
		return "", false
	}

	// Local storage: folder sits between the uploads marker and the filename.
	for i, seg := range segments {
		if seg != "uploads" {
			continue
		}
		rest := segments[i+1:]
		if len(rest) < 2 {
			return "", false
		}
		return folderFromSegments(rest[:len(rest)-1])
	}

	// Object store: path is container/{folder...}/{filename}.
	if container != "" && segments[0] == container {
		rest := segments[1:]
		if len(rest) < 2 {
			return "", false
		}
		return folderFromSegments(rest[:len(rest)-1])
	}

	// Fallback: bare path beginning with a recognized root segment.
	if segments[0] == "users" || segments[0] == "claims" {
		if folder, ok := canonicalFolder(segments); ok {
			return folder, true
		}
	}
	return "", false
}

// folderFromSegments canonicalizes a folder already separated from its
// filename: users/... and claims/... paths are truncated to canonical
// granularity, legacy flat folders (e.g. "kyc") pass through unchanged.
func folderFromSegments(parts []string) (string, bool) {
	if len(parts) == 0 {
		return "", false
	}
	if folder, ok := canonicalFolder(parts); ok {
		return folder, true
	}
	if parts[0] == "users" || parts[0] == "claims" {
		// recognized root but too short to be canonical
		return "", false
	}
	return strings.Join(parts, "/"), true
}

// canonicalFolder truncates to exactly users/{id}/{type}, claims/{id} or
// claims/pending/{userId}.
func canonicalFolder(parts []string) (string, bool) {
	switch parts[0] {
	case "users":
		if len(parts) >= 3 {
			return strings.Join(parts[:3], "/"), true
		}
	case "claims":
		if len(parts) >= 2 && parts[1] == "pending" {
			if len(parts) >= 3 {
				return strings.Join(parts[:3], "/"), true
			}
			return "", false
		}
		if len(parts) >= 2 {
			return strings.Join(parts[:2], "/"), true
		}
	}
	return "", false
}

// TypeFromFolder derives the document type recorded by a folder path.
// Unmapped segments under users/ default to "other"; a bare legacy folder
// matches only when it is a known segment.
func TypeFromFolder(folder string) (string, bool) {
	if folder == "" {
		return "", false
	}
	parts := splitPath(folder)
	if len(parts) == 0 {
		return "", false
	}
	if parts[0] == "claims" {
		return TypeClaim, true
	}
	if parts[0] == "users" && len(parts) >= 3 {
		if t, ok := folderToType[parts[2]]; ok {
			return t, true
		}
		return TypeOther, true
	}
	if t, ok := folderToType[parts[len(parts)-1]]; ok {
		return t, true
	}
	return "", false
}

// TypeFromURL combines extraction and folder inversion; the backfill job's
// single entry point.
func TypeFromURL(rawURL, container string) (string, bool) {
	folder, ok := ExtractFolderFromURL(rawURL, container)
	if !ok {
		return "", false
	}
	return TypeFromFolder(folder)
}

// FileNameFromURL returns the final path segment of a stored URL with query
// parameters and fragments stripped, or ok=false when there is none.
func FileNameFromURL(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	name := rawURL
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "", false
	}
	return name, true
}

// BlobKeyFromURL rebuilds the object-store key ("{folder}/{filename}") a
// stored URL points at. Falls back to the bare filename for URLs whose
// folder cannot be recovered (objects stored at the bucket root).
func BlobKeyFromURL(rawURL, container string) (string, bool) {
	name, ok := FileNameFromURL(rawURL)
	if !ok {
		return "", false
	}
	if folder, ok := ExtractFolderFromURL(rawURL, container); ok {
		return folder + "/" + name, true
	}
	return name, true
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
