package documents

import "time"

// Known document types. Unknown values are tolerated everywhere and treated
// as TypeOther for folder purposes.
const (
	TypeKYC    = "kyc_document"
	TypeIDCard = "id_card"
	TypePAN    = "pan_card"
	TypePolicy = "policy_document"
	TypeClaim  = "claim_document"
	TypeOther  = "other"
)

// Document is the relational record describing one uploaded file. The
// DocumentURL is the authoritative pointer to the stored bytes; DocumentType
// and the folder segment embedded in the URL must agree for records created
// under the nested-folder convention (the maintenance jobs restore that
// agreement for historical rows).
type Document struct {
	ID           int64     `json:"documentId"`
	UserID       int64     `json:"userId"`
	PolicyID     int64     `json:"policyId"`
	DocumentType string    `json:"documentType"`
	DocumentURL  string    `json:"documentUrl"`
	UploadDate   time.Time `json:"uploadDate"`
	FileSize     int64     `json:"fileSize"`
}
