package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/document"
)

// Signature records that a user signed a document in a given role.
// At most one row may exist per (document, role) slot.
type Signature struct {
	ID           snowflake.ID  `json:"id,string" gorm:"primaryKey"`
	DocumentKind document.Kind `json:"document_kind" gorm:"type:text;not null;uniqueIndex:ux_signature_slot"`
	DocumentID   snowflake.ID  `json:"document_id,string" gorm:"not null;uniqueIndex:ux_signature_slot"`
	Role         document.Role `json:"role" gorm:"type:text;not null;uniqueIndex:ux_signature_slot"`
	UserID       snowflake.ID  `json:"user_id,string" gorm:"not null;index"`
	SignedAt     time.Time     `json:"signed_at" gorm:"not null"`
}

func (Signature) TableName() string { return "document_signatures" }
