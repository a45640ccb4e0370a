// Package pagination implements keyset paging over document reference
// numbers. Lists order by their reference column descending, so the
// cursor is simply the last reference on the page.
package pagination

import (
	"encoding/base64"
	"encoding/json"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 250
)

// Pagination is bound from list query parameters. The zero value
// disables paging and the full result set is returned.
type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

func (p Pagination) Enabled() bool {
	return p.PageSize > 0 || p.PageToken != ""
}

func (p Pagination) Size() int {
	if p.PageSize <= 0 {
		return defaultPageSize
	}
	if p.PageSize > maxPageSize {
		return maxPageSize
	}
	return p.PageSize
}

// Cursor marks the last reference number of a page.
type Cursor struct {
	Number string `json:"number"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(cursor Cursor) (string, error) {
	b, err := json.Marshal(cursor)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func DecodeCursor(token string) (*Cursor, error) {
	b, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, err
	}
	return &cursor, nil
}

// Apply adds the keyset predicate on column and an over-fetch limit.
// Callers get up to Size()+1 rows and use Trim to detect more.
func (p Pagination) Apply(stmt *gorm.DB, column string) *gorm.DB {
	if !p.Enabled() {
		return stmt
	}
	if p.PageToken != "" {
		if cursor, err := DecodeCursor(p.PageToken); err == nil && cursor.Number != "" {
			stmt = stmt.Where(column+" < ?", cursor.Number)
		}
	}
	return stmt.Limit(p.Size() + 1)
}

// Trim cuts the over-fetched row and builds the page info. A nil
// PageInfo means paging was not requested.
func Trim[T any](data []*T, p Pagination, cursorOf func(*T) Cursor) ([]*T, *PageInfo) {
	if !p.Enabled() {
		return data, nil
	}

	size := p.Size()
	hasMore := len(data) > size
	if hasMore {
		data = data[:size]
	}

	info := &PageInfo{HasMore: hasMore}
	if hasMore && len(data) > 0 {
		if token, err := EncodeCursor(cursorOf(data[len(data)-1])); err == nil {
			info.NextPageToken = token
		}
	}
	return data, info
}
