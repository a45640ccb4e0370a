package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Reference tags. Entry numbers use a dash (JE-2024-03-001), category
// references a space (GJV 2024-03-001), matching the printed documents.
const (
	EntryTag    = "JE"
	CategoryTag = "GJV"
)

// ErrSequenceExhausted is returned when a month runs past reference
// 999. The format has a fixed 3-digit suffix, so this fails loudly
// rather than widening the field mid-month.
var ErrSequenceExhausted = errors.New("reference_sequence_exhausted")

// MonthPrefix builds the per-month reference prefix for a tag.
func MonthPrefix(tag string, t time.Time) string {
	sep := "-"
	if tag == CategoryTag {
		sep = " "
	}
	return fmt.Sprintf("%s%s%04d-%02d-", tag, sep, t.Year(), int(t.Month()))
}

// NextReference returns the reference after currentMax within prefix.
// An empty or unparseable currentMax starts the month at 001.
func NextReference(prefix, currentMax string) (string, error) {
	refs, err := ReferenceBlock(prefix, currentMax, 1)
	if err != nil {
		return "", err
	}
	return refs[0], nil
}

// ReferenceBlock allocates count consecutive references after
// currentMax. One scan of the existing max services a whole batch, so
// generating N categories consumes N numbers, not N scans.
func ReferenceBlock(prefix, currentMax string, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}

	next := 1
	if suffix, ok := parseSuffix(prefix, currentMax); ok {
		next = suffix + 1
	}
	if next+count-1 > 999 {
		return nil, ErrSequenceExhausted
	}

	refs := make([]string, count)
	for i := range refs {
		refs[i] = fmt.Sprintf("%s%03d", prefix, next+i)
	}
	return refs, nil
}

func parseSuffix(prefix, ref string) (int, bool) {
	if ref == "" || !strings.HasPrefix(ref, prefix) {
		return 0, false
	}
	suffix := strings.TrimPrefix(ref, prefix)
	if len(suffix) != 3 {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
