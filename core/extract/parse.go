package extract

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// headerFields is the number of fields a commit header must carry.
const headerFields = 5

// ParseCommitLog turns a marker-framed git log stream into commit records,
// sorted ascending by timestamp with undated commits last.
// Malformed headers drop their whole record; malformed stat lines are skipped.
func ParseCommitLog(out []byte) []schema.CommitRecord {
	records := []schema.CommitRecord{}
	for chunk := range strings.SplitSeq(string(out), contract.RecordMarker) {
		chunk = strings.Trim(chunk, "\n")
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		lines := strings.Split(chunk, "\n")
		rec, ok := parseHeader(lines[0])
		if !ok {
			continue
		}
		for _, l := range lines[1:] {
			parseStatLine(&rec, l)
		}
		records = append(records, rec)
	}
	SortCommits(records)
	return records
}

// parseHeader reads "hash<US>name<US>email<US>date<US>subject".
// Fields past the fifth are ignored.
func parseHeader(line string) (schema.CommitRecord, bool) {
	parts := strings.Split(strings.TrimSuffix(line, "\r"), contract.FieldSeparator)
	if len(parts) < headerFields {
		return schema.CommitRecord{}, false
	}
	return schema.CommitRecord{
		Hash:        parts[0],
		AuthorName:  parts[1],
		AuthorEmail: parts[2],
		Timestamp:   parseCommitDate(parts[3]),
		Subject:     parts[4],
	}, true
}

// parseCommitDate returns the zero time when the date is not strict ISO 8601.
func parseCommitDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// parseStatLine folds one "added<TAB>deleted<TAB>path" line into rec.
func parseStatLine(rec *schema.CommitRecord, line string) {
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" {
		return
	}
	cols := strings.SplitN(line, "\t", 3)
	if len(cols) < 3 {
		return
	}
	if cols[0] == "-" || cols[1] == "-" {
		rec.Files++
		rec.BinaryFiles++
		return
	}
	added, ok := parseChurnValue(cols[0])
	if !ok {
		return
	}
	deleted, ok := parseChurnValue(cols[1])
	if !ok {
		return
	}
	rec.Files++
	rec.Added += added
	rec.Deleted += deleted
}

func parseChurnValue(s string) (int, bool) {
	val, err := strconv.Atoi(s)
	if err != nil || val < 0 {
		return 0, false
	}
	return val, true
}

// SortCommits orders records by timestamp ascending, keeping undated ones last.
// The sort is stable.
func SortCommits(records []schema.CommitRecord) {
	slices.SortStableFunc(records, func(a, b schema.CommitRecord) int {
		switch {
		case !a.HasTimestamp() && !b.HasTimestamp():
			return 0
		case !a.HasTimestamp():
			return 1
		case !b.HasTimestamp():
			return -1
		default:
			return a.Timestamp.Compare(b.Timestamp)
		}
	})
}
