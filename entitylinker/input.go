package entitylinker

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MentionParseOptions allows callers to choose which CSV columns map to
// mention fields. Empty fields fall back to header auto-detection.
type MentionParseOptions struct {
	LabelColumn string
	StartColumn string
	TypeColumn  string
}

// mentionColumnCandidates lists the header names recognized during
// auto-detection.
var mentionColumnCandidates = struct {
	label []string
	start []string
	typ   []string
}{
	label: []string{"label", "mention", "entity", "surface", "text"},
	start: []string{"start", "offset", "start_char", "startoffset", "start_offset"},
	typ:   []string{"type", "tag", "entity_type", "ner"},
}

// ParseMentionFile reads mentions from a JSON array or a CSV/TSV table,
// chosen by file extension.
func ParseMentionFile(path string, opts MentionParseOptions) ([]Mention, error) {
	var mentions []Mention
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		mentions, err = parseMentionJSON(path)
	case ".tsv":
		mentions, err = parseMentionTable(path, '\t', opts)
	default:
		mentions, err = parseMentionTable(path, ',', opts)
	}
	if err != nil {
		return nil, err
	}
	// Type tags route by exact match; normalize them once here regardless
	// of input format.
	for i := range mentions {
		mentions[i].Type = MentionType(strings.ToUpper(strings.TrimSpace(string(mentions[i].Type))))
	}
	return mentions, nil
}

func parseMentionJSON(path string) ([]Mention, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mention file: %w", err)
	}
	var mentions []Mention
	if err := json.Unmarshal(data, &mentions); err != nil {
		return nil, fmt.Errorf("decode mention file: %w", err)
	}
	return mentions, nil
}

func parseMentionTable(path string, delimiter rune, opts MentionParseOptions) ([]Mention, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mention file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse mention file: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("mention file %s has no data rows", path)
	}

	header := rows[0]
	labelIdx, err := resolveColumn(header, opts.LabelColumn, mentionColumnCandidates.label)
	if err != nil {
		return nil, err
	}
	startIdx, err := resolveColumn(header, opts.StartColumn, mentionColumnCandidates.start)
	if err != nil {
		return nil, err
	}
	typeIdx, err := resolveColumn(header, opts.TypeColumn, mentionColumnCandidates.typ)
	if err != nil {
		return nil, err
	}

	mentions := make([]Mention, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) <= labelIdx || len(row) <= startIdx || len(row) <= typeIdx {
			continue
		}
		start, err := strconv.Atoi(strings.TrimSpace(row[startIdx]))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad start offset %q", i+2, row[startIdx])
		}
		mentions = append(mentions, Mention{
			Label:       strings.TrimSpace(row[labelIdx]),
			StartOffset: start,
			Type:        MentionType(row[typeIdx]),
		})
	}
	return mentions, nil
}

// resolveColumn maps an explicit column name or #index to a header index,
// falling back to the candidate names when nothing was specified.
func resolveColumn(header []string, explicit string, candidates []string) (int, error) {
	if explicit != "" {
		if strings.HasPrefix(explicit, "#") {
			idx, err := strconv.Atoi(explicit[1:])
			if err != nil || idx < 0 || idx >= len(header) {
				return 0, fmt.Errorf("bad column index %q", explicit)
			}
			return idx, nil
		}
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), explicit) {
				return i, nil
			}
		}
		return 0, fmt.Errorf("column %q not found in header", explicit)
	}
	for i, name := range header {
		clean := strings.ToLower(strings.TrimSpace(name))
		for _, cand := range candidates {
			if clean == cand {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("could not detect a column among %v", candidates)
}
