package query

import "civicsync-dashboard/models"

// Selection is the issue currently open in the detail view. Only the
// identity is kept; the record is looked up in the store on every read.
type Selection struct {
	IssueID string `json:"issueId,omitempty"`
}

func (s *Selection) Select(id string) {
	s.IssueID = id
}

func (s *Selection) Clear() {
	s.IssueID = ""
}

func (s Selection) ID() (string, bool) {
	return s.IssueID, s.IssueID != ""
}

// Resolve returns the current record of the selected issue via get. A
// selection whose identity no longer resolves reads as empty.
func (s Selection) Resolve(get func(id string) (models.Issue, bool)) (models.Issue, bool) {
	id, ok := s.ID()
	if !ok {
		return models.Issue{}, false
	}
	return get(id)
}
