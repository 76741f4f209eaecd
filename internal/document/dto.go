package document

import (
	"strconv"
	"strings"
)

// UploadDTO carries the multipart form fields accompanying the file payload.
// All values arrive as strings.
type UploadDTO struct {
	Audience         string
	TargetDepartment string
	TargetEmployee   string
	RequiresApproval string
	Category         string
	Tags             string
}

// RequiresApprovalFlag treats the string "true" as truthy, everything else
// (including absence) as false.
func (d UploadDTO) RequiresApprovalFlag() bool {
	return strings.EqualFold(strings.TrimSpace(d.RequiresApproval), "true")
}

// TargetEmployeeID parses the optional target employee reference.
func (d UploadDTO) TargetEmployeeID() *int64 {
	s := strings.TrimSpace(d.TargetEmployee)
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// SplitTags turns a comma-separated tags string into a set of trimmed,
// non-empty tokens. Empty input yields an empty collection.
func SplitTags(s string) []string {
	tags := []string{}
	for _, raw := range strings.Split(s, ",") {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// DecideDTO is the approval request body.
type DecideDTO struct {
	Action string `json:"action"`
}

// StatusDTO is the lifecycle-status request body.
type StatusDTO struct {
	Status string `json:"status"`
}
