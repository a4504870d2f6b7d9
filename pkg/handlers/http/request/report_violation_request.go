package request

import "fmt"

const maxDetailsLength = 1024

type ReportViolationRequest struct {
	Details string `json:"details"` // @required
}

func (r *ReportViolationRequest) Validate() error {
	if r.Details == "" {
		return fmt.Errorf("details is required")
	}
	if len(r.Details) > maxDetailsLength {
		return fmt.Errorf("details must be at most %d bytes", maxDetailsLength)
	}
	return nil
}
