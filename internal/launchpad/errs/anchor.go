package errs

import (
	"fmt"
	"strings"
)

// AnchorError is a program error extracted from simulation logs.
// Example log line:
//
//	"Program log: AnchorError occurred. Error Code: InsufficientLiquidity. Error Number: 6001. Error Message: ..."
type AnchorError struct {
	Code int
	Name string
	Msg  string
}

func (e *AnchorError) Error() string {
	return fmt.Sprintf("anchor error %s (%d): %s", e.Name, e.Code, e.Msg)
}

// ParseAnchorLogs scans simulation log lines for an Anchor error report and
// returns the first one found, or nil.
func ParseAnchorLogs(logs []string) *AnchorError {
	for _, line := range logs {
		if !strings.Contains(line, "AnchorError occurred") {
			continue
		}
		return parseAnchorLine(line)
	}
	return nil
}

func parseAnchorLine(line string) *AnchorError {
	out := &AnchorError{}
	if _, rest, ok := strings.Cut(line, "Error Number:"); ok {
		field, _, _ := strings.Cut(rest, ".")
		fmt.Sscanf(strings.TrimSpace(field), "%d", &out.Code)
	}
	if _, rest, ok := strings.Cut(line, "Error Code:"); ok {
		field, _, _ := strings.Cut(rest, ".")
		out.Name = strings.TrimSpace(field)
	}
	if _, rest, ok := strings.Cut(line, "Error Message:"); ok {
		field, _, _ := strings.Cut(rest, ".")
		out.Msg = strings.TrimSpace(field)
	}
	return out
}
