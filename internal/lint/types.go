package lint

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo indicates informational findings (e.g., unknown but
	// harmless configuration keys).
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that should be fixed but don't
	// break the published site.
	SeverityWarning
	// SeverityError indicates issues the external generator would turn
	// into broken links or empty substitutions.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single problem found in the site.
type Issue struct {
	FilePath    string   // Path relative to the blog root
	Severity    Severity // Issue severity level
	Rule        string   // Rule identifier (e.g., "title-pairing")
	Message     string   // Brief description of the issue
	Explanation string   // Detailed explanation with context
	Fix         string   // Suggested fix or command to resolve
	Line        int      // Line number (0 if file-level issue)
}

// Result contains all issues found during a lint run.
type Result struct {
	Issues     []Issue
	FilesTotal int // Total files scanned (pages plus the config file)
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int { return r.countBySeverity(SeverityError) }

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int { return r.countBySeverity(SeverityWarning) }

// InfoCount returns the number of info-level issues.
func (r *Result) InfoCount() int { return r.countBySeverity(SeverityInfo) }

func (r *Result) countBySeverity(s Severity) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			count++
		}
	}
	return count
}

// FileErrorCount returns the number of error-level issues recorded
// against one file. The publish workflow uses it as its gate.
func (r *Result) FileErrorCount(path string) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.FilePath == path && issue.Severity == SeverityError {
			count++
		}
	}
	return count
}

// IssuesForFile returns the issues recorded against one file.
func (r *Result) IssuesForFile(path string) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.FilePath == path {
			out = append(out, issue)
		}
	}
	return out
}
