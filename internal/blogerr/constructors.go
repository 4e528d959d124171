package blogerr

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *BlogkitError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigDecode(path string, cause error) *BlogkitError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file is not valid YAML").
		WithContext("path", path)
}

func ValidationFailed(key, reason string) *BlogkitError {
	return New(CategoryValidation, SeverityError, "validation failed").
		WithContext("key", key).
		WithContext("reason", reason)
}

// Content errors

func PageRead(path string, cause error) *BlogkitError {
	return Wrap(cause, CategoryContent, SeverityError, "page read failed").
		WithContext("path", path)
}

func FrontMatterInvalid(path string, cause error) *BlogkitError {
	return Wrap(cause, CategoryContent, SeverityError, "front matter is not valid YAML").
		WithContext("path", path)
}

// Workflow errors

func DraftExists(slug string) *BlogkitError {
	return New(CategoryWorkflow, SeverityFatal, "draft already exists").
		WithContext("slug", slug)
}

func DraftNotFound(slug string) *BlogkitError {
	return New(CategoryWorkflow, SeverityFatal, "draft not found").
		WithContext("slug", slug)
}

func PostNotFound(slug string) *BlogkitError {
	return New(CategoryWorkflow, SeverityFatal, "post not found").
		WithContext("slug", slug)
}

func PublishBlocked(slug string, errorCount int) *BlogkitError {
	return New(CategoryWorkflow, SeverityFatal, "draft has lint errors").
		WithContext("slug", slug).
		WithContext("errors", errorCount)
}

// Link checking errors

func LinkTimeout(url string, cause error) *BlogkitError {
	return WrapRetryable(cause, CategoryLink, SeverityWarning, "link check timed out").
		WithContext("url", url)
}

func LinkUnreachable(url string, cause error) *BlogkitError {
	return Wrap(cause, CategoryLink, SeverityError, "link target unreachable").
		WithContext("url", url)
}

// Store errors

func StoreOpen(path string, cause error) *BlogkitError {
	return Wrap(cause, CategoryStore, SeverityFatal, "ledger open failed").
		WithContext("path", path)
}

// Daemon errors

func DaemonStart(component string, cause error) *BlogkitError {
	return Wrap(cause, CategoryDaemon, SeverityFatal, "daemon component failed to start").
		WithContext("component", component)
}

// Git errors

func NotARepository(path string) *BlogkitError {
	return New(CategoryGit, SeverityError, "not inside a git repository").
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *BlogkitError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
