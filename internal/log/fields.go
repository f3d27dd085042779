// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldRunID     = "run_id"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldStage     = "stage"

	// Path / URL fields
	FieldPath    = "path"
	FieldRoot    = "root"
	FieldBaseURL = "base_url"

	// Catalog fields
	FieldFolder    = "folder"
	FieldMediaType = "media_type"
)
