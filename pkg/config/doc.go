// Package config loads pagelegend documents.
//
// A [Loader] validates YAML documents against the JSON schema of their kind,
// decodes them and applies defaults. Errors are annotated with the source
// of the document and styled with the configured theme.
package config
