// Package batch decodes OData batch request bodies.
//
// A batch is a multipart/mixed body, every part of which is either an embedded HTTP request
// (application/http), or a changeset: a nested multipart/mixed body of mutating requests,
// which must be applied atomically. The parser turns the body into an ordered list of
// groups, where each group is either a single retrieve request or a changeset.
//
// The body is walked exactly once, line by line, by an explicit state machine with
// a bounded depth: a batch may contain changesets, but changesets may not contain
// changesets. The first protocol violation aborts the parsing, no partial result is ever
// returned. Such violations are reported as *Error carrying one of the Key values, so
// they can be mapped onto response statuses by the caller.
//
// Executing the decoded requests is out of scope. Atomicity of changesets is up to the
// executor.
package batch
