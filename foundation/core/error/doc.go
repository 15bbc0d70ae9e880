// Package error provides structured error handling for hl7view.
//
// Package: error
// Title: hl7view Error Handling Framework
// Description: Structured errors with codes, severities, operation context,
//              details and stack traces. Only a handful of operations in
//              hl7view can fail at all (decoding an empty message, reading
//              files, loading configuration); everything else degrades to
//              empty values, so the codes below are deliberately few.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2025-10-02 v0.2.0: HL7 codes, HasCode through wrapped chains, dropped pooling
//
// Usage:
//
//	import mdwerror "github.com/msto63/hl7view/foundation/core/error"
//
//	err := mdwerror.New("HL7 message is empty").
//		WithCode(mdwerror.CodeEmptyMessage).
//		WithOperation("message.Decode")
//
//	if mdwerror.HasCode(err, mdwerror.CodeEmptyMessage) {
//		// tell the user to paste a message first
//	}
package error
