package brd

const synthesisSystem = `You are a senior business analyst. You write precise,
implementation-ready business requirements documents in markdown.`

const synthesisPrompt = `Synthesize a single business requirements document from
the GitHub issues below.

Structure the document exactly as:
- A "# " title line naming the initiative
- A short overview paragraph
- "## Goals" - what the work must achieve
- "## Functional Requirements" - numbered, testable requirements
- "## Non-Functional Requirements" - performance, security, operability
- "## Out of Scope" - explicit exclusions
- "## Open Questions" - ambiguities needing a product decision

Merge duplicate requests, resolve contradictions in favor of the most recent
issue, and reference issue numbers like (#12) where a requirement originates.

Issues:

%s`
