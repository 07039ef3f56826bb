package decompose

const decompositionSystem = `You are a delivery lead decomposing requirements
into a dependency-ordered task backlog. You respond with a JSON array only.`

const decompositionPrompt = `Decompose the requirements document below into
discrete tasks for specialist agents.

Rules:
- Each task fits ONE category: design, frontend, backend, devops, testing,
  documentation, research
- Priorities: critical, high, medium, low
- estimated_hours is a realistic number of working hours
- depends_on lists the TITLES of prerequisite tasks; no circular dependencies
- Every task needs at least one verifiable acceptance criterion
- Prefer tasks that can run in parallel; only add a dependency when the work
  genuinely cannot start earlier

Respond with ONLY a JSON array of objects:
[
  {
    "title": "...",
    "description": "...",
    "category": "backend",
    "priority": "high",
    "estimated_hours": 4,
    "depends_on": ["title of prerequisite"],
    "acceptance_criteria": ["..."]
  }
]

Requirements document:

%s`
