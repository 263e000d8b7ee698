/*
Package manifest parses and edits declarative workload configurations.

A configuration is a YAML document with a top-level workloads mapping,
where each workload declares its runtime, agent, restart policy, an
embedded runtimeConfig, and optionally dependencies and resource
requests:

	workloads:
	  frontend:
	    runtime: podman
	    agent: agent_A
	    restartPolicy: ALWAYS
	    runtimeConfig: |
	      image: docker.io/library/nginx:latest
	      commandOptions: ["-p", "8080:80"]
	    dependencies:
	      backend: ADD_COND_RUNNING
	    resources:
	      cpu: 1
	      memory: 512

# Why a Node Tree

The package wraps gopkg.in/yaml.v3's node API instead of decoding into
maps. Healing rewrites a user's file, and a rewrite that reorders keys,
drops comments, or reflows block scalars destroys the reviewability of
the fix. Node-level edits touch only what a fix changes; Serialize then
reproduces everything else as written.

It also makes iteration order deterministic: Workloads returns entries
in source order, which downstream checks rely on for stable reports and
deterministic deployment plans.

# Tolerant by Construction

Parse fails only on YAML syntax errors. Every structural oddity that
valid YAML can express (scalar top level, missing workloads section,
null workload specs, a dependencies list where a mapping belongs) parses
fine and is surfaced through predicates (IsMapping, HasWorkloads,
SpecIsMapping) so each checker classifies the problem under its own
issue type instead of this package deciding for them.

# Usage

Read side:

	doc, err := manifest.Parse(text)
	if err != nil {
		// YAML syntax error
	}
	for _, w := range doc.Workloads() {
		runtime, ok := w.StringField("runtime")
		deps := w.DependencyNames()
		...
	}

Write side (healing):

	w, _ := doc.Workload("frontend")
	w.SetField("runtime", "podman")
	w.RemoveDependency("ghost")
	healed, err := doc.Serialize()

# Dependency Forms

Workloads declare dependencies either as a mapping of names to start
conditions (the canonical form) or as a bare depends_on list. Both
feed DependencyNames; the mapping wins when both are present.
*/
package manifest
